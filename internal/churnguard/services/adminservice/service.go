package adminservice

import (
	"context"
	"fmt"

	"github.com/Leopold1975/churnguard/pkg/logger"
)

// Wiper removes every record a store holds.
type Wiper interface {
	Wipe(context.Context) error
}

type AdminService struct {
	stores []Wiper
	lg     logger.Logger
}

func New(lg logger.Logger, stores ...Wiper) *AdminService {
	return &AdminService{
		stores: stores,
		lg:     lg,
	}
}

// DeleteAll wipes customer data and user accounts. It stops at the first
// failing store.
func (as *AdminService) DeleteAll(ctx context.Context) error {
	for i, s := range as.stores {
		if err := s.Wipe(ctx); err != nil {
			return fmt.Errorf("wipe store %d error: %w", i, err)
		}
	}

	as.lg.Info("all data deleted")

	return nil
}
