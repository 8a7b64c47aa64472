package customerservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/customerrepo"
	"github.com/Leopold1975/churnguard/pkg/logger"
)

var (
	ErrNotFound     = fmt.Errorf("%w: client not found", models.ErrNotFound)
	ErrDuplicateKey = fmt.Errorf("%w: a client with the given CustomerID already exists", models.ErrConflict)
)

type Repository interface {
	InsertMany(context.Context, []models.Fields) (int, error)
	List(context.Context) ([]models.Customer, error)
	GetByCustomerID(context.Context, int64) (models.Customer, error)
	Create(context.Context, models.Fields) (string, error)
	Update(context.Context, int64, models.Fields) (models.Customer, error)
	Delete(context.Context, int64) error
}

type CustomerService struct {
	repo Repository
	lg   logger.Logger
}

func New(repo Repository, lg logger.Logger) *CustomerService {
	return &CustomerService{
		repo: repo,
		lg:   lg,
	}
}

func (cs *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := cs.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers error: %w", err)
	}

	return customers, nil
}

func (cs *CustomerService) Get(ctx context.Context, id int64) (models.Customer, error) {
	c, err := cs.repo.GetByCustomerID(ctx, id)
	if err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) {
			return models.Customer{}, ErrNotFound
		}

		return models.Customer{}, fmt.Errorf("get customer error: %w", err)
	}

	return c, nil
}

// Create inserts f unless its CustomerID is already taken. The check and the
// insert are separate operations, so concurrent creates may both succeed.
// A client supplied internal id is ignored.
func (cs *CustomerService) Create(ctx context.Context, f models.Fields) (string, error) {
	id, err := f.CustomerID()
	if err != nil {
		return "", err
	}

	_, err = cs.repo.GetByCustomerID(ctx, id)
	switch {
	case err == nil:
		return "", ErrDuplicateKey
	case !errors.Is(err, customerrepo.ErrNotFound):
		return "", fmt.Errorf("get customer error: %w", err)
	}

	internalID, err := cs.repo.Create(ctx, f.Without(models.InternalIDField))
	if err != nil {
		return "", fmt.Errorf("create customer error: %w", err)
	}

	return internalID, nil
}

// Update merges f into the stored record. CustomerID and the internal id in f
// are dropped so they can never change.
func (cs *CustomerService) Update(ctx context.Context, id int64, f models.Fields) (models.Customer, error) {
	changes := f.Without(models.CustomerIDField, models.InternalIDField)
	if len(changes) == 0 {
		return cs.Get(ctx, id)
	}

	c, err := cs.repo.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) {
			return models.Customer{}, ErrNotFound
		}

		return models.Customer{}, fmt.Errorf("update customer error: %w", err)
	}

	return c, nil
}

func (cs *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := cs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, customerrepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete customer error: %w", err)
	}

	return nil
}
