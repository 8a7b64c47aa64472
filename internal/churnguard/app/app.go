package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Leopold1975/churnguard/internal/churnguard/api/server"
	cr "github.com/Leopold1975/churnguard/internal/churnguard/repository/customerrepo/mongo"
	urpg "github.com/Leopold1975/churnguard/internal/churnguard/repository/userrepo/postgres"
	urrdb "github.com/Leopold1975/churnguard/internal/churnguard/repository/userrepo/redis"
	"github.com/Leopold1975/churnguard/internal/churnguard/services/adminservice"
	"github.com/Leopold1975/churnguard/internal/churnguard/services/authservice"
	"github.com/Leopold1975/churnguard/internal/churnguard/services/churnservice"
	"github.com/Leopold1975/churnguard/internal/churnguard/services/customerservice"
	"github.com/Leopold1975/churnguard/internal/churnguard/services/suggestservice"
	"github.com/Leopold1975/churnguard/internal/pkg/churnmodel"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/h2ogpte"
	"github.com/Leopold1975/churnguard/internal/pkg/metrics"
	"github.com/Leopold1975/churnguard/internal/pkg/mongotools"
	"github.com/Leopold1975/churnguard/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type UserStore interface {
	authservice.Repository
	adminservice.Wiper
	Close(context.Context) error
}

type ChurnApp struct {
	s       Server
	lg      logger.Logger
	cfg     config.Config
	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config) (ChurnApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return ChurnApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	model, err := churnmodel.Load(cfg.Model)
	if err != nil {
		return ChurnApp{}, fmt.Errorf("churn model loading error: %w", err)
	}

	mc, err := mongotools.Connect(ctx, cfg.MongoDB)
	if err != nil {
		return ChurnApp{}, fmt.Errorf("mongo initializing error: %w", err)
	}

	db := mc.Database(cfg.MongoDB.Database)
	customerRepo := cr.New(db, cfg.MongoDB.Collection)
	batchRepo := cr.New(db, cfg.MongoDB.BatchCollection)

	userStore, err := newUserStore(ctx, cfg)
	if err != nil {
		mc.Disconnect(ctx) //nolint:errcheck

		return ChurnApp{}, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})) //nolint:exhaustruct
	collector := metrics.NewCollector(reg)

	llm := h2ogpte.New(cfg.LLM, &http.Client{}) //nolint:exhaustruct

	customerService := customerservice.New(customerRepo, lg)

	s := server.New(cfg.Server, server.Services{
		Auth:      authservice.New(userStore, cfg.Users),
		Customers: customerService,
		Churn: churnservice.New(model.Preprocessor, model.Classifier, batchRepo,
			cfg.Model.LabelField, collector, lg),
		Suggest: suggestservice.New(customerService, llm, cfg.LLM, collector, lg),
		Admin:   adminservice.New(lg, customerRepo, userStore),
	}, collector, metrics.Handler(reg), lg)

	return ChurnApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
		closers: []func(context.Context) error{
			mc.Disconnect,
			userStore.Close,
		},
	}, nil
}

func newUserStore(ctx context.Context, cfg config.Config) (UserStore, error) {
	switch cfg.Users.Driver {
	case config.UserDriverRedis:
		ur, err := urrdb.New(ctx, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis user repo initializing error: %w", err)
		}

		return ur, nil
	default:
		ur, err := urpg.New(ctx, cfg.PostgresDB)
		if err != nil {
			return nil, fmt.Errorf("postgres user repo initializing error: %w", err)
		}

		return ur, nil
	}
}

func (ca *ChurnApp) Run(ctx context.Context) {
	ca.lg.Infof("STARTED SERVER ON %s", ca.cfg.Server.Addr)

	errCh := make(chan error, 1)

	go func() {
		errCh <- ca.s.Start(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			ca.lg.Errorf("server start error: %s", err.Error())
		}
	}

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ca.Stop(ctxS); err != nil { //nolint:contextcheck
		ca.lg.Errorf("shutdown error: %s", err.Error())
	}
}

func (ca *ChurnApp) Stop(ctx context.Context) error {
	if err := ca.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	for _, closeFn := range ca.closers {
		if err := closeFn(ctx); err != nil {
			ca.lg.Errorf("close error: %s", err.Error())
		}
	}

	ca.lg.Info("Shutdowned successfully")
	ca.lg.Sync() //nolint:errcheck

	return nil
}
