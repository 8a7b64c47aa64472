package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	serv      *http.Server
	auth      AuthService
	customers CustomerService
	churn     ChurnService
	suggest   SuggestService
	admin     AdminService
	staticDir string
	maxUpload int64
}

type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
}

type CustomerService interface {
	Import(ctx context.Context, filename string, r io.Reader) (int, error)
	List(context.Context) ([]models.Customer, error)
	Get(context.Context, int64) (models.Customer, error)
	Create(context.Context, models.Fields) (string, error)
	Update(context.Context, int64, models.Fields) (models.Customer, error)
	Delete(context.Context, int64) error
}

type ChurnService interface {
	Predict(models.Fields) (int, error)
	BatchPredictAndUpdate(context.Context) (int, error)
}

type SuggestService interface {
	Suggest(ctx context.Context, id int64, source string) (string, error)
}

type AdminService interface {
	DeleteAll(context.Context) error
}

type Services struct {
	Auth      AuthService
	Customers CustomerService
	Churn     ChurnService
	Suggest   SuggestService
	Admin     AdminService
}

type Recorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

func New(cfg config.Server, svc Services, rec Recorder, metricsHandler http.Handler, lg logger.Logger) *Server {
	s := &Server{
		auth:      svc.Auth,
		customers: svc.Customers,
		churn:     svc.Churn,
		suggest:   svc.Suggest,
		admin:     svc.Admin,
		staticDir: cfg.StaticDir,
		maxUpload: cfg.MaxUploadSize,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, loggingMiddleware(lg, rec))

	r.Get("/", s.Index)
	r.Get("/test", s.Test)
	r.Post("/register", s.Register)
	r.Post("/login", s.Login)
	r.Post("/upload-all", s.UploadAll)
	r.Get("/data", s.Data)
	r.Delete("/delete-all", s.DeleteAll)
	r.Delete("/delete-client", s.DeleteClient)
	r.Post("/create-client", s.CreateClient)
	r.Post("/update-client/{id}", s.UpdateClient)
	r.Get("/read-client/{id}", s.ReadClient)
	r.Get("/suggest-client/{id}", s.SuggestClient)
	r.Post("/predict", s.Predict)
	r.Get("/batch-predict-update", s.BatchPredictUpdate)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.serv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
