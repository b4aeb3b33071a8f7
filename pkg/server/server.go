package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/churn-scope/pkg/handlers/churn"
	churnmiddleware "github.com/de-tools/churn-scope/pkg/server/middleware"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/retention"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Ingestor Ingestor
	History  history.Service
	Comparer Comparer
	Policy   retention.ActionPolicy
	Logger   zerolog.Logger
}

// Ingestor and Comparer re-export the handler contracts so wiring code only
// imports this package.
type Ingestor = handlers.Ingestor
type Comparer = handlers.Comparer

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	policy := deps.Policy
	if policy == nil {
		policy = retention.DefaultPolicy()
	}
	handler := handlers.NewHandler(deps.Ingestor, deps.History, deps.Comparer, policy)

	router := chi.NewRouter()
	router.Use(churnmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/owners/{owner}/snapshots", handler.IngestSnapshot)
		r.Get("/owners/{owner}/snapshots", handler.ListSnapshots)
		r.Post("/owners/{owner}/retention", handler.RankUpload)
		r.Get("/snapshots/{id}", handler.GetSnapshot)
		r.Get("/snapshots/{id}/customers", handler.GetSnapshotCustomers)
		r.Get("/snapshots/{id}/retention", handler.RankSnapshot)
		r.Delete("/snapshots/{id}", handler.DeleteSnapshot)
		r.Get("/compare", handler.CompareSnapshots)
	})

	return router
}

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(config)
	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &WebAPI{
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
