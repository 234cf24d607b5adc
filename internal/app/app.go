package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/adapter/notifier"
	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/server/http/handlers"
	"github.com/polkiloo/atelier/internal/storage/postgres"
	"github.com/polkiloo/atelier/internal/usecase"
	"github.com/polkiloo/atelier/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newWorkshopFacade,
		func(f *WorkshopFacade) handlers.WorkshopFacade { return f },
		newHealthChecker,
		newHTTPServer,
		newDispatcher,
		func(d *worker.Dispatcher) usecase.Notifier { return d },
		newBalanceAuditor,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth        *usecase.AuthUseCase
	Clients     *usecase.ClientUseCase
	Collections *usecase.CollectionUseCase
	Orders      *usecase.OrderUseCase
	Invoices    *usecase.InvoiceUseCase
	Payments    *usecase.PaymentUseCase
	Audit       *usecase.AuditTrail
	Health      HealthChecker
}

func newWorkshopFacade(p facadeParams) *WorkshopFacade {
	return NewWorkshopFacade(UseCases{
		Auth:        p.Auth,
		Clients:     p.Clients,
		Collections: p.Collections,
		Orders:      p.Orders,
		Invoices:    p.Invoices,
		Payments:    p.Payments,
		Audit:       p.Audit,
	}, p.Health)
}

func newHealthChecker(s *postgres.Storage) HealthChecker {
	return s
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type dispatcherParams struct {
	fx.In

	Sender notifier.Sender
	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *worker.Dispatcher {
	return worker.NewDispatcher(p.Sender, p.Config.NotifyWorkers, p.Config.NotifyQueueSize, p.Logger)
}

type auditorParams struct {
	fx.In

	Facade *WorkshopFacade
	Config *config.Config
	Logger *slog.Logger
}

func newBalanceAuditor(p auditorParams) *worker.BalanceAuditor {
	return worker.NewBalanceAuditor(p.Facade, p.Config.ReconcileInterval, p.Config.ReconcileBatch, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.Dispatcher
	Auditor    *worker.BalanceAuditor
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting atelier", slog.String("addr", p.Server.Addr))
			// The start context expires once startup completes.
			p.Dispatcher.Start(context.Background())
			p.Auditor.Start(context.Background())
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			serverErr := p.Server.Shutdown(shutdownCtx)
			p.Auditor.Stop()
			p.Dispatcher.Stop(shutdownCtx)

			if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
				return serverErr
			}
			p.Logger.Info("atelier stopped")
			return nil
		},
	})
}
