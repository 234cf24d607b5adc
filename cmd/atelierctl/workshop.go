package main

import (
	"context"
	"log/slog"

	"github.com/polkiloo/atelier/internal/app"
	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/logger"
	"github.com/polkiloo/atelier/internal/storage/postgres"
	"github.com/polkiloo/atelier/internal/usecase"
)

// workshop is the slice of the service the maintenance commands drive.
type workshop interface {
	ReconcileOrder(ctx context.Context, accountID, id int64) (*model.Reconciliation, error)
	ReconcileBatch(ctx context.Context, afterID int64, limit int) ([]model.Reconciliation, int64, error)
}

type opener func(ctx context.Context) (workshop, *config.Config, *slog.Logger, func(), error)

// openWorkshop connects to the database named by the environment. Notifications are not sent.
func openWorkshop(ctx context.Context) (workshop, *config.Config, *slog.Logger, func(), error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	log := logger.New(cfg.LogLevel)

	store, err := postgres.New(ctx, cfg.DatabaseURI, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	audit := usecase.NewAuditTrail(store)
	effects := usecase.NewSideEffects(nil, audit, store, log)
	facade := app.NewWorkshopFacade(app.UseCases{
		Payments: usecase.NewPaymentUseCase(store, effects, log),
		Audit:    audit,
	}, store)
	return facade, cfg, log, store.Close, nil
}
