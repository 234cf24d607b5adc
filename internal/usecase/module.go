package usecase

import "go.uber.org/fx"

// Module provides core business use cases to the fx container.
// A Notifier must be supplied by the surrounding graph.
var Module = fx.Provide(
	fx.Annotate(NewAuditTrail, fx.As(fx.Self()), fx.As(new(AuditLogger))),
	NewSideEffects,
	NewAuthUseCase,
	NewClientUseCase,
	NewCollectionUseCase,
	NewOrderUseCase,
	NewInvoiceUseCase,
	NewPaymentUseCase,
)
