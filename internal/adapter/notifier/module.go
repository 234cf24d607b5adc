package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/config"
)

// Module exposes the notification sender to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.NotifyWebhookURL == "" {
		return NewLogSender(p.Logger), nil
	}
	return NewWebhookClient(p.Config.NotifyWebhookURL, p.Logger)
}
