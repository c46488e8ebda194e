package notify

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module exposes the notifier implementation to the fx graph.
var Module = fx.Provide(func(logger *slog.Logger) Notifier {
	return NewLogNotifier(logger)
})
