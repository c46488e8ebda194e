package signature

import (
	"go.uber.org/fx"

	"github.com/collinsmw/boutique/internal/config"
)

// Module exposes the webhook verifier to the fx graph.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) *Verifier {
	return NewVerifier(p.Config.WebhookSecret)
}
