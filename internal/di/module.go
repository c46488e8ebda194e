package di

import (
	"go.uber.org/fx"

	"github.com/collinsmw/boutique/internal/adapter/notify"
	"github.com/collinsmw/boutique/internal/adapter/paystack"
	"github.com/collinsmw/boutique/internal/app"
	"github.com/collinsmw/boutique/internal/config"
	"github.com/collinsmw/boutique/internal/logger"
	"github.com/collinsmw/boutique/internal/pkg/auth"
	"github.com/collinsmw/boutique/internal/pkg/signature"
	"github.com/collinsmw/boutique/internal/server/http/handlers"
	"github.com/collinsmw/boutique/internal/server/http/router"
	"github.com/collinsmw/boutique/internal/storage/postgres"
	"github.com/collinsmw/boutique/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		signature.Module,
		postgres.Module,
		paystack.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(client paystack.Client) usecase.Gateway { return client }),
		fx.Provide(func(f *app.ShopFacade) handlers.ShopFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
