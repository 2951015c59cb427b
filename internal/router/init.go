package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/config"
	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/container"
	"github.com/oksasatya/user-service-ext/internal/extension"
	handlers "github.com/oksasatya/user-service-ext/internal/interface/http"
	"github.com/oksasatya/user-service-ext/internal/interface/middleware"
	"github.com/oksasatya/user-service-ext/internal/router/modules"
	"github.com/oksasatya/user-service-ext/pkg/response"
)

// BuildServiceOptions assembles the stock adapter and runs the startup hooks
// over it: role routes first, then the checkToken rewrite.
func BuildServiceOptions(ctx context.Context, cfg *config.Config, deps adapter.Dependencies, logger *logrus.Logger) (adapter.ServiceOptions, error) {
	tokens := handlers.NewTokenHandler(cfg.TokenSecrets(), deps.Redis)
	opts := adapter.ServiceOptions{
		Adapter: &adapter.Adapter{
			Dependencies: deps,
			Handlers:     adapter.Handlers{adapter.CheckTokenHandler: tokens.CheckToken},
		},
	}

	opts, err := extension.BeforeStartService(cfg.RolesCollection, logger)(ctx, opts)
	if err != nil {
		return opts, fmt.Errorf("before start service: %w", err)
	}
	h, err := extension.ModifyAdapterHandlers(cfg.TokenSecrets())(opts.Adapter.Handlers)
	if err != nil {
		return opts, fmt.Errorf("modify adapter handlers: %w", err)
	}
	opts.Adapter.Handlers = h
	return opts, nil
}

// Mount adds the modules serving opts to the registry, with error translation on the API group.
func Mount(r *Registry, cfg *config.Config, opts adapter.ServiceOptions, logger *logrus.Logger) {
	limits := modules.PageLimits{Default: cfg.PageLimitDefault, Max: cfg.PageLimitMax}
	rdb := opts.Adapter.Dependencies.Redis

	r.Use(middleware.ErrorHandler(logger))
	limiter := middleware.RateLimit(rdb, cfg.CustomRouteRateLimit, time.Minute, middleware.KeyByIPAndPath(), nil)
	r.Add(modules.NewCustomRoutesModule(opts.CustomRoutes, limits, limiter, logger))
	r.Add(modules.NewAdapterModule(opts.Adapter.Handlers, limits, logger))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
	r.Engine.NoRoute(func(c *gin.Context) {
		response.AbortError(c, http.StatusNotFound, "route not found", nil)
	})
}

// InitModules initializes all application modules from the container and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(ctx context.Context, r *Registry) error {
	cfg, logger := container.GetConfig(), container.GetLogger()
	opts, err := BuildServiceOptions(ctx, cfg, container.Dependencies(), logger)
	if err != nil {
		return err
	}
	Mount(r, cfg, opts, logger)
	return nil
}
