package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
)

// CustomRoutesModule mounts routes contributed by startup hooks.
type CustomRoutesModule struct {
	Routes  []adapter.Route
	Limits  PageLimits
	Limiter gin.HandlerFunc
	Logger  *logrus.Logger
}

func NewCustomRoutesModule(routes []adapter.Route, limits PageLimits, limiter gin.HandlerFunc, logger *logrus.Logger) *CustomRoutesModule {
	return &CustomRoutesModule{Routes: routes, Limits: limits, Limiter: limiter, Logger: logger}
}

func (m *CustomRoutesModule) Register(rg *gin.RouterGroup) {
	for _, r := range m.Routes {
		chain := make([]gin.HandlerFunc, 0, 2)
		if m.Limiter != nil {
			chain = append(chain, m.Limiter)
		}
		chain = append(chain, serve(m.Logger, m.Limits, r.Method, r.Path, r.Validators, r.Handler))
		rg.Handle(r.Method, r.Path, chain...)
		m.Logger.WithFields(logrus.Fields{"method": r.Method, "path": r.Path}).Debug("custom route mounted")
	}
}
