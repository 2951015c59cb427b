package modules

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/pkg/validation"
)

type namedRoute struct {
	Method     string
	Path       string
	Validators []adapter.Validator
}

// namedRoutes places the adapter's named handlers on the wire.
var namedRoutes = map[string]namedRoute{
	adapter.CheckTokenHandler: {
		Method:     http.MethodPost,
		Path:       "/auth/token/check",
		Validators: []adapter.Validator{validation.BodyField("token", "required")},
	},
}

// AdapterModule exposes the adapter's handler table. Handlers without a known
// route are skipped.
type AdapterModule struct {
	Handlers adapter.Handlers
	Limits   PageLimits
	Logger   *logrus.Logger
}

func NewAdapterModule(h adapter.Handlers, limits PageLimits, logger *logrus.Logger) *AdapterModule {
	return &AdapterModule{Handlers: h, Limits: limits, Logger: logger}
}

func (m *AdapterModule) Register(rg *gin.RouterGroup) {
	names := make([]string, 0, len(m.Handlers))
	for name := range m.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		nr, ok := namedRoutes[name]
		if !ok {
			m.Logger.WithField("handler", name).Warn("no route for adapter handler")
			continue
		}
		rg.Handle(nr.Method, nr.Path, serve(m.Logger, m.Limits, nr.Method, nr.Path, nr.Validators, m.Handlers[name]))
	}
}
