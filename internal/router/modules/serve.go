package modules

import (
	"errors"
	"expvar"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/application"
	"github.com/oksasatya/user-service-ext/pkg/response"
	"github.com/oksasatya/user-service-ext/pkg/validation"
)

// requestStats counts adapter calls per "METHOD path status"; served by the debug module.
var requestStats = expvar.NewMap("adapter_requests")

// PageLimits bounds the page size handed to list handlers.
type PageLimits struct {
	Default int
	Max     int
}

// serve adapts a HandlerFunc to gin. Validators run in order; the first error
// aborts the request and is left for the error middleware.
func serve(logger *logrus.Logger, limits PageLimits, method, path string, validators []adapter.Validator, h adapter.HandlerFunc) gin.HandlerFunc {
	route := method + " " + path
	return func(c *gin.Context) {
		hc, err := handlerContext(c, limits)
		if err != nil {
			fail(c, route, err)
			return
		}

		reqID := c.GetString("request_id")
		ctx := application.WithRequestID(c.Request.Context(), reqID)
		for _, v := range validators {
			if err := v(ctx, hc); err != nil {
				fail(c, route, err)
				return
			}
		}

		entry := logger.WithFields(logrus.Fields{"request_id": reqID, "route": route})
		res, err := h(ctx, entry, hc)
		if err != nil {
			fail(c, route, err)
			return
		}
		if res == nil {
			res = &adapter.Result{}
		}
		response.JSON(c, res.Status, res.Data)
		requestStats.Add(route+" "+strconv.Itoa(c.Writer.Status()), 1)
	}
}

func fail(c *gin.Context, route string, err error) {
	_ = c.Error(err)
	c.Abort()
	requestStats.Add(route+" error", 1)
}

func handlerContext(c *gin.Context, limits PageLimits) (*adapter.HandlerContext, error) {
	body := map[string]any{}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, &validation.Error{Details: validation.ToDetails(err)}
	}
	if body == nil {
		body = map[string]any{}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &adapter.HandlerContext{
		Body:       body,
		Params:     params,
		Query:      c.Request.URL.Query(),
		Pagination: adapter.ParsePagination(c.Query("page"), c.Query("limit"), limits.Default, limits.Max),
	}, nil
}
