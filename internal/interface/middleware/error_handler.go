package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/domain/repository"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
	"github.com/oksasatya/user-service-ext/pkg/response"
	"github.com/oksasatya/user-service-ext/pkg/validation"
)

// ErrorHandler turns the last error recorded with c.Error into an error envelope.
// Handlers never write failures themselves.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		status, message, details := Classify(last.Err)
		if status >= http.StatusInternalServerError && logger != nil {
			logger.WithError(last.Err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.AbortError(c, status, message, details)
	}
}

// Classify maps an error to status, message and optional details.
func Classify(err error) (int, string, any) {
	var verr *validation.Error
	var cerr *adapter.ConversionError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "invalid payload", verr.Details
	case errors.As(err, &cerr):
		return http.StatusBadRequest, "invalid payload", map[string]string{cerr.Field: cerr.Error()}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found", nil
	case errors.Is(err, helpers.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token", nil
	case errors.Is(err, helpers.ErrSessionNotFound):
		return http.StatusUnauthorized, "session not found", nil
	default:
		return http.StatusInternalServerError, "internal server error", nil
	}
}
