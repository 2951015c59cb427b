package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/domain/repository"
	"github.com/oksasatya/user-service-ext/internal/interface/middleware"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
	"github.com/oksasatya/user-service-ext/pkg/validation"
)

func init() { gin.SetMode(gin.TestMode) }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &validation.Error{Details: map[string]string{"roleId": "is required"}}, http.StatusBadRequest},
		{"conversion", &adapter.ConversionError{Field: "permissions", Want: "array", Got: "string"}, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: id x", repository.ErrNotFound), http.StatusNotFound},
		{"bad token", fmt.Errorf("%w: expired", helpers.ErrInvalidToken), http.StatusUnauthorized},
		{"no session", helpers.ErrSessionNotFound, http.StatusUnauthorized},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, _ := middleware.Classify(tt.err)
			require.Equal(t, tt.status, status)
		})
	}
}

func TestErrorHandlerWritesEnvelope(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.ErrorHandler(logger))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(repository.ErrNotFound) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "not found", body.Message)
	require.Equal(t, w.Header().Get(middleware.RequestIDHeader), body.RequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, w.Body.Len())
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, inbound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, inbound, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.NotEqual(t, "not-a-uuid", w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
}

func TestRealIP(t *testing.T) {
	trusted, bad := middleware.ParseTrustedProxies([]string{"192.0.2.0/24", "::1", "not-an-ip", " "})
	require.Len(t, trusted, 2)
	require.Equal(t, []string{"not-an-ip"}, bad)

	serve := func(nets []*net.IPNet, remote string, headers map[string]string) string {
		r := gin.New()
		r.Use(middleware.RealIP(nets))
		r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RealIPKey)) })
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	t.Run("trusted proxy forwards the client", func(t *testing.T) {
		got := serve(trusted, "192.0.2.10:4000", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"})
		require.Equal(t, "203.0.113.7", got)
	})

	t.Run("cloudflare header wins", func(t *testing.T) {
		got := serve(trusted, "192.0.2.10:4000", map[string]string{
			"CF-Connecting-IP": "198.51.100.2",
			"X-Forwarded-For":  "203.0.113.7",
		})
		require.Equal(t, "198.51.100.2", got)
	})

	t.Run("untrusted peer cannot spoof", func(t *testing.T) {
		got := serve(trusted, "198.51.100.99:4000", map[string]string{"X-Forwarded-For": "203.0.113.7"})
		require.Equal(t, "198.51.100.99", got)
	})

	t.Run("no trusted proxies uses the peer", func(t *testing.T) {
		got := serve(nil, "[::1]:4000", map[string]string{"X-Forwarded-For": "203.0.113.7"})
		require.Equal(t, "::1", got)
	})
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimit(nil, 1, time.Minute, middleware.KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
