package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/oksasatya/user-service-ext/config"
	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/application"
	"github.com/oksasatya/user-service-ext/internal/domain/repository/repotest"
	"github.com/oksasatya/user-service-ext/internal/extension"
	handlers "github.com/oksasatya/user-service-ext/internal/interface/http"
	"github.com/oksasatya/user-service-ext/internal/interface/middleware"
	"github.com/oksasatya/user-service-ext/internal/router"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

var testSecrets = helpers.TokenSecrets{EncryptionSecret: "enc-secret", SigningSecret: "sign-secret"}

func testConfig() *config.Config {
	return &config.Config{
		RolesCollection:       "roles",
		AdapterAuthEncSecret:  testSecrets.EncryptionSecret,
		AdapterAuthSignSecret: testSecrets.SigningSecret,
		PageLimitDefault:      20,
		PageLimitMax:          100,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// newServer mounts role routes over an in-memory store plus the wrapped checkToken.
func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := quietLogger()

	roles := handlers.NewRoleHandler(application.NewRoleService(repotest.NewRoleRepository(), nil, logger))
	tokens := handlers.NewTokenHandler(testSecrets, nil)
	wrapped, err := extension.ModifyAdapterHandlers(testSecrets)(adapter.Handlers{adapter.CheckTokenHandler: tokens.CheckToken})
	require.NoError(t, err)

	opts := adapter.ServiceOptions{
		Adapter:      &adapter.Adapter{Handlers: wrapped},
		CustomRoutes: roles.Routes(),
	}

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware(), middleware.RealIP(nil))
	reg := router.NewRegistry(engine)
	router.Mount(reg, testConfig(), opts, logger)
	require.Equal(t, 2, reg.Len())
	reg.RegisterAll()
	reg.RegisterAll()
	return engine
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestRoleRoutesEndToEnd(t *testing.T) {
	srv := newServer(t)

	w, env := do(t, srv, http.MethodPost, "/api/roles", `{"name":"admin","permissions":["read","write"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var created struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "admin", created.Name)
	require.Equal(t, []string{"read", "write"}, created.Permissions)

	w, env = do(t, srv, http.MethodGet, "/api/roles?page=1&limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
		Limit int               `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, 100, page.Limit)

	w, env = do(t, srv, http.MethodPatch, "/api/roles/"+created.ID, `{"permissions":["read"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "admin", created.Name)
	require.Equal(t, []string{"read"}, created.Permissions)

	w, _ = do(t, srv, http.MethodDelete, "/api/roles/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, w.Body.Len())

	// deleting again still answers 204; success=false stays in the handler result
	w, _ = do(t, srv, http.MethodDelete, "/api/roles/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRoleRoutesErrors(t *testing.T) {
	srv := newServer(t)

	t.Run("update unknown role", func(t *testing.T) {
		w, env := do(t, srv, http.MethodPatch, "/api/roles/65f1c0ffee0123456789abcd", `{"permissions":[]}`)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.False(t, env.Success)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, env := do(t, srv, http.MethodPost, "/api/roles", `{"name":}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.JSONEq(t, `{"payload":"invalid json"}`, string(env.Error))
	})

	t.Run("permissions not a list", func(t *testing.T) {
		w, _ := do(t, srv, http.MethodPost, "/api/roles", `{"name":"x","permissions":"all"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("huge page is clamped", func(t *testing.T) {
		w, env := do(t, srv, http.MethodGet, "/api/roles?page=92233720368547760&limit=100", "")
		require.Equal(t, http.StatusOK, w.Code)
		var page struct {
			Items   []json.RawMessage `json:"items"`
			Page    int               `json:"page"`
			HasNext bool              `json:"hasNext"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Empty(t, page.Items)
		require.False(t, page.HasNext)
		require.Equal(t, adapter.MaxOffset/100+1, page.Page)
	})

	t.Run("unknown route", func(t *testing.T) {
		w, _ := do(t, srv, http.MethodGet, "/api/nope", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckTokenRoute(t *testing.T) {
	srv := newServer(t)

	tok, err := helpers.EncryptAndSignJWT(testSecrets, &helpers.Claims{UserID: "user-1", SessionID: "s1"}, time.Hour)
	require.NoError(t, err)

	w, env := do(t, srv, http.MethodPost, "/api/auth/token/check", `{"token":"`+tok+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 2)
	require.Equal(t, "user-1", data["userId"])
	require.InDelta(t, float64(time.Now().Add(time.Hour).Unix()), data["exp"], 5)

	w, env = do(t, srv, http.MethodPost, "/api/auth/token/check", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"token":"is required"}`, string(env.Error))

	other, err := helpers.EncryptAndSignJWT(helpers.TokenSecrets{EncryptionSecret: "enc-secret", SigningSecret: "wrong"}, &helpers.Claims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)
	w, _ = do(t, srv, http.MethodPost, "/api/auth/token/check", `{"token":"`+other+`"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildServiceOptions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("runs both hooks", func(mt *mtest.T) {
		opts, err := router.BuildServiceOptions(context.Background(), testConfig(), adapter.Dependencies{DB: mt.DB}, quietLogger())
		require.NoError(mt, err)
		require.Len(mt, opts.CustomRoutes, 4)
		require.Contains(mt, opts.Adapter.Handlers, adapter.CheckTokenHandler)

		tok, err := helpers.EncryptAndSignJWT(testSecrets, &helpers.Claims{UserID: "u"}, time.Minute)
		require.NoError(mt, err)
		res, err := opts.Adapter.Handlers[adapter.CheckTokenHandler](context.Background(), logrus.NewEntry(quietLogger()), &adapter.HandlerContext{Body: map[string]any{"token": tok}})
		require.NoError(mt, err)
		require.IsType(mt, extension.CheckTokenData{}, res.Data)
	})

	mt.Run("fails without a database", func(mt *mtest.T) {
		_, err := router.BuildServiceOptions(context.Background(), testConfig(), adapter.Dependencies{}, quietLogger())
		require.ErrorIs(mt, err, extension.ErrNoDatabase)
	})
}
