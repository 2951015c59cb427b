package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	handlers "github.com/oksasatya/user-service-ext/internal/interface/http"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

func TestTokenHandlerCheckToken(t *testing.T) {
	secrets := helpers.TokenSecrets{EncryptionSecret: "enc", SigningSecret: "sign"}
	h := handlers.NewTokenHandler(secrets, nil)

	tok, err := helpers.EncryptAndSignJWT(secrets, &helpers.Claims{UserID: "u1", SessionID: "s1"}, time.Minute)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		res, err := h.CheckToken(context.Background(), newEntry(), &adapter.HandlerContext{Body: map[string]any{"token": tok}})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.Status)
		require.Equal(t, adapter.TokenIdentity{UserID: "u1", SessionID: "s1"}, res.Data)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := h.CheckToken(context.Background(), newEntry(), &adapter.HandlerContext{Body: map[string]any{"token": tok + "x"}})
		require.ErrorIs(t, err, helpers.ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := h.CheckToken(context.Background(), newEntry(), &adapter.HandlerContext{Body: map[string]any{}})
		var convErr *adapter.ConversionError
		require.ErrorAs(t, err, &convErr)
	})
}
