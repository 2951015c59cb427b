package handlers

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

// TokenHandler is the host's stock checkToken: it verifies an adapter token and,
// when redis is configured, that the session it names is still open.
type TokenHandler struct {
	Secrets helpers.TokenSecrets
	RDB     *redis.Client
}

func NewTokenHandler(secrets helpers.TokenSecrets, rdb *redis.Client) *TokenHandler {
	return &TokenHandler{Secrets: secrets, RDB: rdb}
}

func (h *TokenHandler) CheckToken(ctx context.Context, logger *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
	token, err := hc.BodyString("token")
	if err != nil {
		return nil, err
	}
	claims, err := helpers.DecryptAndVerifyJWT(h.Secrets, token)
	if err != nil {
		return nil, err
	}
	if h.RDB != nil {
		if err := helpers.CheckSession(ctx, h.RDB, claims.UserID, claims.SessionID); err != nil {
			logger.WithError(err).WithField("user_id", claims.UserID).Debug("session check failed")
			return nil, err
		}
	}
	return &adapter.Result{
		Data:   adapter.TokenIdentity{UserID: claims.UserID, SessionID: claims.SessionID},
		Status: http.StatusOK,
	}, nil
}
