package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

// ErrNoResult is returned when the wrapped checkToken succeeds without a result.
var ErrNoResult = errors.New("checkToken returned no result")

// DecryptFunc opens an adapter token. helpers.DecryptAndVerifyJWT is the production one.
type DecryptFunc func(secrets helpers.TokenSecrets, token string) (*helpers.Claims, error)

// CheckTokenData replaces whatever the wrapped checkToken returned as data.
type CheckTokenData struct {
	UserID string `json:"userId"`
	Exp    int64  `json:"exp"`
}

// WrapCheckToken runs orig and, only if it succeeds, decrypts the request token to
// surface its expiry. Errors from either step are returned unchanged.
func WrapCheckToken(orig adapter.HandlerFunc, decrypt DecryptFunc, secrets helpers.TokenSecrets) adapter.HandlerFunc {
	return func(ctx context.Context, logger *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
		res, err := orig(ctx, logger, hc)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, ErrNoResult
		}
		token, _ := hc.Body["token"].(string)
		claims, err := decrypt(secrets, token)
		if err != nil {
			return nil, err
		}
		out := *res
		out.Data = CheckTokenData{UserID: userIDOf(res.Data), Exp: claims.Exp()}
		return &out, nil
	}
}

// ModifyAdapterHandlers returns the hook that swaps the host checkToken for its
// decorated form. The handler table passed in is not mutated.
func ModifyAdapterHandlers(secrets helpers.TokenSecrets) adapter.AdapterHandlersHook {
	return func(in adapter.Handlers) (adapter.Handlers, error) {
		orig, ok := in[adapter.CheckTokenHandler]
		if !ok || orig == nil {
			return nil, fmt.Errorf("adapter has no %q handler", adapter.CheckTokenHandler)
		}
		out := make(adapter.Handlers, len(in))
		for name, h := range in {
			out[name] = h
		}
		out[adapter.CheckTokenHandler] = WrapCheckToken(orig, helpers.DecryptAndVerifyJWT, secrets)
		return out, nil
	}
}

func userIDOf(data any) string {
	switch d := data.(type) {
	case adapter.TokenIdentity:
		return d.UserID
	case *adapter.TokenIdentity:
		if d != nil {
			return d.UserID
		}
	case map[string]any:
		s, _ := d["userId"].(string)
		return s
	}
	return ""
}
