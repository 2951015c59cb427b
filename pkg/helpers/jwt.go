package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("token secret not configured")
)

const hkdfInfo = "adapter-auth token data"

// TokenSecrets is the secret pair behind adapter tokens. EncryptionSecret keys the
// AES-GCM envelope of the private claims; SigningSecret keys the HS256 signature.
type TokenSecrets struct {
	EncryptionSecret string
	SigningSecret    string
}

func (s TokenSecrets) validate() error {
	if s.EncryptionSecret == "" {
		return fmt.Errorf("%w: encryption secret", ErrMissingSecret)
	}
	if s.SigningSecret == "" {
		return fmt.Errorf("%w: signing secret", ErrMissingSecret)
	}
	return nil
}

// Claims is the decrypted view of an adapter token.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Exp returns the expiry as unix seconds, 0 when the token carries none.
func (c *Claims) Exp() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

type privateClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sid,omitempty"`
}

// envelope is what actually travels inside the signed JWT
type envelope struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

// EncryptAndSignJWT seals the private claims with the encryption secret and signs
// the resulting envelope with the signing secret. ttl <= 0 leaves exp unset.
func EncryptAndSignJWT(secrets TokenSecrets, claims *Claims, ttl time.Duration) (string, error) {
	if err := secrets.validate(); err != nil {
		return "", err
	}
	plain, err := json.Marshal(privateClaims{UserID: claims.UserID, SessionID: claims.SessionID})
	if err != nil {
		return "", err
	}
	sealed, err := seal(secrets.EncryptionSecret, plain)
	if err != nil {
		return "", err
	}

	now := time.Now()
	reg := claims.RegisteredClaims
	if reg.IssuedAt == nil {
		reg.IssuedAt = jwt.NewNumericDate(now)
	}
	if ttl > 0 {
		reg.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &envelope{Data: sealed, RegisteredClaims: reg})
	return t.SignedString([]byte(secrets.SigningSecret))
}

// DecryptAndVerifyJWT verifies the signature and expiry of tokenStr and opens the
// encrypted claims. Every verification failure wraps ErrInvalidToken.
func DecryptAndVerifyJWT(secrets TokenSecrets, tokenStr string) (*Claims, error) {
	if err := secrets.validate(); err != nil {
		return nil, err
	}
	env := &envelope{}
	tkn, err := jwt.ParseWithClaims(tokenStr, env, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secrets.SigningSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}

	plain, err := open(secrets.EncryptionSecret, env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	var pc privateClaims
	if err := json.Unmarshal(plain, &pc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &Claims{UserID: pc.UserID, SessionID: pc.SessionID, RegisteredClaims: env.RegisteredClaims}, nil
}

func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(secret string) (cipher.AEAD, error) {
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal output layout: base64url([nonce][ciphertext][tag])
func seal(secret string, plain []byte) (string, error) {
	gcm, err := newGCM(secret)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(gcm.Seal(nonce, nonce, plain, nil)), nil
}

func open(secret, data string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(secret)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ct := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plain, nil
}
