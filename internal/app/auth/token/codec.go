// Package token encodes and decodes the signed bearer credentials handed out
// at login. A token carries only a subject and an expiration; access and
// refresh tokens differ in TTL alone and are indistinguishable to Decode, so
// which endpoint accepted the string is the only thing that establishes trust.
package token

import (
	"time"

	customErrors "github.com/aurelin/auth-service/internal/domain/auth/errors"
	"github.com/aurelin/auth-service/internal/domain/auth/model"
	"github.com/golang-jwt/jwt/v5"
)

// Config is handed to NewCodec explicitly; the codec never reads ambient
// state, so tests can run with distinct secrets side by side.
type Config struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, customErrors.NewInvalidArgument("empty signing secret")
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, customErrors.NewInvalidArgument("algorithm must be HMAC (HS256/HS384/HS512): " + cfg.Algorithm)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, customErrors.NewInvalidArgument("token TTLs must be positive")
	}
	return &Codec{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// TTL reports the validity duration a token of the given kind is issued with.
func (c *Codec) TTL(kind model.TokenKind) time.Duration {
	if kind == model.KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a credential for subject expiring at now+TTL(kind). The
// signature covers the whole payload, expiration included.
func (c *Codec) Issue(subject string, kind model.TokenKind, now time.Time) (string, error) {
	if subject == "" {
		return "", customErrors.NewInvalidArgument("empty subject")
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign token")
	}
	return signed, nil
}

// Decode verifies the signature and then the expiration against now, and
// returns the embedded subject. Every failure — forged, expired, malformed —
// collapses into ErrInvalidToken so callers cannot tell the causes apart.
func (c *Codec) Decode(raw string, now time.Time) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		// strict base64: a flip in unused trailing bits must not survive decoding
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return "", customErrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", customErrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
