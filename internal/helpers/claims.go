package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the band identity. Subject holds the band id.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) BandID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ti *TokenIssuer) Issue(bandID uuid.UUID, name, email string) (string, time.Time, error) {
	now := ti.now()
	expires := now.Add(ti.ttl)
	claims := &Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   bandID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate checks tokens this issuer signed.
func (ti *TokenIssuer) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWKSValidator accepts tokens signed by an external identity provider that
// publishes its keys as a JWKS document. Keys are refreshed in the background
// until Close.
type JWKSValidator struct {
	jwks   *keyfunc.JWKS
	cancel context.CancelFunc
}

// JWKSOptions tunes key refresh. Zero values mean hourly refresh and at most
// one unknown-kid refresh per minute.
type JWKSOptions struct {
	RefreshInterval  time.Duration
	RefreshRateLimit time.Duration
}

func NewJWKSValidator(jwksURL string, opts JWKSOptions, logger *slog.Logger) (*JWKSValidator, error) {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Hour
	}
	if opts.RefreshRateLimit <= 0 {
		opts.RefreshRateLimit = time.Minute
	}

	// the refresh goroutine lives as long as the validator, not the caller's request
	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   opts.RefreshInterval,
		RefreshRateLimit:  opts.RefreshRateLimit,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("jwks refresh failed", "url", jwksURL, "error", err)
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load jwks from %s: %w", jwksURL, err)
	}
	return &JWKSValidator{jwks: jwks, cancel: cancel}, nil
}

func (jv *JWKSValidator) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, jv.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (jv *JWKSValidator) Close() {
	jv.jwks.EndBackground()
	jv.cancel()
}

// Validators tries each validator in order and returns the first success.
type Validators []TokenValidator

func (vs Validators) Validate(tokenStr string) (*Claims, error) {
	var lastErr error = ErrInvalidToken
	for _, v := range vs {
		claims, err := v.Validate(tokenStr)
		if err == nil {
			return claims, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
