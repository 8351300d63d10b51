package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/chenglongtech/membership/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity bound to a bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Maker issues and verifies opaque bearer tokens. Core operations treat it as
// the credential service: Issue(userID) -> token, Verify(token) -> userID.
type Maker interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (*Claims, error)
}

type maker struct {
	secret []byte
	ttl    time.Duration
}

func NewMaker(cfg *config.Config) Maker {
	return &maker{secret: []byte(cfg.JWT.Secret), ttl: cfg.JWT.TTL}
}

func (m *maker) Issue(userID, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *maker) Verify(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

var Module = fx.Options(
	fx.Provide(NewMaker),
)
