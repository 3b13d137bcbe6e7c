package auth

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken - единый результат любой неудачной проверки токена.
// Подпись, формат и срок действия не различаются.
var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec выпускает и проверяет HS256 токены. Состояния на сервере нет.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock подменяет часы (тесты)
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...TokenOption) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue выпускает токен для subjectID с ролью и фиксированным TTL
func (c *TokenCodec) Issue(subjectID string, role models.UserRole) (string, error) {
	if subjectID == "" || !role.IsValid() {
		return "", errors.New("cannot issue token: empty subject or unknown role")
	}

	now := c.now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify проверяет подпись, алгоритм, срок и структуру. Любая ошибка -> ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{SubjectID: claims.Subject, Role: models.UserRole(claims.Role)}
	if id.SubjectID == "" || !id.Role.IsValid() {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
