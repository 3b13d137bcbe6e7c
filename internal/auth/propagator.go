package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated - нет токена или он не прошел проверку на защищенном маршруте
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenSource достает сырой токен из запроса. Пустая строка - токена нет.
type TokenSource func(r *http.Request) string

// CookieSource - токен из cookie (монолит: jobPortalToken)
func CookieSource(name string) TokenSource {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(cookie.Value)
	}
}

// BearerSource - токен из Authorization: Bearer <token>
func BearerSource() TokenSource {
	return func(r *http.Request) string {
		header := r.Header.Get("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			return ""
		}
		return strings.TrimSpace(header[7:])
	}
}

// FirstOf возвращает первый непустой токен из источников по порядку
func FirstOf(sources ...TokenSource) TokenSource {
	return func(r *http.Request) string {
		for _, src := range sources {
			if token := src(r); token != "" {
				return token
			}
		}
		return ""
	}
}

// SourcesByName собирает источник из конфигурации ("cookie", "bearer")
func SourcesByName(names []string, cookieName string) TokenSource {
	var sources []TokenSource
	for _, name := range names {
		switch name {
		case "cookie":
			sources = append(sources, CookieSource(cookieName))
		case "bearer":
			sources = append(sources, BearerSource())
		}
	}
	return FirstOf(sources...)
}

// PublicRoute - маршрут без обязательной аутентификации.
// Пустой Method - любой метод. Prefix сравнивается по целым сегментам пути.
type PublicRoute struct {
	Method string
	Prefix string
}

func (p PublicRoute) Matches(method, path string) bool {
	if p.Method != "" && !strings.EqualFold(p.Method, method) {
		return false
	}
	prefix := strings.TrimSuffix(p.Prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

type PublicRoutes []PublicRoute

func (routes PublicRoutes) Matches(r *http.Request) bool {
	for _, route := range routes {
		if route.Matches(r.Method, r.URL.Path) {
			return true
		}
	}
	return false
}

// DefaultPublicRoutes - публичные маршруты API
func DefaultPublicRoutes() PublicRoutes {
	return PublicRoutes{
		{Method: http.MethodPost, Prefix: "/api/v1/auth/register"},
		{Method: http.MethodPost, Prefix: "/api/v1/auth/login"},
		{Method: http.MethodPost, Prefix: "/api/v1/auth/logout"},
		{Method: http.MethodGet, Prefix: "/api/v1/jobs"},
		{Method: http.MethodGet, Prefix: "/api/v1/health"},
		{Method: http.MethodOptions, Prefix: "/"},
	}
}

// Propagator проверяет токен на внешней границе доверия.
type Propagator struct {
	codec  *TokenCodec
	source TokenSource
	public PublicRoutes
}

func NewPropagator(codec *TokenCodec, source TokenSource, public PublicRoutes) *Propagator {
	return &Propagator{
		codec:  codec,
		source: source,
		public: public,
	}
}

func (p *Propagator) IsPublic(r *http.Request) bool {
	return p.public.Matches(r)
}

// Resolve возвращает:
//   - (identity, nil) если токен валиден;
//   - (nil, nil) на публичном маршруте без валидного токена;
//   - (nil, ErrUnauthenticated) на защищенном маршруте без токена или с невалидным токеном.
func (p *Propagator) Resolve(r *http.Request) (*Identity, error) {
	public := p.IsPublic(r)

	token := p.source(r)
	if token == "" {
		if public {
			return nil, nil
		}
		return nil, ErrUnauthenticated
	}

	id, err := p.codec.Verify(token)
	if err != nil {
		if public {
			return nil, nil
		}
		return nil, ErrUnauthenticated
	}
	return &id, nil
}
