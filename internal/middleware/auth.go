package middleware

import (
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/pkg/apperrors"
	"jobportal_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// Authenticate - граница доверия монолита: токен проверяется в процессе,
// личность кладется в context запроса
func Authenticate(p *auth.Propagator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// в монолите заголовки личности ничего не значат
		auth.StripIdentityHeaders(c.Request.Header)

		id, err := p.Resolve(c.Request)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrUnauthenticated)
			return
		}
		if id != nil {
			attachIdentity(c, *id)
		}
		c.Next()
	}
}

// PropagateIdentity - граница доверия gateway. Входящие X-USER-ID/X-USER-ROLE удаляются
// всегда, затем по проверенному токену выставляются заново. Запрос без личности на
// защищенный маршрут получает 401 и дальше не идет.
func PropagateIdentity(p *auth.Propagator) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.StripIdentityHeaders(c.Request.Header)

		id, err := p.Resolve(c.Request)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "Rejected at gateway", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrUnauthenticated)
			return
		}
		if id != nil {
			auth.SetIdentityHeaders(c.Request.Header, *id)
			attachIdentity(c, *id)
		}
		c.Next()
	}
}

// TrustedIdentity - backend-сервис за gateway: личность берется из заголовков.
// Сервис обязан быть доступен только через gateway.
func TrustedIdentity(public auth.PublicRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromHeaders(c.Request.Header)
		if !ok {
			if !public.Matches(c.Request) {
				apperrors.HandleError(c, apperrors.ErrUnauthenticated)
				return
			}
			c.Next()
			return
		}
		attachIdentity(c, id)
		c.Next()
	}
}

func attachIdentity(c *gin.Context, id auth.Identity) {
	ctx := auth.WithIdentity(c.Request.Context(), id)
	ctx = logger.WithUserID(ctx, id.SubjectID, string(id.Role))
	c.Request = c.Request.WithContext(ctx)

	c.Set(contextkeys.GinUserIDKey, id.SubjectID)
	c.Set(contextkeys.GinRoleKey, id.Role)
}

// GetIdentity извлекает личность текущего запроса
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	return auth.FromContext(c.Request.Context())
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	id, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	return id.SubjectID
}
