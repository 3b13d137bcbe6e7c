package routes

import (
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const APIPrefix = "/api/v1"

// Guards - дополнительные middleware на отдельных маршрутах (nil - без ограничения)
type Guards struct {
	Login gin.HandlerFunc
	Apply gin.HandlerFunc
}

// RegisterRoutes регистрирует HTTP API. identity - граница доверия топологии:
// Authenticate (монолит) или TrustedIdentity (сервис за gateway).
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	identity gin.HandlerFunc,
	guards Guards,
) {
	api := ginRouter.Group(APIPrefix)
	api.Use(identity)
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api, nonNil(guards.Login)...)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.ApplicationHandler.RegisterRoutes(api, nonNil(guards.Apply)...)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
	}

	logger.Info("HTTP routes registered", "prefix", APIPrefix, "count", len(ginRouter.Routes()))
}

func nonNil(mws ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mws))
	for _, h := range mws {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
