package handlers

import (
	"net/http"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PATCH("", h.UpdateProfile)
		users.GET("/:id", h.GetUser)
		users.DELETE("/:id", h.DeleteUser)
		users.PATCH("/:id/role", h.UpdateRole)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": users, "total": len(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	if _, ok := h.RequireIdentity(c); !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": user})
}

// UpdateProfile - multipart: username, location, gender и необязательный файл resume
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}
	file, ok := h.OptionalFormFile(c, "resume")
	if !ok {
		return
	}
	req.Resume = file

	user, err := h.userService.UpdateProfile(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UpdateRole: новая роль действует после повторного входа пользователя
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": user})
}
