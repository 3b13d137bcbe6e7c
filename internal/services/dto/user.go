package dto

import "mime/multipart"

// UpdateProfileRequest - multipart-форма профиля; пустые поля не меняются
type UpdateProfileRequest struct {
	Username *string `form:"username" validate:"omitempty,min=3,max=30,is-username"`
	Location *string `form:"location" validate:"omitempty,max=100"`
	Gender   *string `form:"gender" validate:"omitempty,oneof=male female other"`

	Resume *multipart.FileHeader `form:"-" json:"-"`
}

// UpdateRoleRequest - смена роли администратором
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,is-user-role"`
}
