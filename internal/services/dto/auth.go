package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

// RegisterRequest - запрос регистрации. Role: recruiter или admin (с кодом), иначе applicant.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30,is-username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role" validate:"omitempty"`
	AdminCode       string `json:"adminCode,omitempty"`
	Location        string `json:"location,omitempty" validate:"omitempty,max=100"`
	Gender          string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - токен и пользователь. Токен дублируется в cookie.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expiresIn"` // секунды
	User      *UserResponse `json:"user"`
}

// UserResponse - пользователь без хеша пароля
type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Location  string          `json:"location,omitempty"`
	Gender    string          `json:"gender,omitempty"`
	Resume    string          `json:"resume,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Location:  u.Location,
		Gender:    u.Gender,
		Resume:    u.Resume,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
