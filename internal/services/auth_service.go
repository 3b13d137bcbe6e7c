package services

import (
	"context"
	"errors"
	"strings"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, db *gorm.DB, actor auth.Identity) (*dto.UserResponse, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	codec     *auth.TokenCodec
	adminCode string
}

func NewAuthService(userRepo repositories.UserRepository, codec *auth.TokenCodec, adminCode string) AuthService {
	return &authService{
		userRepo:  userRepo,
		codec:     codec,
		adminCode: adminCode,
	}
}

// Register: первый пользователь становится администратором.
// Роль admin требует кода администратора, recruiter разрешен, все остальное - applicant.
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	email := normalizeEmail(req.Email)
	requested := models.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if requested == models.UserRoleAdmin && req.AdminCode != s.adminCode {
		return nil, apperrors.ErrInvalidAdminCode
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Подсчет и создание в одной транзакции, иначе два "первых" пользователя станут админами
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByEmail(tx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	count, err := s.userRepo.Count(tx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         resolveRegistrationRole(count, requested),
		Location:     strings.TrimSpace(req.Location),
		Gender:       req.Gender,
	}

	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return dto.NewUserResponse(user), nil
}

func resolveRegistrationRole(existingUsers int64, requested models.UserRole) models.UserRole {
	if existingUsers == 0 {
		return models.UserRoleAdmin
	}
	switch requested {
	case models.UserRoleAdmin, models.UserRoleRecruiter:
		return requested
	default:
		return models.UserRoleApplicant
	}
}

// Login не различает "нет пользователя" и "неверный пароль"
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.codec.TTL().Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, db *gorm.DB, actor auth.Identity) (*dto.UserResponse, error) {
	if actor.IsZero() {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(db, actor.SubjectID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewUserResponse(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
