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

type UserService interface {
	GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, db *gorm.DB, actor auth.Identity, userID string) error
	// UpdateRole вступает в силу при следующем входе: роль зашита в уже выданный токен
	UpdateRole(ctx context.Context, db *gorm.DB, actor auth.Identity, userID, role string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo      repositories.UserRepository
	uploadService UploadService
}

func NewUserService(userRepo repositories.UserRepository, uploadService UploadService) UserService {
	return &userService{
		userRepo:      userRepo,
		uploadService: uploadService,
	}
}

func (s *userService) GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]*dto.UserResponse, error) {
	if !auth.Allow(actor, auth.ActionListUsers, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	users, err := s.userRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) UpdateProfile(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if !auth.Allow(actor, auth.ActionUpdateProfile, actor.SubjectID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByID(db, actor.SubjectID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	// Старое резюме не удаляется: на него могут ссылаться отклики
	if req.Resume != nil {
		stored, err := s.uploadService.SaveResume(ctx, req.Resume)
		if err != nil {
			return nil, err
		}
		user.Resume = stored.Key
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if req.Resume != nil {
			_ = s.uploadService.DeleteFile(ctx, user.Resume)
		}
		return nil, handleUserError(err)
	}

	logger.CtxInfo(ctx, "Profile updated", "user_id", user.ID)
	return dto.NewUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, db *gorm.DB, actor auth.Identity, userID string) error {
	if !auth.Allow(actor, auth.ActionDeleteUser, "") {
		return apperrors.ErrInsufficientPermissions
	}
	if actor.SubjectID == userID {
		return apperrors.ErrCannotModifySelf
	}

	if err := s.userRepo.Delete(db, userID); err != nil {
		return handleUserError(err)
	}

	logger.CtxInfo(ctx, "User deleted", "user_id", userID)
	return nil
}

func (s *userService) UpdateRole(ctx context.Context, db *gorm.DB, actor auth.Identity, userID, role string) (*dto.UserResponse, error) {
	if !auth.Allow(actor, auth.ActionUpdateUserRole, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if actor.SubjectID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}

	newRole := models.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if !newRole.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be one of: admin, recruiter, applicant"})
	}

	if err := s.userRepo.UpdateRole(db, userID, newRole); err != nil {
		return nil, handleUserError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	logger.CtxInfo(ctx, "User role changed", "user_id", userID, "role", newRole)
	return dto.NewUserResponse(user), nil
}

func handleUserError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrNotFound(err, "user", "User not found")
	}
	return apperrors.DatabaseError(err, "user")
}
