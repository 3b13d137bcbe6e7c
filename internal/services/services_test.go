package services

import (
	"testing"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "services-test-secret-0123456789ab"

func newTestContainer(t *testing.T) *ServiceContainer {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()

	uploadService := NewUploadService(store, nil)
	coordinator := NewLifecycleCoordinator(applicationRepo)

	return &ServiceContainer{
		AuthService:          NewAuthService(userRepo, auth.NewTokenCodec(testSecret, 0), "IAMADMIN"),
		UserService:          NewUserService(userRepo, uploadService),
		JobService:           NewJobService(jobRepo, coordinator),
		ApplicationService:   NewApplicationService(applicationRepo, jobRepo, userRepo, uploadService),
		AdminService:         NewAdminService(userRepo, jobRepo),
		UploadService:        uploadService,
		LifecycleCoordinator: coordinator,
	}
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{SubjectID: u.ID, Role: u.Role}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Error())
}
