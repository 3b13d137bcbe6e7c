package services

import (
	"context"
	"testing"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/testutil"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq(email, role string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:        "user_1",
		Email:           email,
		Password:        "Secret#123",
		ConfirmPassword: "Secret#123",
		Role:            role,
	}
}

func TestAuthService_RegisterRoles(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	first, err := svc.AuthService.Register(ctx, db, registerReq("first@test.com", "applicant"))
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, first.Role, "first user becomes admin")

	recruiter, err := svc.AuthService.Register(ctx, db, registerReq("rec@test.com", "recruiter"))
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleRecruiter, recruiter.Role)

	other, err := svc.AuthService.Register(ctx, db, registerReq("other@test.com", "superuser"))
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleApplicant, other.Role)

	_, err = svc.AuthService.Register(ctx, db, registerReq("admin2@test.com", "admin"))
	assertCode(t, err, apperrors.CodeForbidden)

	req := registerReq("admin3@test.com", "admin")
	req.AdminCode = "IAMADMIN"
	admin, err := svc.AuthService.Register(ctx, db, req)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, admin.Role)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	_, err := svc.AuthService.Register(ctx, db, registerReq("a@test.com", ""))
	require.NoError(t, err)

	_, err = svc.AuthService.Register(ctx, db, registerReq(" A@Test.com ", ""))
	assertCode(t, err, apperrors.CodeConflict)

	mismatch := registerReq("b@test.com", "")
	mismatch.ConfirmPassword = "Secret#124"
	_, err = svc.AuthService.Register(ctx, db, mismatch)
	assertCode(t, err, apperrors.CodeValidationFailed)

	weak := registerReq("c@test.com", "")
	weak.Password, weak.ConfirmPassword = "password", "password"
	_, err = svc.AuthService.Register(ctx, db, weak)
	assertCode(t, err, apperrors.CodeValidationFailed)
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestContainer(t)
	ctx := context.Background()

	user, err := svc.AuthService.Register(ctx, db, registerReq("login@test.com", ""))
	require.NoError(t, err)

	resp, err := svc.AuthService.Login(ctx, db, &dto.LoginRequest{Email: "LOGIN@test.com", Password: "Secret#123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.EqualValues(t, auth.DefaultTokenTTL.Seconds(), resp.ExpiresIn)

	id, err := auth.NewTokenCodec(testSecret, 0).Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.SubjectID)
	assert.Equal(t, user.Role, id.Role)

	me, err := svc.AuthService.Me(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "login@test.com", me.Email)

	_, err = svc.AuthService.Login(ctx, db, &dto.LoginRequest{Email: "login@test.com", Password: "wrong"})
	assertCode(t, err, apperrors.CodeInvalidCredentials)

	_, err = svc.AuthService.Login(ctx, db, &dto.LoginRequest{Email: "nobody@test.com", Password: "Secret#123"})
	assertCode(t, err, apperrors.CodeInvalidCredentials)
}
