package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.ApplyRequest) (*models.Application, error)
	ListMine(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.Application, error)
	ListMineWithJobs(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.ApplicationWithJob, error)
	ListForRecruiter(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.ListApplicationsRequest) (*dto.PaginatedApplications, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, appID string, actor auth.Identity, status string) (*models.Application, error)
	IsApplicantOrRecruiter(ctx context.Context, db *gorm.DB, appID, subjectID string) (bool, error)
	// OpenResume возвращает поток резюме и имя файла. Вызывающий закрывает поток.
	OpenResume(ctx context.Context, db *gorm.DB, appID string, actor auth.Identity) (io.ReadCloser, string, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	uploadService   UploadService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	uploadService UploadService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		uploadService:   uploadService,
	}
}

func (s *applicationService) Apply(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.ApplyRequest) (*models.Application, error) {
	if !auth.Allow(actor, auth.ActionApply, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	job, err := s.jobRepo.FindByID(db, req.JobID)
	if err != nil {
		return nil, handleJobError(err)
	}

	_, err = s.applicationRepo.FindByApplicantAndJob(db, actor.SubjectID, job.ID)
	if err == nil {
		return nil, apperrors.ErrAlreadyApplied
	}
	if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	resume, uploaded, err := s.resolveResume(ctx, db, actor, req)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ApplicantID:       actor.SubjectID,
		JobID:             job.ID,
		RecruiterID:       job.CreatedBy,
		Status:            models.ApplicationStatusPending,
		Resume:            resume,
		DateOfApplication: time.Now(),
	}

	// Между проверкой и вставкой мог пройти параллельный отклик: его ловит уникальный индекс
	if err := s.applicationRepo.Create(db, app); err != nil {
		if uploaded {
			s.discardFile(ctx, resume)
		}
		if errors.Is(err, repositories.ErrApplicationExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Application created", "application_id", app.ID, "job_id", job.ID)
	return app, nil
}

// resolveResume: загруженный файл или резюме из профиля соискателя
func (s *applicationService) resolveResume(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.ApplyRequest) (string, bool, error) {
	if req.Resume != nil {
		stored, err := s.uploadService.SaveResume(ctx, req.Resume)
		if err != nil {
			return "", false, err
		}
		return stored.Key, true, nil
	}

	user, err := s.userRepo.FindByID(db, actor.SubjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", false, nil
		}
		return "", false, apperrors.InternalError(err)
	}
	return user.Resume, false, nil
}

func (s *applicationService) discardFile(ctx context.Context, key string) {
	if err := s.uploadService.DeleteFile(ctx, key); err != nil {
		logger.CtxWithError(ctx, "Failed to remove orphaned resume", err, "key", key)
	}
}

func (s *applicationService) ListMine(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.Application, error) {
	if !auth.Allow(actor, auth.ActionListOwnApplications, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	apps, err := s.applicationRepo.FindByApplicant(db, actor.SubjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

func (s *applicationService) ListMineWithJobs(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.ApplicationWithJob, error) {
	if !auth.Allow(actor, auth.ActionListOwnApplications, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	rows, err := s.applicationRepo.FindByApplicantWithJobs(db, actor.SubjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return rows, nil
}

func (s *applicationService) ListForRecruiter(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.ListApplicationsRequest) (*dto.PaginatedApplications, error) {
	if !auth.Allow(actor, auth.ActionListReceivedApplications, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	req.Normalize()
	apps, total, err := s.applicationRepo.FindByRecruiter(db, actor.SubjectID, req.Page, req.Limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PaginatedApplications{
		Applications: apps,
		Total:        total,
		Page:         req.Page,
		PageCount:    dto.PageCount(total, req.Limit),
		PageLimit:    req.Limit,
	}, nil
}

// UpdateStatus проверяет владение по recruiter_id самого отклика, а не по текущей вакансии
func (s *applicationService) UpdateStatus(ctx context.Context, db *gorm.DB, appID string, actor auth.Identity, status string) (*models.Application, error) {
	if !auth.HasRole(actor, auth.ActionDecideApplication) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	app, err := s.applicationRepo.FindByID(db, appID)
	if err != nil {
		return nil, handleApplicationError(err)
	}

	if !auth.Allow(actor, auth.ActionDecideApplication, app.RecruiterID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	target := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !target.IsDecision() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}
	if app.Status == target {
		return app, nil
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, decidedAlready(app.Status)
	}

	var joinedAt *time.Time
	if target == models.ApplicationStatusAccepted {
		now := time.Now()
		joinedAt = &now
	}

	n, err := s.applicationRepo.UpdateStatusIf(db, app.ID, models.ApplicationStatusPending, target, joinedAt)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.applicationRepo.FindByID(db, app.ID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	// решение успели принять параллельно (например, каскад отклонения вакансии)
	if n == 0 && updated.Status != target {
		return nil, decidedAlready(updated.Status)
	}

	logger.CtxInfo(ctx, "Application status changed", "application_id", app.ID, "status", target)
	return updated, nil
}

func (s *applicationService) IsApplicantOrRecruiter(ctx context.Context, db *gorm.DB, appID, subjectID string) (bool, error) {
	_, ok, err := s.findParticipant(db, appID, subjectID)
	return ok, err
}

// findParticipant загружает отклик и проверяет, что subject - его соискатель или рекрутер
func (s *applicationService) findParticipant(db *gorm.DB, appID, subjectID string) (*models.Application, bool, error) {
	app, err := s.applicationRepo.FindByID(db, appID)
	if err != nil {
		return nil, false, handleApplicationError(err)
	}
	ok := subjectID != "" && (app.ApplicantID == subjectID || app.RecruiterID == subjectID)
	return app, ok, nil
}

// OpenResume доступен только участникам отклика, админ участником не считается
func (s *applicationService) OpenResume(ctx context.Context, db *gorm.DB, appID string, actor auth.Identity) (io.ReadCloser, string, error) {
	if !auth.HasRole(actor, auth.ActionReadResume) {
		return nil, "", apperrors.ErrInsufficientPermissions
	}

	app, ok, err := s.findParticipant(db, appID, actor.SubjectID)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", apperrors.ErrInsufficientPermissions
	}

	if app.Resume == "" {
		return nil, "", apperrors.ErrResumeNotFound
	}

	rc, err := s.uploadService.OpenFile(ctx, app.Resume)
	if err != nil {
		return nil, "", err
	}
	return rc, path.Base(app.Resume), nil
}

func decidedAlready(current models.ApplicationStatus) error {
	return apperrors.ErrInvalidStatus("application", fmt.Sprintf("application is already %s", current))
}

func handleApplicationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.ErrNotFound(err, "application", "Application not found")
	}
	return apperrors.DatabaseError(err, "application")
}
