package services

import (
	"context"
	"errors"
	"fmt"
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

type JobService interface {
	CreateJob(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context, db *gorm.DB, req *dto.ListJobsRequest) (*dto.PaginatedJobs, error)
	ListMyJobs(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.Job, error)
	UpdateJob(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity, req *dto.UpdateJobRequest) (*models.Job, error)
	ChangeStatus(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity, status string) (*models.Job, error)
	DeleteJob(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity) error
}

type jobService struct {
	jobRepo     repositories.JobRepository
	coordinator LifecycleCoordinator
}

func NewJobService(jobRepo repositories.JobRepository, coordinator LifecycleCoordinator) JobService {
	return &jobService{
		jobRepo:     jobRepo,
		coordinator: coordinator,
	}
}

func (s *jobService) CreateJob(ctx context.Context, db *gorm.DB, actor auth.Identity, req *dto.CreateJobRequest) (*models.Job, error) {
	if !auth.Allow(actor, auth.ActionCreateJob, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	jobType := models.JobType(req.Type)
	if jobType == "" {
		jobType = models.JobTypeFullTime
	}

	// Статус из запроса игнорируется
	job := &models.Job{
		Company:     strings.TrimSpace(req.Company),
		Position:    strings.TrimSpace(req.Position),
		Location:    strings.TrimSpace(req.Location),
		Type:        jobType,
		Status:      models.JobStatusPending,
		CreatedBy:   actor.SubjectID,
		Vacancy:     req.Vacancy,
		Salary:      req.Salary,
		Deadline:    req.Deadline,
		Description: req.Description,
		Skills:      req.Skills,
		Facilities:  req.Facilities,
		Contact:     req.Contact,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Job created", "job_id", job.ID)
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, db *gorm.DB, req *dto.ListJobsRequest) (*dto.PaginatedJobs, error) {
	req.Normalize()

	jobs, total, err := s.jobRepo.List(db, repositories.JobCriteria{
		Search:   req.Search,
		Status:   models.JobStatus(req.Status),
		Type:     models.JobType(req.Type),
		Sort:     repositories.JobSort(req.Sort),
		Page:     req.Page,
		PageSize: req.Limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PaginatedJobs{
		Jobs:      jobs,
		Total:     total,
		Page:      req.Page,
		PageCount: dto.PageCount(total, req.Limit),
		PageLimit: req.Limit,
	}, nil
}

func (s *jobService) ListMyJobs(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]models.Job, error) {
	if !auth.Allow(actor, auth.ActionListOwnJobs, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	jobs, err := s.jobRepo.FindByOwner(db, actor.SubjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return jobs, nil
}

func (s *jobService) UpdateJob(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.loadOwned(db, jobID, actor, auth.ActionUpdateJob)
	if err != nil {
		return nil, err
	}

	// Статус проверяем до любых изменений, чтобы не сохранить половину патча
	var target models.JobStatus
	if req.Status != nil {
		target, err = parseJobStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if !job.Status.CanTransitionTo(target) {
			return nil, invalidTransition(job.Status, target)
		}
	}

	applyJobPatch(job, req)
	previous := job.Status
	if req.Status != nil {
		job.Status = target
	}
	job.UpdatedAt = time.Now()

	if err := s.jobRepo.Save(db, job); err != nil {
		return nil, handleJobError(err)
	}

	if err := s.afterStatusChange(ctx, db, job, previous); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Job updated", "job_id", job.ID)
	return job, nil
}

func (s *jobService) ChangeStatus(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity, status string) (*models.Job, error) {
	job, err := s.loadOwned(db, jobID, actor, auth.ActionChangeJobStatus)
	if err != nil {
		return nil, err
	}

	target, err := parseJobStatus(status)
	if err != nil {
		return nil, err
	}
	if job.Status == target {
		return job, nil
	}
	if !job.Status.CanTransitionTo(target) {
		return nil, invalidTransition(job.Status, target)
	}

	previous := job.Status
	if err := s.jobRepo.UpdateStatus(db, job.ID, target); err != nil {
		return nil, handleJobError(err)
	}
	job.Status = target
	job.UpdatedAt = time.Now()

	if err := s.afterStatusChange(ctx, db, job, previous); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Job status changed", "job_id", job.ID, "from", previous, "to", target)
	return job, nil
}

// DeleteJob не трогает отклики на вакансию
func (s *jobService) DeleteJob(ctx context.Context, db *gorm.DB, jobID string, actor auth.Identity) error {
	job, err := s.loadOwned(db, jobID, actor, auth.ActionDeleteJob)
	if err != nil {
		return err
	}

	if err := s.jobRepo.Delete(db, job.ID); err != nil {
		return handleJobError(err)
	}

	logger.CtxInfo(ctx, "Job deleted", "job_id", job.ID)
	return nil
}

// loadOwned: роль, затем поиск (404), затем владение (403)
func (s *jobService) loadOwned(db *gorm.DB, jobID string, actor auth.Identity, action auth.Action) (*models.Job, error) {
	if !auth.HasRole(actor, action) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}

	if !auth.Allow(actor, action, job.CreatedBy) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return job, nil
}

// afterStatusChange запускает каскад синхронно: статус вакансии к этому моменту уже сохранен
func (s *jobService) afterStatusChange(ctx context.Context, db *gorm.DB, job *models.Job, previous models.JobStatus) error {
	if job.Status != models.JobStatusDeclined || previous == models.JobStatusDeclined {
		return nil
	}

	if _, err := s.coordinator.OnJobDeclined(ctx, db, job.ID); err != nil {
		return apperrors.InternalError(fmt.Errorf("job %s declined, cascade incomplete: %w", job.ID, err))
	}
	return nil
}

func applyJobPatch(job *models.Job, req *dto.UpdateJobRequest) {
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Position != nil {
		job.Position = strings.TrimSpace(*req.Position)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Type != nil && *req.Type != "" {
		job.Type = models.JobType(*req.Type)
	}
	if req.Vacancy != nil {
		job.Vacancy = *req.Vacancy
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Deadline != nil {
		job.Deadline = *req.Deadline
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Skills != nil {
		job.Skills = *req.Skills
	}
	if req.Facilities != nil {
		job.Facilities = *req.Facilities
	}
	if req.Contact != nil {
		job.Contact = *req.Contact
	}
}

func parseJobStatus(value string) (models.JobStatus, error) {
	status := models.JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", apperrors.ErrInvalidJobStatus
	}
	return status, nil
}

func invalidTransition(from, to models.JobStatus) error {
	return apperrors.ErrInvalidStatus("job", fmt.Sprintf("cannot change job status from %s to %s", from, to))
}

func handleJobError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrNotFound(err, "job", "Job not found")
	}
	return apperrors.DatabaseError(err, "job")
}
