package services

import (
	"context"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const monthlyStatsWindow = 6

type AdminService interface {
	Stats(ctx context.Context, db *gorm.DB, actor auth.Identity) (*dto.StatsResponse, error)
	// MonthlyStats - вакансии по месяцам за последние полгода, от старых к новым
	MonthlyStats(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]dto.MonthlyStat, error)
}

type adminService struct {
	userRepo repositories.UserRepository
	jobRepo  repositories.JobRepository
	now      func() time.Time
}

func NewAdminService(userRepo repositories.UserRepository, jobRepo repositories.JobRepository) AdminService {
	return &adminService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		now:      time.Now,
	}
}

func (s *adminService) Stats(ctx context.Context, db *gorm.DB, actor auth.Identity) (*dto.StatsResponse, error) {
	if !auth.Allow(actor, auth.ActionViewStats, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	byRole, err := s.userRepo.CountByRole(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byStatus, err := s.jobRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.StatsResponse{
		UsersByRole:  map[models.UserRole]int64{},
		JobsByStatus: map[models.JobStatus]int64{},
	}
	for _, role := range []models.UserRole{models.UserRoleAdmin, models.UserRoleRecruiter, models.UserRoleApplicant} {
		resp.UsersByRole[role] = byRole[role]
		resp.Users += byRole[role]
	}
	for _, status := range []models.JobStatus{models.JobStatusPending, models.JobStatusInterview, models.JobStatusDeclined} {
		resp.JobsByStatus[status] = byStatus[status]
		resp.Jobs += byStatus[status]
	}
	return resp, nil
}

func (s *adminService) MonthlyStats(ctx context.Context, db *gorm.DB, actor auth.Identity) ([]dto.MonthlyStat, error) {
	if !auth.Allow(actor, auth.ActionViewStats, "") {
		return nil, apperrors.ErrInsufficientPermissions
	}

	now := s.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	since := currentMonth.AddDate(0, -(monthlyStatsWindow - 1), 0)

	dates, err := s.jobRepo.FindCreatedSince(db, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return groupByMonth(dates, since, monthlyStatsWindow), nil
}

// groupByMonth раскладывает даты по месяцам начиная с since; пустые месяцы дают 0
func groupByMonth(dates []time.Time, since time.Time, months int) []dto.MonthlyStat {
	counts := make(map[string]int64, months)
	for _, d := range dates {
		d = d.In(since.Location())
		counts[d.Format("2006-01")]++
	}

	stats := make([]dto.MonthlyStat, 0, months)
	for i := 0; i < months; i++ {
		month := since.AddDate(0, i, 0)
		stats = append(stats, dto.MonthlyStat{
			Date:  month.Format("Jan 2006"),
			Count: counts[month.Format("2006-01")],
		})
	}
	return stats
}
