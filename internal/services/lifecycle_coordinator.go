package services

import (
	"context"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"

	"gorm.io/gorm"
)

// LifecycleCoordinator - побочные эффекты смены статуса вакансии на отклики
type LifecycleCoordinator interface {
	// OnJobDeclined переводит все pending-отклики вакансии в rejected и возвращает их число.
	// Отклики с принятым решением не трогаются.
	OnJobDeclined(ctx context.Context, db *gorm.DB, jobID string) (int, error)
}

type lifecycleCoordinator struct {
	applicationRepo repositories.ApplicationRepository
}

func NewLifecycleCoordinator(applicationRepo repositories.ApplicationRepository) LifecycleCoordinator {
	return &lifecycleCoordinator{applicationRepo: applicationRepo}
}

// Транзакции нет: при ошибке в середине уже отклоненные отклики остаются отклоненными.
// Условие status = 'pending' в UPDATE защищает от решения, принятого между чтением и записью.
func (c *lifecycleCoordinator) OnJobDeclined(ctx context.Context, db *gorm.DB, jobID string) (int, error) {
	pending, err := c.applicationRepo.FindByJobAndStatus(db, jobID, models.ApplicationStatusPending)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load pending applications", err, "job_id", jobID)
		return 0, err
	}

	rejected := 0
	for _, app := range pending {
		n, err := c.applicationRepo.UpdateStatusIf(db, app.ID,
			models.ApplicationStatusPending, models.ApplicationStatusRejected, nil)
		if err != nil {
			logger.CtxWithError(ctx, "Cascade rejection stopped", err,
				"job_id", jobID, "application_id", app.ID, "rejected", rejected, "pending", len(pending))
			return rejected, err
		}
		rejected += int(n)
	}

	logger.CtxInfo(ctx, "Pending applications rejected", "job_id", jobID, "rejected", rejected)
	return rejected, nil
}
