package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByApplicantAndJob(db *gorm.DB, applicantID, jobID string) (*models.Application, error)

	FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error)
	FindByApplicantWithJobs(db *gorm.DB, applicantID string) ([]models.ApplicationWithJob, error)
	FindByRecruiter(db *gorm.DB, recruiterID string, page, pageSize int) ([]models.Application, int64, error)
	FindByJobAndStatus(db *gorm.DB, jobID string, status models.ApplicationStatus) ([]models.Application, error)

	// UpdateStatusIf меняет статус только если текущий равен from. Возвращает число измененных строк.
	UpdateStatusIf(db *gorm.DB, id string, from, to models.ApplicationStatus, joinedAt *time.Time) (int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

// Create опирается на уникальный индекс (applicant_id, job_id): при гонке двух откликов
// второй получит ErrApplicationExists
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	err := db.Create(app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrApplicationExists
	}
	return err
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByApplicantAndJob(db *gorm.DB, applicantID, jobID string) (*models.Application, error) {
	var app models.Application
	err := db.First(&app, "applicant_id = ? AND job_id = ?", applicantID, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("applicant_id = ?", applicantID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

// FindByApplicantWithJobs - отклики соискателя с должностью, компанией и локацией вакансии.
// Отклики на удаленные вакансии в выдачу не попадают.
func (r *ApplicationRepositoryImpl) FindByApplicantWithJobs(db *gorm.DB, applicantID string) ([]models.ApplicationWithJob, error) {
	var rows []models.ApplicationWithJob
	err := db.Model(&models.Application{}).
		Select("applications.*, jobs.position AS position, jobs.company AS company, jobs.location AS location").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("applications.applicant_id = ?", applicantID).
		Order("applications.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) FindByRecruiter(db *gorm.DB, recruiterID string, page, pageSize int) ([]models.Application, int64, error) {
	query := db.Model(&models.Application{}).Where("recruiter_id = ?", recruiterID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) FindByJobAndStatus(db *gorm.DB, jobID string, status models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("job_id = ? AND status = ?", jobID, status).Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusIf(db *gorm.DB, id string, from, to models.ApplicationStatus, joinedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if joinedAt != nil {
		updates["date_of_joining"] = *joinedAt
	}

	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}
