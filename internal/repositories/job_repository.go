package repositories

import (
	"errors"
	"strings"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobSort - порядок выдачи в списке вакансий
type JobSort string

const (
	JobSortNewest JobSort = "newest"
	JobSortOldest JobSort = "oldest"
	JobSortAZ     JobSort = "a-z"
	JobSortZA     JobSort = "z-a"
)

// JobCriteria - фильтры публичного списка вакансий
type JobCriteria struct {
	Search   string // по должности, компании и локации
	Status   models.JobStatus
	Type     models.JobType
	Sort     JobSort
	Page     int
	PageSize int
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Save(db *gorm.DB, job *models.Job) error
	UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error
	Delete(db *gorm.DB, jobID string) error

	FindByOwner(db *gorm.DB, ownerID string) ([]models.Job, error)
	List(db *gorm.DB, criteria JobCriteria) ([]models.Job, int64, error)

	CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error)
	FindCreatedSince(db *gorm.DB, since time.Time) ([]time.Time, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Save перезаписывает все поля вакансии, кроме владельца и даты создания
func (r *JobRepositoryImpl) Save(db *gorm.DB, job *models.Job) error {
	result := db.Model(job).Select("*").Omit("id", "created_by", "created_at").Updates(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error {
	result := db.Model(&models.Job{}).Where("id = ?", jobID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, jobID string) error {
	result := db.Delete(&models.Job{}, "id = ?", jobID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindByOwner(db *gorm.DB, ownerID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("created_by = ?", ownerID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) List(db *gorm.DB, criteria JobCriteria) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if search := strings.TrimSpace(criteria.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(position) LIKE ? OR LOWER(company) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch criteria.Sort {
	case JobSortOldest:
		query = query.Order("created_at ASC")
	case JobSortAZ:
		query = query.Order("company ASC")
	case JobSortZA:
		query = query.Order("company DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var jobs []models.Job
	err := query.
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := db.Model(&models.Job{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *JobRepositoryImpl) FindCreatedSince(db *gorm.DB, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := db.Model(&models.Job{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &dates).Error
	return dates, err
}
