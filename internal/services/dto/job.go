package dto

import (
	"math"
	"strings"

	"jobportal_backend/internal/models"
)

// CreateJobRequest - статус в запросе игнорируется: новая вакансия всегда pending
type CreateJobRequest struct {
	Company     string   `json:"company" validate:"required,min=2,max=100"`
	Position    string   `json:"position" validate:"required,min=2,max=100"`
	Location    string   `json:"jobLocation" validate:"required,max=255"`
	Type        string   `json:"jobType" validate:"omitempty,is-job-type"`
	Status      string   `json:"jobStatus"`
	Vacancy     string   `json:"jobVacancy"`
	Salary      string   `json:"jobSalary"`
	Deadline    string   `json:"jobDeadline"`
	Description string   `json:"jobDescription"`
	Skills      []string `json:"jobSkills" validate:"omitempty,max=50,dive,max=50"`
	Facilities  []string `json:"jobFacilities" validate:"omitempty,max=50,dive,max=100"`
	Contact     string   `json:"jobContact" validate:"omitempty,max=255"`
}

// UpdateJobRequest - частичное обновление; nil значит "не менять"
type UpdateJobRequest struct {
	Company     *string   `json:"company" validate:"omitempty,min=2,max=100"`
	Position    *string   `json:"position" validate:"omitempty,min=2,max=100"`
	Location    *string   `json:"jobLocation" validate:"omitempty,max=255"`
	Type        *string   `json:"jobType" validate:"omitempty,is-job-type"`
	Status      *string   `json:"jobStatus"`
	Vacancy     *string   `json:"jobVacancy"`
	Salary      *string   `json:"jobSalary"`
	Deadline    *string   `json:"jobDeadline"`
	Description *string   `json:"jobDescription"`
	Skills      *[]string `json:"jobSkills"`
	Facilities  *[]string `json:"jobFacilities"`
	Contact     *string   `json:"jobContact" validate:"omitempty,max=255"`
}

// ChangeJobStatusRequest - тело PATCH /jobs/:id/status.
// Значение проверяется сервисом, чтобы вернуть INVALID_STATUS, а не VALIDATION_FAILED.
type ChangeJobStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListJobsRequest - query-параметры публичного списка
type ListJobsRequest struct {
	Search string `form:"search"`
	Status string `form:"status" validate:"omitempty,is-job-status"`
	Type   string `form:"type" validate:"omitempty,is-job-type"`
	Sort   string `form:"sort" validate:"omitempty,oneof=newest oldest a-z z-a"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Normalize подставляет значения по умолчанию (страница 1, по 5 вакансий)
func (r *ListJobsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 5
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	r.Status = strings.ToLower(r.Status)
	if r.Sort == "" {
		r.Sort = "newest"
	}
}

// PaginatedJobs - страница вакансий
type PaginatedJobs struct {
	Jobs      []models.Job `json:"result"`
	Total     int64        `json:"totalJobs"`
	Page      int          `json:"currentPage"`
	PageCount int          `json:"pageCount"`
	PageLimit int          `json:"pageLimit"`
}

// PageCount - число страниц для total элементов (0 для пустого списка)
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
