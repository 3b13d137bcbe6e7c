package dto

import (
	"mime/multipart"

	"jobportal_backend/internal/models"
)

const (
	DefaultApplicationsPage     = 1
	DefaultApplicationsPageSize = 10
	MaxApplicationsPageSize     = 100
)

// ApplyRequest - multipart-форма отклика: jobId и необязательное резюме
type ApplyRequest struct {
	JobID  string                `form:"jobId" validate:"required"`
	Resume *multipart.FileHeader `form:"-" json:"-"`
}

// UpdateApplicationStatusRequest - решение рекрутера
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListApplicationsRequest - пагинация откликов рекрутера, страницы с 1
type ListApplicationsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize: неположительные значения заменяются значениями по умолчанию, лимит ограничен сверху
func (r *ListApplicationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultApplicationsPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultApplicationsPageSize
	}
	if r.Limit > MaxApplicationsPageSize {
		r.Limit = MaxApplicationsPageSize
	}
}

type PaginatedApplications struct {
	Applications []models.Application `json:"result"`
	Total        int64                `json:"totalApplications"`
	Page         int                  `json:"currentPage"`
	PageCount    int                  `json:"pageCount"`
	PageLimit    int                  `json:"pageLimit"`
}
