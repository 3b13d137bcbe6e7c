package models

import "time"

// Application - отклик соискателя на вакансию.
// RecruiterID копируется из Job.CreatedBy при создании и дальше не пересчитывается.
type Application struct {
	BaseModel
	ApplicantID       string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_applicant_job,priority:1" json:"applicantId"`
	JobID             string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_applicant_job,priority:2;index" json:"jobId"`
	RecruiterID       string            `gorm:"type:varchar(36);not null;index" json:"recruiterId"`
	Status            ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Resume            string            `json:"resume,omitempty"`
	DateOfApplication time.Time         `gorm:"not null" json:"dateOfApplication"`
	DateOfJoining     *time.Time        `json:"dateOfJoining,omitempty"`
}

// ApplicationWithJob - отклик вместе с краткой информацией о вакансии
type ApplicationWithJob struct {
	Application
	Position string `json:"position"`
	Company  string `json:"company"`
	Location string `json:"jobLocation"`
}
