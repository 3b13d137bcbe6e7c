package models

import "gorm.io/datatypes"

type Job struct {
	BaseModel
	Company     string                      `gorm:"type:varchar(100);not null;index" json:"company"`
	Position    string                      `gorm:"type:varchar(100);not null" json:"position"`
	Status      JobStatus                   `gorm:"type:varchar(20);not null;default:'pending';index" json:"jobStatus"`
	Type        JobType                     `gorm:"type:varchar(20);not null;default:'full-time'" json:"jobType"`
	Location    string                      `gorm:"type:varchar(255);not null" json:"jobLocation"`
	CreatedBy   string                      `gorm:"type:varchar(36);not null;index" json:"createdBy"`
	Vacancy     string                      `json:"jobVacancy"`
	Salary      string                      `json:"jobSalary"`
	Deadline    string                      `json:"jobDeadline"`
	Description string                      `gorm:"type:text" json:"jobDescription"`
	Skills      datatypes.JSONSlice[string] `json:"jobSkills"`
	Facilities  datatypes.JSONSlice[string] `json:"jobFacilities"`
	Contact     string                      `json:"jobContact"`
}
