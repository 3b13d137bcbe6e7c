package dto

import "jobportal_backend/internal/models"

// StatsResponse - сводка для панели администратора
type StatsResponse struct {
	Users        int64                      `json:"users"`
	UsersByRole  map[models.UserRole]int64  `json:"usersByRole"`
	Jobs         int64                      `json:"jobs"`
	JobsByStatus map[models.JobStatus]int64 `json:"jobsByStatus"`
}

// MonthlyStat - число вакансий за месяц, Date в формате "Jan 2026"
type MonthlyStat struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
