package models

type UserRole string
type JobStatus string
type JobType string
type ApplicationStatus string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleRecruiter UserRole = "recruiter"
	UserRoleApplicant UserRole = "applicant"

	JobStatusPending   JobStatus = "pending"
	JobStatusInterview JobStatus = "interview"
	JobStatusDeclined  JobStatus = "declined"

	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleRecruiter, UserRoleApplicant:
		return true
	}
	return false
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusInterview, JobStatusDeclined:
		return true
	}
	return false
}

// CanTransitionTo - допустимые переходы вакансии.
// pending -> interview|declined, interview -> declined. Тот же статус - no-op.
// interview -> declined разрешен: после собеседований вакансию закрывают, и каскад
// отклоняет оставшиеся pending-отклики. Из declined выхода нет.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case JobStatusPending:
		return next == JobStatusInterview || next == JobStatusDeclined
	case JobStatusInterview:
		return next == JobStatusDeclined
	}
	return false
}

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship:
		return true
	}
	return false
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// IsDecision - статус, который может выставить рекрутер
func (s ApplicationStatus) IsDecision() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}
