package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки предметной области:
вакансии, отклики, пользователи, файлы.
*/

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - "не найдено" (404) для конкретного домена
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - конфликт состояния (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - недопустимый статус или переход (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrInvalidOperation - операция не имеет смысла в текущем контексте (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Auth ---

var ErrUnauthenticated = NewUnauthorizedError("Authentication required")

// ErrInsufficientPermissions - роль или владение не прошли проверку политики
var ErrInsufficientPermissions = NewForbiddenError("Insufficient permissions")

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeConflict,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

var ErrInvalidAdminCode = New(
	CodeForbidden,
	"auth",
	"Invalid admin code",
	http.StatusForbidden,
)

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"auth",
	"Password and confirm password do not match",
	http.StatusBadRequest,
)

var ErrTooManyRequests = New(
	CodeRateLimited,
	"rate_limit",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

// --- Users ---

var ErrCannotModifySelf = New(
	CodeForbidden,
	"user",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Jobs ---

var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Job status must be one of: pending, interview, declined",
	http.StatusBadRequest,
)

// --- Applications ---

var ErrAlreadyApplied = New(
	CodeConflict,
	"application",
	"You have already applied for this job",
	http.StatusConflict,
)

var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Application status must be one of: accepted, rejected",
	http.StatusBadRequest,
)

// --- Files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"Invalid file type. Only PDF, DOC, DOCX are allowed",
	http.StatusBadRequest,
)

var ErrResumeNotFound = New(
	CodeNotFound,
	"application",
	"Resume not found",
	http.StatusNotFound,
)
