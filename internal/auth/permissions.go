package auth

import "jobportal_backend/internal/models"

// Action - действие, которое проверяет политика
type Action string

const (
	ActionCreateJob       Action = "jobs:create"
	ActionUpdateJob       Action = "jobs:update"
	ActionDeleteJob       Action = "jobs:delete"
	ActionChangeJobStatus Action = "jobs:status"
	ActionListOwnJobs     Action = "jobs:read:self"

	ActionApply                    Action = "applications:create"
	ActionListOwnApplications      Action = "applications:read:self"
	ActionListReceivedApplications Action = "applications:read:received"
	ActionDecideApplication        Action = "applications:status"
	ActionReadResume               Action = "applications:resume"

	ActionListUsers      Action = "users:read"
	ActionDeleteUser     Action = "users:delete"
	ActionUpdateUserRole Action = "users:role"
	ActionUpdateProfile  Action = "users:write:self"
	ActionViewStats      Action = "system:stats"
)

// Rule - требования действия. Пустая Role - любая роль.
// Все требования объединяются через AND.
type Rule struct {
	Role              models.UserRole
	RequiresOwnership bool
}

// Rules - таблица политики
var Rules = map[Action]Rule{
	ActionCreateJob:       {Role: models.UserRoleRecruiter},
	ActionUpdateJob:       {Role: models.UserRoleRecruiter, RequiresOwnership: true},
	ActionDeleteJob:       {Role: models.UserRoleRecruiter, RequiresOwnership: true},
	ActionChangeJobStatus: {Role: models.UserRoleRecruiter, RequiresOwnership: true},
	ActionListOwnJobs:     {Role: models.UserRoleRecruiter},

	ActionApply:                    {Role: models.UserRoleApplicant},
	ActionListOwnApplications:      {Role: models.UserRoleApplicant},
	ActionListReceivedApplications: {Role: models.UserRoleRecruiter},
	ActionDecideApplication:        {Role: models.UserRoleRecruiter, RequiresOwnership: true},
	ActionReadResume:               {RequiresOwnership: true},

	ActionListUsers:      {Role: models.UserRoleAdmin},
	ActionDeleteUser:     {Role: models.UserRoleAdmin},
	ActionUpdateUserRole: {Role: models.UserRoleAdmin},
	ActionUpdateProfile:  {RequiresOwnership: true},
	ActionViewStats:      {Role: models.UserRoleAdmin},
}

// Allow - чистая функция решения. Порядок: личность, роль, владение.
// Админ не является владельцем чужих ресурсов.
func Allow(id Identity, action Action, ownerID string) bool {
	if id.IsZero() {
		return false
	}

	rule, ok := Rules[action]
	if !ok {
		return false
	}

	if rule.Role != "" && id.Role != rule.Role {
		return false
	}

	if rule.RequiresOwnership && (ownerID == "" || id.SubjectID != ownerID) {
		return false
	}

	return true
}

// HasRole - грубая проверка роли для действия без владельца (роль проверяется до поиска ресурса)
func HasRole(id Identity, action Action) bool {
	if id.IsZero() {
		return false
	}
	rule, ok := Rules[action]
	if !ok {
		return false
	}
	return rule.Role == "" || id.Role == rule.Role
}
