package auth

import (
	"testing"

	"jobportal_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	recruiter := Identity{SubjectID: "r1", Role: models.UserRoleRecruiter}
	otherRecruiter := Identity{SubjectID: "r2", Role: models.UserRoleRecruiter}
	applicant := Identity{SubjectID: "a1", Role: models.UserRoleApplicant}
	admin := Identity{SubjectID: "adm", Role: models.UserRoleAdmin}

	cases := []struct {
		name    string
		id      Identity
		action  Action
		ownerID string
		allowed bool
	}{
		{"recruiter creates job", recruiter, ActionCreateJob, "", true},
		{"applicant cannot create job", applicant, ActionCreateJob, "", false},
		{"admin cannot create job", admin, ActionCreateJob, "", false},

		{"owner changes status", recruiter, ActionChangeJobStatus, "r1", true},
		{"other recruiter cannot change status", otherRecruiter, ActionChangeJobStatus, "r1", false},
		{"admin is not owner", admin, ActionChangeJobStatus, "r1", false},
		{"admin owning id still needs role", Identity{SubjectID: "r1", Role: models.UserRoleAdmin}, ActionUpdateJob, "r1", false},
		{"owner with empty owner id", recruiter, ActionDeleteJob, "", false},

		{"applicant applies", applicant, ActionApply, "", true},
		{"recruiter cannot apply", recruiter, ActionApply, "", false},

		{"snapshot recruiter decides", recruiter, ActionDecideApplication, "r1", true},
		{"other recruiter cannot decide", otherRecruiter, ActionDecideApplication, "r1", false},

		{"applicant reads own resume", applicant, ActionReadResume, "a1", true},
		{"recruiter reads resume it owns", recruiter, ActionReadResume, "r1", true},
		{"stranger cannot read resume", otherRecruiter, ActionReadResume, "a1", false},

		{"admin lists users", admin, ActionListUsers, "", true},
		{"recruiter cannot list users", recruiter, ActionListUsers, "", false},
		{"admin views stats", admin, ActionViewStats, "", true},

		{"self profile update", applicant, ActionUpdateProfile, "a1", true},
		{"foreign profile update", applicant, ActionUpdateProfile, "r1", false},

		{"zero identity", Identity{}, ActionCreateJob, "", false},
		{"unknown action", admin, Action("jobs:purge"), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, Allow(tc.id, tc.action, tc.ownerID))
		})
	}
}

func TestHasRole(t *testing.T) {
	recruiter := Identity{SubjectID: "r1", Role: models.UserRoleRecruiter}

	assert.True(t, HasRole(recruiter, ActionChangeJobStatus))
	assert.False(t, HasRole(recruiter, ActionApply))
	assert.True(t, HasRole(recruiter, ActionReadResume))
	assert.False(t, HasRole(Identity{}, ActionReadResume))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Secret#123")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("Secret#123", hash))
	assert.False(t, CheckPasswordHash("Secret#124", hash))

	assert.NoError(t, ValidatePassword("Secret#123"))
	assert.Error(t, ValidatePassword("short1!"))
	assert.Error(t, ValidatePassword("alllowercase1!"))
	assert.Error(t, ValidatePassword("NoSpecialChar1"))
}
