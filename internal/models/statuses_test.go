package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobStatusPending, JobStatusInterview, true},
		{JobStatusPending, JobStatusDeclined, true},
		{JobStatusInterview, JobStatusDeclined, true},
		{JobStatusPending, JobStatusPending, true},
		{JobStatusDeclined, JobStatusDeclined, true},
		{JobStatusInterview, JobStatusPending, false},
		{JobStatusDeclined, JobStatusPending, false},
		{JobStatusDeclined, JobStatusInterview, false},
		{JobStatusPending, JobStatus("archived"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplicationStatus_IsDecision(t *testing.T) {
	assert.True(t, ApplicationStatusAccepted.IsDecision())
	assert.True(t, ApplicationStatusRejected.IsDecision())
	assert.False(t, ApplicationStatusPending.IsDecision())
	assert.False(t, ApplicationStatus("withdrawn").IsDecision())
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, UserRoleApplicant.IsValid())
	assert.False(t, UserRole("user").IsValid())
}
