package entity

import (
	"errors"
	"testing"

	"anoa.com/jobboard/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"user", "admin", " recruiter "} {
		_, err := ParseRole(raw)
		require.NoError(t, err, raw)
	}

	for _, raw := range []string{"", "manager", "ADMIN", "recruiters"} {
		_, err := ParseRole(raw)
		assert.True(t, errors.Is(err, apperror.ErrInvalidEnumValue), raw)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus("rejected")
	assert.True(t, errors.Is(err, apperror.ErrInvalidEnumValue))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusApproved.CanTransitionTo(StatusApproved))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestLifecycleTable(t *testing.T) {
	assert.Equal(t, "users", LifecycleUser.Table())
	assert.Equal(t, "jobs", LifecycleJob.Table())
	assert.Equal(t, "applications", LifecycleApplication.Table())
	assert.Panics(t, func() { Lifecycle("invoice").Table() })
}
