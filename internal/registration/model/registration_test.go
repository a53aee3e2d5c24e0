package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistration_IsApproved(t *testing.T) {
	assert.True(t, (&Registration{Status: StatusApproved}).IsApproved())
	assert.False(t, (&Registration{Status: StatusPending}).IsApproved())
	assert.False(t, (&Registration{Status: StatusRejected}).IsApproved())
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("waitlisted"))
	assert.False(t, IsValidStatus(""))
}
