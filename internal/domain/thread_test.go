package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionStaff(t *testing.T) {
	cases := []struct {
		name    string
		current ThreadStatus
		next    ThreadStatus
		want    bool
	}{
		{"open to in_progress", ThreadStatusOpen, ThreadStatusInProgress, true},
		{"open to resolved", ThreadStatusOpen, ThreadStatusResolved, true},
		{"open to closed", ThreadStatusOpen, ThreadStatusClosed, true},
		{"in_progress to resolved", ThreadStatusInProgress, ThreadStatusResolved, true},
		{"in_progress back to open", ThreadStatusInProgress, ThreadStatusOpen, true},
		{"resolved to closed", ThreadStatusResolved, ThreadStatusClosed, true},
		{"resolved reopened", ThreadStatusResolved, ThreadStatusOpen, true},
		{"resolved to in_progress", ThreadStatusResolved, ThreadStatusInProgress, false},
		{"closed reopened", ThreadStatusClosed, ThreadStatusOpen, true},
		{"closed to resolved", ThreadStatusClosed, ThreadStatusResolved, false},
		{"closed to in_progress", ThreadStatusClosed, ThreadStatusInProgress, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.current, tc.next, RoleStaff))
		})
	}
}

func TestCanTransitionClientOnlyReopensClosed(t *testing.T) {
	assert.True(t, CanTransition(ThreadStatusClosed, ThreadStatusOpen, RoleClient))

	for _, current := range []ThreadStatus{ThreadStatusOpen, ThreadStatusInProgress, ThreadStatusResolved} {
		for _, next := range []ThreadStatus{ThreadStatusOpen, ThreadStatusInProgress, ThreadStatusResolved, ThreadStatusClosed} {
			assert.False(t, CanTransition(current, next, RoleClient), "client %s -> %s", current, next)
		}
	}
	assert.False(t, CanTransition(ThreadStatusClosed, ThreadStatusClosed, RoleClient))
	assert.False(t, CanTransition(ThreadStatusClosed, ThreadStatusResolved, RoleClient))
}

func TestValidateSubject(t *testing.T) {
	assert.NoError(t, ValidateSubject("Billing issue"))
	assert.NoError(t, ValidateSubject("abc"))
	assert.NoError(t, ValidateSubject(strings.Repeat("s", 255)))

	assert.Error(t, ValidateSubject(""))
	assert.Error(t, ValidateSubject("ab"))
	assert.Error(t, ValidateSubject("   a   "))
	assert.Error(t, ValidateSubject(strings.Repeat("s", 256)))
}

func TestValidateBody(t *testing.T) {
	assert.NoError(t, ValidateBody("x"))
	assert.NoError(t, ValidateBody(strings.Repeat("b", 5000)))

	assert.Error(t, ValidateBody(""))
	assert.Error(t, ValidateBody(strings.Repeat("b", 5001)))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []ThreadStatus{ThreadStatusOpen, ThreadStatusInProgress, ThreadStatusResolved, ThreadStatusClosed} {
		assert.True(t, s.Valid())
	}
	assert.False(t, ThreadStatus("archived").Valid())
	assert.False(t, ThreadStatus("").Valid())
}

func TestRoleFromIdentity(t *testing.T) {
	assert.Equal(t, RoleClient, RoleFromIdentity("client"))
	assert.Equal(t, RoleStaff, RoleFromIdentity("admin"))
	assert.Equal(t, RoleStaff, RoleFromIdentity("manager"))
	assert.Equal(t, RoleStaff, RoleFromIdentity("employee"))

	assert.Equal(t, RoleStaff, RoleClient.Opposite())
	assert.Equal(t, RoleClient, RoleStaff.Opposite())
}
