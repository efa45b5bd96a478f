package domain

// Role is the closed participant role used throughout the feedback core.
// The identity layer may carry finer-grained roles (admin, support, sales);
// every non-client role collapses to RoleStaff for thread and message
// visibility purposes.
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
)

// RoleFromIdentity maps a raw identity-provider role string to the core role.
func RoleFromIdentity(raw string) Role {
	if raw == string(RoleClient) {
		return RoleClient
	}
	return RoleStaff
}

// Opposite returns the counterpart role in a thread conversation.
func (r Role) Opposite() Role {
	if r == RoleClient {
		return RoleStaff
	}
	return RoleClient
}
