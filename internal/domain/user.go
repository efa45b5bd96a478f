package domain

import "time"

// User is the directory record for any principal known to the service,
// client or staff. The feedback core never authenticates users; it only
// resolves them for display names, email delivery and staff fan-out.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
