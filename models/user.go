package models

// UserRole enum. Fixed at creation, never changes.
type UserRole string

const (
	RoleCitizen   UserRole = "CITIZEN"
	RoleAuthority UserRole = "AUTHORITY"
	RoleWorker    UserRole = "WORKER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	return r == RoleCitizen || r == RoleAuthority || r == RoleWorker
}

// User is a platform participant. Points are mutated only by the reward
// logic, which lives outside this service.
type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	Points int      `json:"points"`
	Avatar string   `json:"avatar"`
}
