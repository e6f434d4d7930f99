package models

// Role gates write operations in the dashboard.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) CanWrite() bool {
	return r == RoleAdmin
}

// Permissions is the human readable access level shown on the profile page.
func (r Role) Permissions() string {
	if r == RoleAdmin {
		return "Full access to all features"
	}
	return "Read-only access to view data"
}

// User is a row of the users sheet. Password holds either a bcrypt hash or,
// for rows written by the legacy browser app, the clear-text password.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Session is the logged-in user persisted in the session store.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
