package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleStudent    UserRole = "STUDENT"
)

// User is an entry of the university user directory, keyed by EKOID.
type User struct {
	EKOID      string   `json:"ekoid"`
	FullName   string   `json:"full_name"`
	Role       UserRole `json:"role"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
}

// Actor is the identity performing an operation. It is passed explicitly into
// every mutating call instead of living in shared state.
type Actor struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
}

// IsInstructor reports whether the actor may edit syllabi.
func (a *Actor) IsInstructor() bool {
	return a != nil && a.Role == RoleInstructor
}

// ActorFromUser builds an Actor for a directory entry.
func ActorFromUser(u *User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{ID: u.EKOID, DisplayName: u.FullName, Role: u.Role}
}
