package domain

// Role is the closed set of caller roles. Authorization checks switch
// exhaustively over it instead of duck-typing the caller.
type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// Actor is the verified caller of an operation: an authenticated identity
// plus its role. The API layer builds it from token claims.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// CanAccessApplication reports whether the actor may read app: the owning
// student, the assigned supervisor, or an admin.
func (a Actor) CanAccessApplication(app *Application) bool {
	switch a.Role {
	case RoleStudent:
		return app.StudentID == a.ID
	case RoleSupervisor:
		return app.SupervisorID == a.ID
	case RoleAdmin:
		return true
	}
	return false
}

// CanModifyApplication reports whether the actor may edit or delete app:
// only the owning student or an admin.
func (a Actor) CanModifyApplication(app *Application) bool {
	switch a.Role {
	case RoleStudent:
		return app.StudentID == a.ID
	case RoleSupervisor:
		return false
	case RoleAdmin:
		return true
	}
	return false
}

// CanDecideApplication reports whether the actor may change app's status:
// only the assigned supervisor or an admin.
func (a Actor) CanDecideApplication(app *Application) bool {
	switch a.Role {
	case RoleStudent:
		return false
	case RoleSupervisor:
		return app.SupervisorID == a.ID
	case RoleAdmin:
		return true
	}
	return false
}
