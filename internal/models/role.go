package models

// Role is used both as the global user role and as the role inside a company.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker:
		return true
	}
	return false
}

// DefaultPermissions returns the capability set granted to a role when none is given.
func (r Role) DefaultPermissions() Permissions {
	switch r {
	case RoleAdmin:
		return Permissions(AllPermissions)
	case RoleManager:
		return Permissions(AllPermissions).Without(PermUsers)
	case RoleWorker:
		return NewPermissions(PermFields, PermTasks, PermWeather)
	}
	return 0
}
