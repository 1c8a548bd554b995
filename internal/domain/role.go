package domain

// Role enumerates the management hierarchy.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleQA        Role = "qa"
	RoleDeveloper Role = "developer"
)

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleQA, RoleDeveloper:
		return true
	}
	return false
}
