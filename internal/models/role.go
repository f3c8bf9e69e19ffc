package models

// Role IDs as seeded by the initial migration. Administrator is the most
// privileged role; new accounts always start as accountants.
const (
	RoleAdministrator uint = 1
	RoleManager       uint = 2
	RoleAccountant    uint = 3
)

// Role represents an access level in the system.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// DefaultRoleName maps a role ID to its canonical name, falling back to
// accountant for anything unknown.
func DefaultRoleName(roleID uint) string {
	switch roleID {
	case RoleAdministrator:
		return "administrator"
	case RoleManager:
		return "manager"
	default:
		return "accountant"
	}
}
