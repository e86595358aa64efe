package models

import (
	"strings"

	"github.com/google/uuid"
)

// RoleLevel is an ordered permission level. Higher levels include the
// privileges of the lower ones.
type RoleLevel int

const (
	RoleRequester   RoleLevel = 1
	RoleManager     RoleLevel = 2
	RoleTravelAdmin RoleLevel = 3
	RoleSuperAdmin  RoleLevel = 4
)

var roleNames = map[RoleLevel]string{
	RoleRequester:   "requester",
	RoleManager:     "manager",
	RoleTravelAdmin: "travel_admin",
	RoleSuperAdmin:  "super_admin",
}

// AtLeast reports whether l grants at least the privileges of min.
func (l RoleLevel) AtLeast(min RoleLevel) bool {
	return l >= min
}

// IsElevated is true for managers and above.
func (l RoleLevel) IsElevated() bool {
	return l.AtLeast(RoleManager)
}

func (l RoleLevel) Valid() bool {
	_, ok := roleNames[l]
	return ok
}

func (l RoleLevel) String() string {
	if name, ok := roleNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseRoleLevel maps a role name to its level.
func ParseRoleLevel(name string) (RoleLevel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for level, n := range roleNames {
		if n == name {
			return level, true
		}
	}
	return 0, false
}

// AllRoleLevels lists the levels in ascending order.
func AllRoleLevels() []RoleLevel {
	return []RoleLevel{RoleRequester, RoleManager, RoleTravelAdmin, RoleSuperAdmin}
}

type Role struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"uniqueIndex;not null" json:"name"`
	Value RoleLevel `gorm:"not null" json:"role_value"`
}
