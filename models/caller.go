package models

// Caller is the authenticated user behind a request.
type Caller struct {
	ID   uint
	Role RoleLevel
}

// OwnsOrElevated reports whether the caller owns the resource or holds at
// least the manager level.
func (c Caller) OwnsOrElevated(ownerID uint) bool {
	return c.ID == ownerID || c.Role.AtLeast(RoleManager)
}
