package domain

// Role is the closed set of authorization levels a principal can carry.
// Values are wire-stable: they appear inside issued tokens and must never be
// renumbered.
type Role int

const (
	RoleRoot Role = iota
	RoleManager
	RoleAdmin
	RoleDeveloper
	RoleBilling
	// RoleAnonym marks a resource method as public. It is never carried by a
	// real principal; its presence in a policy role set admits requests
	// without a token.
	RoleAnonym
)

var roleNames = map[Role]string{
	RoleRoot:      "root",
	RoleManager:   "manager",
	RoleAdmin:     "admin",
	RoleDeveloper: "developer",
	RoleBilling:   "billing",
	RoleAnonym:    "anonym",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}
