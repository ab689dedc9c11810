package domain

// Role is the closed set of account roles. The numeric ids match the rows
// seeded into the roles table and never change.
type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

var roleNames = map[Role]string{
	RoleAdmin: "ROLE_ADMIN",
	RoleUser:  "ROLE_USER",
}

// Roles returns every known role in id order.
func Roles() []Role { return []Role{RoleAdmin, RoleUser} }

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "ROLE_UNKNOWN"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a reference id onto a Role.
func ParseRole(id int) (Role, bool) {
	r := Role(id)
	return r, r.Valid()
}

// ParseRoleName accepts the canonical name ("ROLE_ADMIN") or its short form ("ADMIN").
func ParseRoleName(name string) (Role, bool) {
	for r, n := range roleNames {
		if n == name || n == "ROLE_"+name {
			return r, true
		}
	}
	return 0, false
}
