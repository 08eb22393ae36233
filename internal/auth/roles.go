package auth

// Role is an access level carried in token claims.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleAccountant: 2,
	RoleAdmin:      3,
}

// NormalizeRole maps a raw claim value to a known role.
func NormalizeRole(raw string) (Role, bool) {
	role := Role(raw)
	_, ok := roleRank[role]
	return role, ok
}

// RoleAtLeast reports whether have satisfies the required level.
func RoleAtLeast(have, required Role) bool {
	return roleRank[have] >= roleRank[required]
}
