package domain

// Role is the normalized form of a role label. Labels coming from tokens,
// stored documents or payloads go through ParseRole exactly once.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"

	RoleSupport    Role = "support"
	RoleVerifier   Role = "verifier"
	RoleOperations Role = "operations"
	RoleSuperAdmin Role = "super_admin"

	// RoleUnknown is what ParseRole yields for any unrecognized label.
	RoleUnknown Role = ""
)

// legacyAdminLabel is the pre-split admin label. It carries super_admin authority.
const legacyAdminLabel = "admin"

var accessLevels = map[Role]int{
	RoleClient:     0,
	RoleProvider:   0,
	RoleSupport:    1,
	RoleVerifier:   2,
	RoleOperations: 3,
	RoleSuperAdmin: 4,
}

// ParseRole maps a raw label to a Role. Matching is exact.
func ParseRole(label string) Role {
	if label == legacyAdminLabel {
		return RoleSuperAdmin
	}
	r := Role(label)
	if _, ok := accessLevels[r]; !ok {
		return RoleUnknown
	}
	return r
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := accessLevels[r]
	return ok
}

// IsPublic reports whether r is a customer-facing role.
func (r Role) IsPublic() bool {
	return r == RoleClient || r == RoleProvider
}

// IsInternal reports whether r is a staff role.
func (r Role) IsInternal() bool {
	switch r {
	case RoleSupport, RoleVerifier, RoleOperations, RoleSuperAdmin:
		return true
	}
	return false
}

// IsSystem reports whether r carries full authority.
func (r Role) IsSystem() bool {
	return r == RoleSuperAdmin
}

// HasOperationalAccess currently covers exactly the internal roles.
func (r Role) HasOperationalAccess() bool {
	return r.IsInternal()
}

// AccessLevel returns 0 for public roles, 1..4 for internal roles in
// ascending authority and -1 for anything else.
func (r Role) AccessLevel() int {
	if lvl, ok := accessLevels[r]; ok {
		return lvl
	}
	return -1
}

// IsInternalRole classifies a raw label.
func IsInternalRole(label string) bool { return ParseRole(label).IsInternal() }

// IsSystemRole classifies a raw label.
func IsSystemRole(label string) bool { return ParseRole(label).IsSystem() }

// HasOperationalAccess classifies a raw label.
func HasOperationalAccess(label string) bool { return ParseRole(label).HasOperationalAccess() }

// GetAccessLevel classifies a raw label.
func GetAccessLevel(label string) int { return ParseRole(label).AccessLevel() }
