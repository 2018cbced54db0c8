package tenant

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleSysAdmin     Role = "sys_admin"
	RoleNGOAdmin     Role = "ngo_admin"
	RoleFieldOfficer Role = "field_officer"
	RoleVslaOfficer  Role = "vsla_officer"
	RoleMember       Role = "member"
	RoleDonor        Role = "donor"
)

var roles = map[Role]struct{}{
	RoleSuperAdmin: {}, RoleSysAdmin: {}, RoleNGOAdmin: {}, RoleFieldOfficer: {},
	RoleVslaOfficer: {}, RoleMember: {}, RoleDonor: {},
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

// Caller is the identity every scoped operation runs as.
type Caller struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
}

func (c Caller) IsSuperAdmin() bool { return c.Role == RoleSuperAdmin }

// Owns reports whether the caller may see or mutate data of tenantID.
// A caller without a tenant owns nothing unless it is a super admin.
func (c Caller) Owns(tenantID string) bool {
	if c.IsSuperAdmin() {
		return true
	}
	return c.TenantID != "" && c.TenantID == tenantID
}

// Actor is the id recorded in audit entries for this caller.
func (c Caller) Actor() string {
	if c.UserID == "" {
		return "sys"
	}
	return c.UserID
}
