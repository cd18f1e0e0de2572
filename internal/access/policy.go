package access

// Role is one of the fixed set of user roles. The set is closed: roles are
// never created at runtime.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCommander Role = "commander"
	RoleLogistics Role = "logistics"
)

// Resource is a navigable, permission-gated area of functionality. Every
// route group on the server and every view on the client maps to exactly
// one resource.
type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceBases        Resource = "bases"
	ResourceRegistration Resource = "registration"
	ResourceAssets       Resource = "assets"
	ResourcePurchases    Resource = "purchases"
	ResourceTransfers    Resource = "transfers"
	ResourceAssignments  Resource = "assignments"
	ResourceDashboard    Resource = "dashboard"
)

// IsValidRole checks if a given role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleCommander, RoleLogistics:
		return true
	default:
		return false
	}
}

// policy is the single role -> resource matrix consulted everywhere.
// Permitted roles are listed explicitly; a missing entry means denied.
var policy = map[Resource][]Role{
	ResourceUsers:        {RoleAdmin},
	ResourceBases:        {RoleAdmin},
	ResourceRegistration: {RoleAdmin},
	ResourceAssets:       {RoleAdmin, RoleLogistics},
	ResourcePurchases:    {RoleAdmin, RoleLogistics},
	ResourceTransfers:    {RoleAdmin, RoleCommander, RoleLogistics},
	ResourceAssignments:  {RoleAdmin, RoleCommander, RoleLogistics},
	ResourceDashboard:    {RoleAdmin, RoleCommander, RoleLogistics},
}

// CanAccess reports whether an actor with the given role may enter the given
// resource. Evaluation is total: every (role, resource) pair has an answer,
// and an unknown role or resource is denied. An empty role (no session)
// is denied everything.
func CanAccess(role Role, resource Resource) bool {
	allowed, ok := policy[resource]
	if !ok || role == "" {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Resources returns every known resource. Used by the client to build
// navigation and by tests to sweep the full matrix.
func Resources() []Resource {
	return []Resource{
		ResourceUsers,
		ResourceBases,
		ResourceRegistration,
		ResourceAssets,
		ResourcePurchases,
		ResourceTransfers,
		ResourceAssignments,
		ResourceDashboard,
	}
}
