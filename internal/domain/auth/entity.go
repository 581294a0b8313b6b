package auth

// Role is issued by the events platform in the access token's "role" claim.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleViewer      Role = "viewer"
)

// CanExport reports whether the role may download or archive reports.
func (r Role) CanExport() bool {
	return r == RoleAdmin || r == RoleCoordinator
}
