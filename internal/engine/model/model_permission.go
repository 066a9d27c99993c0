package model

// Role is a coarse privilege level inside a workspace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may invite, remove and
// change roles of other members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Permission is a fine-grained capability derived from a role.
type Permission string

const (
	PermWorkspaceView   Permission = "workspace:view"
	PermWorkspaceManage Permission = "workspace:manage"
	PermWorkspaceDelete Permission = "workspace:delete"
	PermMemberView      Permission = "member:view"
	PermMemberManage    Permission = "member:manage"
	PermMemberRemove    Permission = "member:remove"
	PermInviteCreate    Permission = "invite:create"
	PermInviteCancel    Permission = "invite:cancel"
	PermInviteView      Permission = "invite:view"
	PermProposalView    Permission = "proposal:view"
	PermProposalCreate  Permission = "proposal:create"
	PermProposalManage  Permission = "proposal:manage"
)

// PermissionTable maps roles to the permissions they carry. It is
// built once at startup and never mutated afterwards; lookups hand
// out copies so callers cannot poke at the underlying sets.
type PermissionTable struct {
	grants map[Role][]Permission
}

// NewPermissionTable builds the default role/permission mapping.
func NewPermissionTable() *PermissionTable {
	return &PermissionTable{
		grants: map[Role][]Permission{
			RoleOwner: {
				PermWorkspaceView, PermWorkspaceManage, PermWorkspaceDelete,
				PermMemberView, PermMemberManage, PermMemberRemove,
				PermInviteCreate, PermInviteCancel, PermInviteView,
				PermProposalView, PermProposalCreate, PermProposalManage,
			},
			RoleAdmin: {
				PermWorkspaceView,
				PermMemberView, PermMemberManage, PermMemberRemove,
				PermInviteCreate, PermInviteCancel, PermInviteView,
				PermProposalView, PermProposalCreate, PermProposalManage,
			},
			RoleMember: {
				PermWorkspaceView,
				PermMemberView,
				PermProposalView, PermProposalCreate,
			},
			RoleViewer: {
				PermWorkspaceView,
				PermMemberView,
				PermProposalView,
			},
		},
	}
}

// PermissionsOf returns the permission set of a role. Unknown roles
// carry no permissions.
func (t *PermissionTable) PermissionsOf(role Role) []Permission {
	perms, ok := t.grants[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Missing returns the members of required that role does not carry.
func (t *PermissionTable) Missing(role Role, required []Permission) []Permission {
	granted := make(map[Permission]struct{}, len(t.grants[role]))
	for _, p := range t.grants[role] {
		granted[p] = struct{}{}
	}
	var missing []Permission
	for _, p := range required {
		if _, ok := granted[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}
