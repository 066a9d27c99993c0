package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsOfExactSets(t *testing.T) {
	table := NewPermissionTable()

	assert.ElementsMatch(t, []Permission{
		PermWorkspaceView, PermWorkspaceManage, PermWorkspaceDelete,
		PermMemberView, PermMemberManage, PermMemberRemove,
		PermInviteCreate, PermInviteCancel, PermInviteView,
		PermProposalView, PermProposalCreate, PermProposalManage,
	}, table.PermissionsOf(RoleOwner))

	assert.ElementsMatch(t, []Permission{
		PermWorkspaceView,
		PermMemberView, PermMemberManage, PermMemberRemove,
		PermInviteCreate, PermInviteCancel, PermInviteView,
		PermProposalView, PermProposalCreate, PermProposalManage,
	}, table.PermissionsOf(RoleAdmin))

	assert.ElementsMatch(t, []Permission{
		PermWorkspaceView, PermMemberView,
		PermProposalView, PermProposalCreate,
	}, table.PermissionsOf(RoleMember))

	assert.ElementsMatch(t, []Permission{
		PermWorkspaceView, PermMemberView, PermProposalView,
	}, table.PermissionsOf(RoleViewer))
}

func TestPermissionsOfUnknownRole(t *testing.T) {
	table := NewPermissionTable()
	assert.Empty(t, table.PermissionsOf(Role("bogus")))
}

func TestPermissionsOfReturnsCopy(t *testing.T) {
	table := NewPermissionTable()
	perms := table.PermissionsOf(RoleViewer)
	perms[0] = Permission("tampered")
	assert.NotContains(t, table.PermissionsOf(RoleViewer), Permission("tampered"))
}

func TestMissing(t *testing.T) {
	table := NewPermissionTable()

	missing := table.Missing(RoleViewer, []Permission{PermWorkspaceView, PermMemberManage, PermInviteCreate})
	assert.ElementsMatch(t, []Permission{PermMemberManage, PermInviteCreate}, missing)

	assert.Empty(t, table.Missing(RoleOwner, table.PermissionsOf(RoleAdmin)))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleOwner))
	assert.True(t, ValidRole(RoleViewer))
	assert.False(t, ValidRole(Role("superuser")))
}

func TestCanManageMembers(t *testing.T) {
	assert.True(t, RoleOwner.CanManageMembers())
	assert.True(t, RoleAdmin.CanManageMembers())
	assert.False(t, RoleMember.CanManageMembers())
	assert.False(t, RoleViewer.CanManageMembers())
}
