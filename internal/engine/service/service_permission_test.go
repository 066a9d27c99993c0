package service

import (
	"testing"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspaceId(t *testing.T) {
	assert.Equal(t, "p", ResolveWorkspaceId(WorkspaceRef{Param: "p", Query: "q", Body: "b"}, "a"))
	assert.Equal(t, "q", ResolveWorkspaceId(WorkspaceRef{Query: "q", Body: "b"}, "a"))
	assert.Equal(t, "b", ResolveWorkspaceId(WorkspaceRef{Body: "b"}, "a"))
	assert.Equal(t, "a", ResolveWorkspaceId(WorkspaceRef{}, "a"))
	assert.Empty(t, ResolveWorkspaceId(WorkspaceRef{}, ""))
}

func TestAuthorizeMembershipOnly(t *testing.T) {
	env := newTestEnv()
	env.store.addWorkspace("w-1", "One", "one", "u-owner")
	env.store.addMember("w-1", "u-viewer", model.RoleViewer)

	grant, err := env.permissions.Authorize("u-viewer", WorkspaceRef{Param: "w-1"}, MembershipOnly())
	require.NoError(t, err)
	assert.Equal(t, "w-1", grant.WorkspaceId)
	assert.Equal(t, model.RoleViewer, grant.Role)

	_, err = env.permissions.Authorize("u-stranger", WorkspaceRef{Param: "w-1"}, MembershipOnly())
	assert.True(t, IsForbidden(err))
}

func TestAuthorizePermissionCheck(t *testing.T) {
	env := newTestEnv()
	env.store.addWorkspace("w-1", "One", "one", "u-owner")
	env.store.addMember("w-1", "u-owner", model.RoleOwner)
	env.store.addMember("w-1", "u-viewer", model.RoleViewer)

	_, err := env.permissions.Authorize("u-owner", WorkspaceRef{Param: "w-1"},
		Require(model.PermWorkspaceDelete, model.PermMemberManage))
	require.NoError(t, err)

	_, err = env.permissions.Authorize("u-viewer", WorkspaceRef{Param: "w-1"},
		Require(model.PermMemberManage))
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Contains(t, err.Error(), string(model.PermMemberManage))

	// AND semantics: one held plus one missing still rejects
	_, err = env.permissions.Authorize("u-viewer", WorkspaceRef{Param: "w-1"},
		Require(model.PermWorkspaceView, model.PermMemberManage))
	assert.True(t, IsForbidden(err))
}

func TestAuthorizeActiveWorkspaceFallback(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u-alice", "alice", "alice@example.com")
	env.store.addWorkspace("w-1", "One", "one", "u-alice")
	env.store.addMember("w-1", "u-alice", model.RoleOwner)
	require.NoError(t, env.users.SetActiveWorkspace("u-alice", "w-1"))

	grant, err := env.permissions.Authorize("u-alice", WorkspaceRef{}, MembershipOnly())
	require.NoError(t, err)
	assert.Equal(t, "w-1", grant.WorkspaceId)
}

func TestAuthorizeNoWorkspace(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u-alice", "alice", "alice@example.com")

	_, err := env.permissions.Authorize("u-alice", WorkspaceRef{}, MembershipOnly())
	assert.True(t, IsInvalidState(err))

	_, err = env.permissions.Authorize("u-ghost", WorkspaceRef{}, MembershipOnly())
	assert.True(t, IsForbidden(err))
}
