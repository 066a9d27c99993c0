package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	"gorm.io/gorm"
)

// Requirement declares what a protected operation needs from the
// caller: membership alone, or a concrete permission set (AND
// semantics). It is a plain value handed over at route registration.
type Requirement struct {
	Permissions []model.Permission
}

// MembershipOnly requires any membership in the resolved workspace.
func MembershipOnly() Requirement {
	return Requirement{}
}

// Require requires every listed permission.
func Require(perms ...model.Permission) Requirement {
	return Requirement{Permissions: perms}
}

// WorkspaceRef carries the candidate workspace identifiers of one
// request, flattened out of the transport shape.
type WorkspaceRef struct {
	Param string
	Query string
	Body  string
}

// ResolveWorkspaceId picks the acting workspace: explicit path param,
// then query argument, then body field, then the actor's active
// workspace pointer. Empty result means nothing resolved.
func ResolveWorkspaceId(ref WorkspaceRef, activeWorkspace string) string {
	for _, candidate := range []string{ref.Param, ref.Query, ref.Body, activeWorkspace} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Grant is the authorization result attached to the request context so
// downstream services do not re-resolve it.
type Grant struct {
	WorkspaceId string
	Role        model.Role
}

// PermissionService resolves the acting workspace and authorizes the
// actor against a Requirement. The permission table is injected at
// startup and treated as immutable.
type PermissionService struct {
	table      *model.PermissionTable
	memberRepo repo.IWorkspaceMemberRepository
	userRepo   repo.IUserRepository
}

func NewPermissionService(table *model.PermissionTable, memberRepo repo.IWorkspaceMemberRepository, userRepo repo.IUserRepository) *PermissionService {
	return &PermissionService{
		table:      table,
		memberRepo: memberRepo,
		userRepo:   userRepo,
	}
}

// Table exposes the injected permission table for reads.
func (s *PermissionService) Table() *model.PermissionTable {
	return s.table
}

// Authorize runs the guard contract: resolve the workspace, load the
// membership, check the requirement. It performs no mutation and is
// invoked before any protected operation executes.
func (s *PermissionService) Authorize(userId string, ref WorkspaceRef, req Requirement) (*Grant, error) {
	workspaceId := ResolveWorkspaceId(ref, "")
	if workspaceId == "" {
		user, err := s.userRepo.GetByUserId(userId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, Forbiddenf("unknown actor")
			}
			return nil, fmt.Errorf("load actor failed: %w", err)
		}
		workspaceId = user.ActiveWorkspaceId
	}
	if workspaceId == "" {
		return nil, InvalidStatef("workspace not specified")
	}

	member, err := s.memberRepo.Get(workspaceId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Forbiddenf("not a member of workspace %s", workspaceId)
		}
		return nil, fmt.Errorf("load membership failed: %w", err)
	}

	if missing := s.table.Missing(member.Role, req.Permissions); len(missing) > 0 {
		return nil, Forbiddenf("missing permissions: %s", joinPermissions(missing))
	}

	return &Grant{WorkspaceId: workspaceId, Role: member.Role}, nil
}

func joinPermissions(perms []model.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
