package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	"github.com/go-propel/propel/pkg/id"
	"github.com/go-propel/propel/pkg/log"
	"gorm.io/gorm"
)

// maxNumericSlugAttempts bounds the incrementing-suffix retry before
// falling back to a random suffix.
const maxNumericSlugAttempts = 10

// MembershipService orchestrates workspace lifecycle and membership
// mutations, re-validating role-hierarchy invariants on every write.
type MembershipService struct {
	wsRepo     repo.IWorkspaceRepository
	memberRepo repo.IWorkspaceMemberRepository
	userRepo   repo.IUserRepository
	audit      *AuditService
}

func NewMembershipService(
	wsRepo repo.IWorkspaceRepository,
	memberRepo repo.IWorkspaceMemberRepository,
	userRepo repo.IUserRepository,
	audit *AuditService,
) *MembershipService {
	return &MembershipService{
		wsRepo:     wsRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		audit:      audit,
	}
}

// CreateWorkspace creates a workspace with an owner membership for the
// actor in one transaction and makes it the actor's active workspace.
// Slug collisions are detected at write time via the unique index and
// retried with an incrementing suffix.
func (s *MembershipService) CreateWorkspace(actorId string, req *model.CreateWorkspaceReq) (*model.WorkspaceResp, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, InvalidStatef("workspace name cannot be empty")
	}

	base := Slugify(name)
	for attempt := 0; ; attempt++ {
		slug := base
		switch {
		case attempt == 0:
		case attempt < maxNumericSlugAttempts:
			slug = fmt.Sprintf("%s-%d", base, attempt+1)
		default:
			// pathological collision load, bail out to a random suffix
			slug = fmt.Sprintf("%s-%s", base, strings.ToLower(id.ShortId()))
		}

		ws := &model.Workspace{
			WorkspaceId: id.GetUUID(),
			Name:        name,
			Slug:        slug,
			OwnerUserId: actorId,
		}
		owner := &model.WorkspaceMember{
			WorkspaceId: ws.WorkspaceId,
			UserId:      actorId,
			Role:        model.RoleOwner,
		}

		err := s.wsRepo.CreateWithOwner(ws, owner)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create workspace failed: %w", err)
		}

		log.Infow("workspace created", "workspaceId", ws.WorkspaceId, "slug", ws.Slug, "owner", actorId)
		s.audit.Record(actorId, ws.WorkspaceId, "workspace.create", "workspace", ws.WorkspaceId,
			map[string]any{"name": name, "slug": slug})

		return &model.WorkspaceResp{
			WorkspaceId: ws.WorkspaceId,
			Name:        ws.Name,
			Slug:        ws.Slug,
			OwnerUserId: ws.OwnerUserId,
			Role:        model.RoleOwner,
			Members:     []model.MemberResp{model.ToMemberResp(owner)},
		}, nil
	}
}

// ListWorkspaces returns every workspace the actor belongs to, each
// annotated with the actor's role and the member count, in one bulk
// fetch.
func (s *MembershipService) ListWorkspaces(actorId string) ([]model.WorkspaceListItem, error) {
	items, err := s.wsRepo.ListByUser(actorId)
	if err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return items, nil
}

// GetWorkspace returns the workspace and the actor's role. Absence and
// non-membership are reported identically so non-members cannot learn
// of a workspace's existence.
func (s *MembershipService) GetWorkspace(workspaceId, actorId string) (*model.WorkspaceResp, error) {
	member, err := s.memberRepo.Get(workspaceId, actorId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("workspace not found")
		}
		return nil, fmt.Errorf("load membership failed: %w", err)
	}

	ws, err := s.wsRepo.GetByWorkspaceId(workspaceId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("workspace not found")
		}
		return nil, fmt.Errorf("load workspace failed: %w", err)
	}

	return &model.WorkspaceResp{
		WorkspaceId: ws.WorkspaceId,
		Name:        ws.Name,
		Slug:        ws.Slug,
		OwnerUserId: ws.OwnerUserId,
		Role:        member.Role,
	}, nil
}

// SetActiveWorkspace moves the actor's default tenant pointer. It has
// no other side effect.
func (s *MembershipService) SetActiveWorkspace(actorId, workspaceId string) error {
	if _, err := s.memberRepo.Get(workspaceId, actorId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Forbiddenf("not a member of workspace %s", workspaceId)
		}
		return fmt.Errorf("load membership failed: %w", err)
	}
	if err := s.userRepo.SetActiveWorkspace(actorId, workspaceId); err != nil {
		return fmt.Errorf("set active workspace failed: %w", err)
	}
	return nil
}

// RenameWorkspace renames the workspace. Owner only.
func (s *MembershipService) RenameWorkspace(workspaceId, actorId string, req *model.RenameWorkspaceReq) error {
	if err := s.requireOwner(workspaceId, actorId); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return InvalidStatef("workspace name cannot be empty")
	}
	if err := s.wsRepo.Rename(workspaceId, name); err != nil {
		return fmt.Errorf("rename workspace failed: %w", err)
	}
	s.audit.Record(actorId, workspaceId, "workspace.rename", "workspace", workspaceId,
		map[string]any{"name": name})
	return nil
}

// DeleteWorkspace irreversibly removes the workspace, cascading its
// memberships and invites. Owner only.
func (s *MembershipService) DeleteWorkspace(workspaceId, actorId string) error {
	if err := s.requireOwner(workspaceId, actorId); err != nil {
		return err
	}
	if err := s.wsRepo.Delete(workspaceId); err != nil {
		return fmt.Errorf("delete workspace failed: %w", err)
	}
	log.Infow("workspace deleted", "workspaceId", workspaceId, "actor", actorId)
	s.audit.Record(actorId, workspaceId, "workspace.delete", "workspace", workspaceId, nil)
	return nil
}

// ListMembers returns the membership list, owner first, then by join
// time ascending. Requires any membership.
func (s *MembershipService) ListMembers(workspaceId, actorId string) ([]model.MemberResp, error) {
	if _, err := s.memberRepo.Get(workspaceId, actorId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("workspace not found")
		}
		return nil, fmt.Errorf("load membership failed: %w", err)
	}

	members, err := s.memberRepo.List(workspaceId)
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	out := make([]model.MemberResp, 0, len(members))
	for i := range members {
		out = append(out, model.ToMemberResp(&members[i]))
	}
	return out, nil
}

// UpdateMemberRole changes the target's role. Ownership is never
// granted or revoked through this path.
func (s *MembershipService) UpdateMemberRole(workspaceId, targetUserId, actorId string, newRole model.Role) error {
	if !model.ValidRole(newRole) {
		return InvalidStatef("unknown role %q", newRole)
	}
	if newRole == model.RoleOwner {
		return InvalidStatef("ownership cannot be granted through role update")
	}

	actor, err := s.requireManager(workspaceId, actorId)
	if err != nil {
		return err
	}

	target, err := s.memberRepo.Get(workspaceId, targetUserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("member not found")
		}
		return fmt.Errorf("load member failed: %w", err)
	}
	if target.Role == model.RoleOwner {
		if actor.Role != model.RoleOwner {
			return Forbiddenf("only the owner may touch the owner membership")
		}
		return InvalidStatef("the owner role cannot be changed")
	}

	if err := s.memberRepo.UpdateRole(workspaceId, targetUserId, newRole); err != nil {
		return fmt.Errorf("update member role failed: %w", err)
	}
	s.audit.Record(actorId, workspaceId, "member.update_role", "member", targetUserId,
		map[string]any{"from": target.Role, "to": newRole})
	return nil
}

// RemoveMember deletes the target membership. The owner can never be
// removed here, and the last admin cannot remove themselves.
func (s *MembershipService) RemoveMember(workspaceId, targetUserId, actorId string) error {
	actor, err := s.requireManager(workspaceId, actorId)
	if err != nil {
		return err
	}

	target, err := s.memberRepo.Get(workspaceId, targetUserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("member not found")
		}
		return fmt.Errorf("load member failed: %w", err)
	}
	if target.Role == model.RoleOwner {
		return InvalidStatef("the owner cannot be removed from the workspace")
	}
	if targetUserId == actorId && actor.Role == model.RoleAdmin {
		admins, err := s.memberRepo.CountByRole(workspaceId, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins failed: %w", err)
		}
		if admins <= 1 {
			return InvalidStatef("the only admin cannot remove themselves")
		}
	}

	if err := s.memberRepo.Remove(workspaceId, targetUserId); err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	s.audit.Record(actorId, workspaceId, "member.remove", "member", targetUserId, nil)
	return nil
}

// requireOwner loads the actor membership and demands the owner role.
// Missing membership on these write paths is Forbidden.
func (s *MembershipService) requireOwner(workspaceId, actorId string) error {
	member, err := s.memberRepo.Get(workspaceId, actorId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Forbiddenf("not a member of workspace %s", workspaceId)
		}
		return fmt.Errorf("load membership failed: %w", err)
	}
	if member.Role != model.RoleOwner {
		return Forbiddenf("requires the owner role")
	}
	return nil
}

// requireManager loads the actor membership and demands owner or admin.
func (s *MembershipService) requireManager(workspaceId, actorId string) (*model.WorkspaceMember, error) {
	member, err := s.memberRepo.Get(workspaceId, actorId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Forbiddenf("not a member of workspace %s", workspaceId)
		}
		return nil, fmt.Errorf("load membership failed: %w", err)
	}
	if !member.Role.CanManageMembers() {
		return nil, Forbiddenf("requires the owner or admin role")
	}
	return member, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses everything outside
// [a-z0-9] into single dashes.
func Slugify(name string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = strings.ToLower(id.ShortId())
	}
	return slug
}
