package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	"github.com/go-propel/propel/pkg/id"
	"github.com/go-propel/propel/pkg/log"
	"github.com/go-propel/propel/pkg/safe"
	"gorm.io/gorm"
)

// InviteMailer delivers invitation emails. Delivery is best effort and
// never blocks the inviting request.
type InviteMailer interface {
	SendInvite(email, workspaceName, role, joinLink, inviterName string, expiresAt time.Time) error
}

// InvitationService issues, cancels and redeems workspace invites.
type InvitationService struct {
	inviteRepo repo.IWorkspaceInviteRepository
	memberRepo repo.IWorkspaceMemberRepository
	wsRepo     repo.IWorkspaceRepository
	userRepo   repo.IUserRepository
	mailer     InviteMailer
	audit      *AuditService
	linkBase   string
}

func NewInvitationService(
	inviteRepo repo.IWorkspaceInviteRepository,
	memberRepo repo.IWorkspaceMemberRepository,
	wsRepo repo.IWorkspaceRepository,
	userRepo repo.IUserRepository,
	mailer InviteMailer,
	audit *AuditService,
	linkBase string,
) *InvitationService {
	return &InvitationService{
		inviteRepo: inviteRepo,
		memberRepo: memberRepo,
		wsRepo:     wsRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		audit:      audit,
		linkBase:   strings.TrimRight(linkBase, "/"),
	}
}

// Invite creates a pending, single-use invite addressed by an opaque
// token and mails the join link. Owner or admin only; the owner role is
// never offered through invites.
func (s *InvitationService) Invite(actorId string, req *model.InviteReq) (*model.InviteResp, error) {
	actor, err := s.requireManager(req.WorkspaceId, actorId)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, InvalidStatef("invite email cannot be empty")
	}
	if !model.ValidRole(req.Role) {
		return nil, InvalidStatef("unknown role %q", req.Role)
	}
	if req.Role == model.RoleOwner {
		return nil, InvalidStatef("ownership cannot be offered through an invite")
	}

	// refuse inviting someone who already holds a membership
	if user, err := s.userRepo.GetByEmail(email); err == nil {
		if _, err := s.memberRepo.Get(req.WorkspaceId, user.UserId); err == nil {
			return nil, InvalidStatef("%s is already a member of the workspace", email)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load membership failed: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user failed: %w", err)
	}

	pending, err := s.inviteRepo.ListPending(req.WorkspaceId)
	if err != nil {
		return nil, fmt.Errorf("list pending invites failed: %w", err)
	}
	now := time.Now()
	for i := range pending {
		if pending[i].Email == email && !pending[i].Expired(now) {
			return nil, InvalidStatef("%s already has a pending invite", email)
		}
	}

	token, err := id.SecureToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token failed: %w", err)
	}
	invite := &model.WorkspaceInvite{
		InviteId:    id.GetULID(),
		WorkspaceId: req.WorkspaceId,
		Email:       email,
		Role:        req.Role,
		Token:       token,
		InvitedBy:   actorId,
		ExpiresAt:   now.Add(model.InviteTTL),
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("create invite failed: %w", err)
	}

	s.sendInviteMail(invite, actor.UserId)
	s.audit.Record(actorId, req.WorkspaceId, "invite.create", "invite", invite.InviteId,
		map[string]any{"email": email, "role": req.Role})

	resp := model.ToInviteResp(invite)
	return &resp, nil
}

// CancelInvite revokes a pending invite so its token stops working
// immediately. Owner or admin only.
func (s *InvitationService) CancelInvite(workspaceId, inviteId, actorId string) error {
	if _, err := s.requireManager(workspaceId, actorId); err != nil {
		return err
	}

	invite, err := s.inviteRepo.GetById(workspaceId, inviteId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("invite not found")
		}
		return fmt.Errorf("load invite failed: %w", err)
	}
	if !invite.Pending() {
		return InvalidStatef("invite has already been accepted")
	}

	if err := s.inviteRepo.Delete(inviteId); err != nil {
		return fmt.Errorf("delete invite failed: %w", err)
	}
	s.audit.Record(actorId, workspaceId, "invite.cancel", "invite", inviteId,
		map[string]any{"email": invite.Email})
	return nil
}

// ListInvites returns the workspace's pending invites, newest first.
// Owner or admin only.
func (s *InvitationService) ListInvites(workspaceId, actorId string) ([]model.InviteResp, error) {
	if _, err := s.requireManager(workspaceId, actorId); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListPending(workspaceId)
	if err != nil {
		return nil, fmt.Errorf("list invites failed: %w", err)
	}
	out := make([]model.InviteResp, 0, len(invites))
	for i := range invites {
		out = append(out, model.ToInviteResp(&invites[i]))
	}
	return out, nil
}

// AcceptInvite redeems a token for the acting user, creating the
// membership and consuming the invite atomically. The actor's account
// email must match the invited address.
func (s *InvitationService) AcceptInvite(token, actorId string) (*model.AcceptInviteResp, error) {
	actor, err := s.userRepo.GetByUserId(actorId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Forbiddenf("unknown user")
		}
		return nil, fmt.Errorf("load user failed: %w", err)
	}

	invite, err := s.inviteRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("invite not found")
		}
		return nil, fmt.Errorf("load invite failed: %w", err)
	}
	if !invite.Pending() {
		return nil, InvalidStatef("invite has already been accepted")
	}
	if invite.Expired(time.Now()) {
		return nil, InvalidStatef("invite has expired")
	}
	// both sides are lowercased at write time, so this stays exact
	if invite.Email != actor.Email {
		return nil, Forbiddenf("invite was issued to a different email address")
	}

	member := &model.WorkspaceMember{
		WorkspaceId: invite.WorkspaceId,
		UserId:      actorId,
		Role:        invite.Role,
		InvitedBy:   invite.InvitedBy,
	}
	accepted, err := s.inviteRepo.Accept(token, member, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrInviteAccepted):
			return nil, InvalidStatef("invite has already been accepted")
		case errors.Is(err, repo.ErrInviteExpired):
			return nil, InvalidStatef("invite has expired")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, InvalidStatef("already a member of the workspace")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, NotFoundf("invite not found")
		}
		return nil, fmt.Errorf("accept invite failed: %w", err)
	}

	log.Infow("invite accepted", "inviteId", accepted.InviteId,
		"workspaceId", accepted.WorkspaceId, "user", actorId, "role", accepted.Role)
	s.audit.Record(actorId, accepted.WorkspaceId, "invite.accept", "invite", accepted.InviteId,
		map[string]any{"email": accepted.Email, "role": accepted.Role})

	return &model.AcceptInviteResp{
		WorkspaceId: accepted.WorkspaceId,
		Role:        accepted.Role,
	}, nil
}

func (s *InvitationService) sendInviteMail(invite *model.WorkspaceInvite, inviterId string) {
	if s.mailer == nil {
		return
	}
	ws, err := s.wsRepo.GetByWorkspaceId(invite.WorkspaceId)
	if err != nil {
		log.Errorw("load workspace for invite mail failed", "workspaceId", invite.WorkspaceId, "err", err)
		return
	}
	inviterName := inviterId
	if inviter, err := s.userRepo.GetByUserId(inviterId); err == nil {
		inviterName = inviter.Username
	}
	joinLink := fmt.Sprintf("%s/invites/accept/%s", s.linkBase, invite.Token)

	email, role, expiresAt := invite.Email, string(invite.Role), invite.ExpiresAt
	safe.Go(func() {
		if err := s.mailer.SendInvite(email, ws.Name, role, joinLink, inviterName, expiresAt); err != nil {
			log.Errorw("send invite mail failed", "email", email, "workspace", ws.Name, "err", err)
		}
	})
}

func (s *InvitationService) requireManager(workspaceId, actorId string) (*model.WorkspaceMember, error) {
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
