package service

import (
	"sort"
	"sync"
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/repo"
	httpx "github.com/go-propel/propel/pkg/http"
	"gorm.io/gorm"
)

// fakeStore is a shared in-memory backend for the fake repositories so
// cross-repo effects (owner creation, accept, cascade delete) stay
// observable in tests.
type fakeStore struct {
	mu         sync.Mutex
	seq        uint64
	users      map[string]*model.User
	workspaces map[string]*model.Workspace
	members    map[string]*model.WorkspaceMember
	invites    map[string]*model.WorkspaceInvite // by token
	audits     []model.AuditLog
	tokens     map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[string]*model.User{},
		workspaces: map[string]*model.Workspace{},
		members:    map[string]*model.WorkspaceMember{},
		invites:    map[string]*model.WorkspaceInvite{},
		tokens:     map[string]string{},
	}
}

func memberKey(workspaceId, userId string) string {
	return workspaceId + "|" + userId
}

func (s *fakeStore) nextId() uint64 {
	s.seq++
	return s.seq
}

func (s *fakeStore) addUser(userId, username, email string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{UserId: userId, Username: username, Email: email, IsEnabled: 1}
	u.ID = s.nextId()
	s.users[userId] = u
	return u
}

func (s *fakeStore) addMember(workspaceId, userId string, role model.Role) *model.WorkspaceMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.WorkspaceMember{WorkspaceId: workspaceId, UserId: userId, Role: role}
	m.ID = s.nextId()
	m.CreatedAt = time.Now()
	s.members[memberKey(workspaceId, userId)] = m
	return m
}

func (s *fakeStore) addWorkspace(workspaceId, name, slug, ownerId string) *model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := &model.Workspace{WorkspaceId: workspaceId, Name: name, Slug: slug, OwnerUserId: ownerId}
	ws.ID = s.nextId()
	s.workspaces[workspaceId] = ws
	return ws
}

func (s *fakeStore) anyInviteToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.invites {
		return token
	}
	return ""
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.store.nextId()
	r.store.users[user.UserId] = user
	return nil
}

func (r *fakeUserRepo) GetByUserId(userId string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[userId]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SetActiveWorkspace(userId, workspaceId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[userId]; ok {
		u.ActiveWorkspaceId = workspaceId
	}
	return nil
}

func (r *fakeUserRepo) SetToken(userId, token string, auth httpx.Auth) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := auth.RedisKeyPrefix + userId
	r.store.tokens[key] = token
	return key, nil
}

func (r *fakeUserRepo) GetToken(key string) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.tokens[key], nil
}

func (r *fakeUserRepo) DelToken(key string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tokens, key)
	return nil
}

type fakeWorkspaceRepo struct{ store *fakeStore }

func (r *fakeWorkspaceRepo) CreateWithOwner(ws *model.Workspace, owner *model.WorkspaceMember) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.workspaces {
		if existing.Slug == ws.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	ws.ID = r.store.nextId()
	owner.ID = r.store.nextId()
	owner.CreatedAt = time.Now()
	r.store.workspaces[ws.WorkspaceId] = ws
	r.store.members[memberKey(ws.WorkspaceId, owner.UserId)] = owner
	if u, ok := r.store.users[owner.UserId]; ok {
		u.ActiveWorkspaceId = ws.WorkspaceId
	}
	return nil
}

func (r *fakeWorkspaceRepo) GetByWorkspaceId(workspaceId string) (*model.Workspace, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if ws, ok := r.store.workspaces[workspaceId]; ok {
		cp := *ws
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWorkspaceRepo) ListByUser(userId string) ([]model.WorkspaceListItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var items []model.WorkspaceListItem
	for _, m := range r.store.members {
		if m.UserId != userId {
			continue
		}
		ws := r.store.workspaces[m.WorkspaceId]
		var count int64
		for _, mm := range r.store.members {
			if mm.WorkspaceId == m.WorkspaceId {
				count++
			}
		}
		items = append(items, model.WorkspaceListItem{
			WorkspaceId: ws.WorkspaceId,
			Name:        ws.Name,
			Slug:        ws.Slug,
			OwnerUserId: ws.OwnerUserId,
			Role:        m.Role,
			MemberCount: count,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].WorkspaceId < items[j].WorkspaceId })
	return items, nil
}

func (r *fakeWorkspaceRepo) Rename(workspaceId, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if ws, ok := r.store.workspaces[workspaceId]; ok {
		ws.Name = name
	}
	return nil
}

func (r *fakeWorkspaceRepo) Delete(workspaceId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.workspaces, workspaceId)
	for k, m := range r.store.members {
		if m.WorkspaceId == workspaceId {
			delete(r.store.members, k)
		}
	}
	for k, inv := range r.store.invites {
		if inv.WorkspaceId == workspaceId {
			delete(r.store.invites, k)
		}
	}
	for _, u := range r.store.users {
		if u.ActiveWorkspaceId == workspaceId {
			u.ActiveWorkspaceId = ""
		}
	}
	return nil
}

type fakeMemberRepo struct{ store *fakeStore }

func (r *fakeMemberRepo) Get(workspaceId, userId string) (*model.WorkspaceMember, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.members[memberKey(workspaceId, userId)]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) List(workspaceId string) ([]model.WorkspaceMember, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var members []model.WorkspaceMember
	for _, m := range r.store.members {
		if m.WorkspaceId == workspaceId {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if (members[i].Role == model.RoleOwner) != (members[j].Role == model.RoleOwner) {
			return members[i].Role == model.RoleOwner
		}
		return members[i].ID < members[j].ID
	})
	return members, nil
}

func (r *fakeMemberRepo) Create(member *model.WorkspaceMember) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := memberKey(member.WorkspaceId, member.UserId)
	if _, ok := r.store.members[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	member.ID = r.store.nextId()
	member.CreatedAt = time.Now()
	r.store.members[key] = member
	return nil
}

func (r *fakeMemberRepo) UpdateRole(workspaceId, userId string, role model.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.members[memberKey(workspaceId, userId)]; ok {
		m.Role = role
	}
	return nil
}

func (r *fakeMemberRepo) Remove(workspaceId, userId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.members, memberKey(workspaceId, userId))
	return nil
}

func (r *fakeMemberRepo) CountByRole(workspaceId string, role model.Role) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, m := range r.store.members {
		if m.WorkspaceId == workspaceId && m.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeInviteRepo struct{ store *fakeStore }

func (r *fakeInviteRepo) Create(invite *model.WorkspaceInvite) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.invites[invite.Token]; ok {
		return gorm.ErrDuplicatedKey
	}
	invite.ID = r.store.nextId()
	invite.CreatedAt = time.Now()
	r.store.invites[invite.Token] = invite
	return nil
}

func (r *fakeInviteRepo) GetByToken(token string) (*model.WorkspaceInvite, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if inv, ok := r.store.invites[token]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) GetById(workspaceId, inviteId string) (*model.WorkspaceInvite, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.invites {
		if inv.WorkspaceId == workspaceId && inv.InviteId == inviteId {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) ListPending(workspaceId string) ([]model.WorkspaceInvite, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var invites []model.WorkspaceInvite
	for _, inv := range r.store.invites {
		if inv.WorkspaceId == workspaceId && inv.AcceptedAt == nil {
			invites = append(invites, *inv)
		}
	}
	sort.Slice(invites, func(i, j int) bool { return invites[i].ID > invites[j].ID })
	return invites, nil
}

func (r *fakeInviteRepo) Delete(inviteId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for token, inv := range r.store.invites {
		if inv.InviteId == inviteId {
			delete(r.store.invites, token)
		}
	}
	return nil
}

func (r *fakeInviteRepo) Accept(token string, member *model.WorkspaceMember, now time.Time) (*model.WorkspaceInvite, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invites[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if inv.AcceptedAt != nil {
		return nil, repo.ErrInviteAccepted
	}
	if now.After(inv.ExpiresAt) {
		return nil, repo.ErrInviteExpired
	}
	key := memberKey(member.WorkspaceId, member.UserId)
	if _, exists := r.store.members[key]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	member.ID = r.store.nextId()
	member.CreatedAt = now
	r.store.members[key] = member
	accepted := now
	inv.AcceptedAt = &accepted
	if u, ok := r.store.users[member.UserId]; ok {
		u.ActiveWorkspaceId = member.WorkspaceId
	}
	cp := *inv
	return &cp, nil
}

type fakeAuditRepo struct{ store *fakeStore }

func (r *fakeAuditRepo) Create(entry *model.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry.ID = r.store.nextId()
	r.store.audits = append(r.store.audits, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByWorkspace(workspaceId string, limit int) ([]model.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.AuditLog
	for i := len(r.store.audits) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.audits[i].WorkspaceId == workspaceId {
			out = append(out, r.store.audits[i])
		}
	}
	return out, nil
}

// fakeMailer records invite deliveries on a buffered channel so tests
// can wait for the asynchronous send.
type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (m *fakeMailer) SendInvite(email, workspaceName, role, joinLink, inviterName string, expiresAt time.Time) error {
	m.sent <- email
	return nil
}

// testEnv wires every service against one shared fake store.
type testEnv struct {
	store       *fakeStore
	users       *fakeUserRepo
	workspaces  *fakeWorkspaceRepo
	members     *fakeMemberRepo
	invites     *fakeInviteRepo
	mailer      *fakeMailer
	membership  *MembershipService
	invitations *InvitationService
	permissions *PermissionService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	users := &fakeUserRepo{store: store}
	workspaces := &fakeWorkspaceRepo{store: store}
	members := &fakeMemberRepo{store: store}
	invites := &fakeInviteRepo{store: store}
	audit := NewAuditService(&fakeAuditRepo{store: store})
	mailer := newFakeMailer()
	return &testEnv{
		store:       store,
		users:       users,
		workspaces:  workspaces,
		members:     members,
		invites:     invites,
		mailer:      mailer,
		membership:  NewMembershipService(workspaces, members, users, audit),
		invitations: NewInvitationService(invites, members, workspaces, users, mailer, audit, "https://propel.example.com"),
		permissions: NewPermissionService(model.NewPermissionTable(), members, users),
	}
}
