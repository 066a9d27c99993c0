package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/service"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubMemberRepo struct {
	members map[string]model.Role // "workspaceId|userId" -> role
}

func (r *stubMemberRepo) Get(workspaceId, userId string) (*model.WorkspaceMember, error) {
	if role, ok := r.members[workspaceId+"|"+userId]; ok {
		return &model.WorkspaceMember{WorkspaceId: workspaceId, UserId: userId, Role: role}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMemberRepo) List(string) ([]model.WorkspaceMember, error)  { return nil, nil }
func (r *stubMemberRepo) Create(*model.WorkspaceMember) error           { return nil }
func (r *stubMemberRepo) UpdateRole(string, string, model.Role) error   { return nil }
func (r *stubMemberRepo) Remove(string, string) error                   { return nil }
func (r *stubMemberRepo) CountByRole(string, model.Role) (int64, error) { return 0, nil }

type stubUserRepo struct {
	active map[string]string // userId -> active workspace
}

func (r *stubUserRepo) GetByUserId(userId string) (*model.User, error) {
	if ws, ok := r.active[userId]; ok {
		return &model.User{UserId: userId, ActiveWorkspaceId: ws}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(*model.User) error                  { return nil }
func (r *stubUserRepo) GetByEmail(string) (*model.User, error)    { return nil, gorm.ErrRecordNotFound }
func (r *stubUserRepo) GetByUsername(string) (*model.User, error) { return nil, gorm.ErrRecordNotFound }
func (r *stubUserRepo) SetActiveWorkspace(string, string) error   { return nil }
func (r *stubUserRepo) SetToken(string, string, httpx.Auth) (string, error) {
	return "", nil
}
func (r *stubUserRepo) GetToken(string) (string, error) { return "", nil }
func (r *stubUserRepo) DelToken(string) error           { return nil }

func newGuardTestApp(permService *service.PermissionService, req service.Requirement, userId string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userId != "" {
			c.Locals("claims", &jwt.AuthClaims{UserId: userId})
		}
		return c.Next()
	})
	handler := func(c *fiber.Ctx) error {
		grant := GrantFromCtx(c)
		return c.JSON(fiber.Map{"workspaceId": grant.WorkspaceId, "role": grant.Role})
	}
	app.Get("/workspaces/:workspaceId/members", WorkspaceGuard(permService, req), handler)
	app.Post("/proposals", WorkspaceGuard(permService, req), handler)
	return app
}

func newGuardPermService(members map[string]model.Role, active map[string]string) *service.PermissionService {
	return service.NewPermissionService(
		model.NewPermissionTable(),
		&stubMemberRepo{members: members},
		&stubUserRepo{active: active},
	)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestWorkspaceGuardAllows(t *testing.T) {
	permService := newGuardPermService(map[string]model.Role{"w-1|u-1": model.RoleAdmin}, nil)
	app := newGuardTestApp(permService, service.Require(model.PermMemberManage), "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workspaces/w-1/members", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, "w-1", body["workspaceId"])
	assert.Equal(t, "admin", body["role"])
}

func TestWorkspaceGuardRejectsMissingPermission(t *testing.T) {
	permService := newGuardPermService(map[string]model.Role{"w-1|u-1": model.RoleViewer}, nil)
	app := newGuardTestApp(permService, service.Require(model.PermMemberManage), "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workspaces/w-1/members", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(4031), body["code"])
	assert.Contains(t, body["errMsg"], "member:manage")
}

func TestWorkspaceGuardRejectsNonMember(t *testing.T) {
	permService := newGuardPermService(map[string]model.Role{}, nil)
	app := newGuardTestApp(permService, service.MembershipOnly(), "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workspaces/w-1/members", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(4031), body["code"])
}

func TestWorkspaceGuardRejectsUnauthenticated(t *testing.T) {
	permService := newGuardPermService(map[string]model.Role{"w-1|u-1": model.RoleAdmin}, nil)
	app := newGuardTestApp(permService, service.MembershipOnly(), "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workspaces/w-1/members", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(4401), body["code"])
}

func TestWorkspaceGuardBodyResolution(t *testing.T) {
	permService := newGuardPermService(map[string]model.Role{"w-2|u-1": model.RoleMember}, nil)
	app := newGuardTestApp(permService, service.Require(model.PermProposalCreate), "u-1")

	req := httptest.NewRequest(http.MethodPost, "/proposals", strings.NewReader(`{"workspaceId":"w-2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, "w-2", body["workspaceId"])
}

func TestWorkspaceGuardActiveWorkspaceFallback(t *testing.T) {
	permService := newGuardPermService(
		map[string]model.Role{"w-3|u-1": model.RoleMember},
		map[string]string{"u-1": "w-3"},
	)
	app := newGuardTestApp(permService, service.MembershipOnly(), "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/proposals", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, "w-3", body["workspaceId"])
}

func TestWorkspaceGuardNoWorkspaceAnywhere(t *testing.T) {
	permService := newGuardPermService(nil, map[string]string{"u-1": ""})
	app := newGuardTestApp(permService, service.MembershipOnly(), "u-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/proposals", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(5002), body["code"])
}
