// Copyright 2025 Propel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/go-propel/propel/internal/engine/model"
	"github.com/go-propel/propel/internal/engine/service"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) inviteRouter(r fiber.Router, auth fiber.Handler) {
	guard := func(req service.Requirement) fiber.Handler {
		return middleware.WorkspaceGuard(rt.Services.Permission, req)
	}

	inviteGroup := r.Group("/invites", auth)
	{
		inviteGroup.Post("/", guard(service.Require(model.PermInviteCreate)), rt.createInvite)
		// token-addressed, no guard: the invite itself authorizes the join
		inviteGroup.Post("/accept", rt.acceptInvite)
		inviteGroup.Post("/accept/:token", rt.acceptInvite)
	}

	wsInvites := r.Group("/workspaces/:workspaceId/invites", auth)
	{
		wsInvites.Get("/", guard(service.Require(model.PermInviteView)), rt.listInvites)
		wsInvites.Delete("/:inviteId", guard(service.Require(model.PermInviteCancel)), rt.cancelInvite)
	}
}

func (rt *Router) createInvite(c *fiber.Ctx) error {
	var req model.InviteReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if grant := middleware.GrantFromCtx(c); grant != nil {
		req.WorkspaceId = grant.WorkspaceId
	}

	resp, err := rt.Services.Invitation.Invite(middleware.UserIdFromCtx(c), &req)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) acceptInvite(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		var req struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&req); err != nil {
			return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
		}
		token = req.Token
	}
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invite token is required", c.Path())
	}

	resp, err := rt.Services.Invitation.AcceptInvite(token, middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) listInvites(c *fiber.Ctx) error {
	invites, err := rt.Services.Invitation.ListInvites(c.Params("workspaceId"), middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, invites)
	return nil
}

func (rt *Router) cancelInvite(c *fiber.Ctx) error {
	err := rt.Services.Invitation.CancelInvite(
		c.Params("workspaceId"), c.Params("inviteId"), middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}
