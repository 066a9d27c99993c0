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

func (rt *Router) workspaceRouter(r fiber.Router, auth fiber.Handler) {
	guard := func(req service.Requirement) fiber.Handler {
		return middleware.WorkspaceGuard(rt.Services.Permission, req)
	}

	wsGroup := r.Group("/workspaces", auth)
	{
		wsGroup.Post("/", rt.createWorkspace)
		wsGroup.Get("/", rt.listWorkspaces)
		wsGroup.Post("/active", rt.setActiveWorkspace)

		// read paths skip the guard so absence and non-membership stay
		// indistinguishable to the caller
		wsGroup.Get("/:workspaceId", rt.getWorkspace)
		wsGroup.Get("/:workspaceId/members", rt.listMembers)

		wsGroup.Put("/:workspaceId/name", guard(service.Require(model.PermWorkspaceManage)), rt.renameWorkspace)
		wsGroup.Delete("/:workspaceId", guard(service.Require(model.PermWorkspaceDelete)), rt.deleteWorkspace)

		wsGroup.Put("/:workspaceId/members/:userId", guard(service.Require(model.PermMemberManage)), rt.updateMemberRole)
		wsGroup.Delete("/:workspaceId/members/:userId", guard(service.Require(model.PermMemberRemove)), rt.removeMember)

		wsGroup.Get("/:workspaceId/audit", guard(service.Require(model.PermMemberManage)), rt.listAudit)
	}
}

func (rt *Router) createWorkspace(c *fiber.Ctx) error {
	var req model.CreateWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Services.Membership.CreateWorkspace(middleware.UserIdFromCtx(c), &req)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) listWorkspaces(c *fiber.Ctx) error {
	items, err := rt.Services.Membership.ListWorkspaces(middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, items)
	return nil
}

func (rt *Router) getWorkspace(c *fiber.Ctx) error {
	resp, err := rt.Services.Membership.GetWorkspace(c.Params("workspaceId"), middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) setActiveWorkspace(c *fiber.Ctx) error {
	var req model.SetActiveWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.WorkspaceId == "" {
		return httpx.WithRepErrMsg(c, httpx.WorkspaceIdIsEmpty.Code, httpx.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Membership.SetActiveWorkspace(middleware.UserIdFromCtx(c), req.WorkspaceId); err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) renameWorkspace(c *fiber.Ctx) error {
	var req model.RenameWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.Services.Membership.RenameWorkspace(c.Params("workspaceId"), middleware.UserIdFromCtx(c), &req); err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) deleteWorkspace(c *fiber.Ctx) error {
	if err := rt.Services.Membership.DeleteWorkspace(c.Params("workspaceId"), middleware.UserIdFromCtx(c)); err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	members, err := rt.Services.Membership.ListMembers(c.Params("workspaceId"), middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, members)
	return nil
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	var req model.UpdateMemberRoleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	err := rt.Services.Membership.UpdateMemberRole(
		c.Params("workspaceId"), c.Params("userId"), middleware.UserIdFromCtx(c), req.Role)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	err := rt.Services.Membership.RemoveMember(
		c.Params("workspaceId"), c.Params("userId"), middleware.UserIdFromCtx(c))
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) listAudit(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	entries, err := rt.Services.Audit.ListByWorkspace(c.Params("workspaceId"), limit)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, entries)
	return nil
}
