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

package middleware

import (
	"encoding/json"

	"github.com/go-propel/propel/internal/engine/service"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

// WorkspaceGuard authorizes the authenticated user against the declared
// requirement before the handler runs. The workspace is resolved from
// the path param, then the query argument, then the request body, then
// the user's active workspace. On success the grant is stored in
// c.Locals("grant") so handlers never re-resolve it.
func WorkspaceGuard(permService *service.PermissionService, req service.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := UserIdFromCtx(c)
		if userId == "" {
			metrics.GuardRejectTotal.WithLabelValues("unauthenticated").Inc()
			return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
		}

		ref := service.WorkspaceRef{
			Param: c.Params("workspaceId"),
			Query: c.Query("workspaceId"),
			Body:  workspaceIdFromBody(c),
		}

		grant, err := permService.Authorize(userId, ref, req)
		if err != nil {
			switch {
			case service.IsForbidden(err):
				metrics.GuardRejectTotal.WithLabelValues("forbidden").Inc()
				return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, err.Error(), c.Path())
			case service.IsInvalidState(err):
				metrics.GuardRejectTotal.WithLabelValues("no_workspace").Inc()
				return httpx.WithRepErrMsg(c, httpx.WorkspaceIdIsEmpty.Code, err.Error(), c.Path())
			}
			metrics.GuardRejectTotal.WithLabelValues("error").Inc()
			return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
		}

		c.Locals("grant", grant)
		c.Locals("workspaceId", grant.WorkspaceId)
		c.Locals("workspaceRole", grant.Role)
		return c.Next()
	}
}

// GrantFromCtx returns the authorization result set by WorkspaceGuard.
func GrantFromCtx(c *fiber.Ctx) *service.Grant {
	if grant, ok := c.Locals("grant").(*service.Grant); ok {
		return grant
	}
	return nil
}

// workspaceIdFromBody peeks at the json body for a workspaceId field
// without consuming it. Malformed bodies resolve to empty, the handler
// reports them later.
func workspaceIdFromBody(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}
	var probe struct {
		WorkspaceId string `json:"workspaceId"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.WorkspaceId
}
