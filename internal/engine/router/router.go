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
	"time"

	"github.com/go-propel/propel/internal/engine/service"
	"github.com/go-propel/propel/pkg/ctx"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/middleware"
	"github.com/go-propel/propel/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	Http     *httpx.Http
	Ctx      *ctx.Context
	Rdb      *redis.Client
	Services *service.Services
}

func NewRouter(httpConf *httpx.Http, appCtx *ctx.Context, rdb *redis.Client, services *service.Services) *Router {
	return &Router{
		Http:     httpConf,
		Ctx:      appCtx,
		Rdb:      rdb,
		Services: services,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "propel",
		BodyLimit:    rt.Http.BodyLimit * 1024 * 1024,
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.RequestMiddleware())
	app.Use(middleware.AccessLogMiddleware(rt.Http))
	app.Use(middleware.MetricsMiddleware())
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	{
		auth := middleware.AuthorizationMiddleware(rt.Http.Auth, rt.Rdb)

		rt.userRouter(api, auth)
		rt.workspaceRouter(api, auth)
		rt.inviteRouter(api, auth)
	}

	return app
}

// replyErr maps service error kinds onto the response code table.
func replyErr(c *fiber.Ctx, err error) error {
	switch {
	case service.IsNotFound(err):
		return httpx.WithRepErrMsg(c, httpx.NotFound.Code, err.Error(), c.Path())
	case service.IsForbidden(err):
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, err.Error(), c.Path())
	case service.IsInvalidState(err):
		return httpx.WithRepErrMsg(c, httpx.InvalidState.Code, err.Error(), c.Path())
	default:
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
}
