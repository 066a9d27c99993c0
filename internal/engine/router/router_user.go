package router

import (
	"github.com/go-propel/propel/internal/engine/model"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user")
	{
		userGroup.Post("/register", rt.register)
		userGroup.Post("/login", rt.login)

		userGroup.Post("/logout", auth, rt.logout)
		userGroup.Get("/getUserInfo", auth, rt.getUserInfo)
	}
}

func (rt *Router) register(c *fiber.Ctx) error {
	var register model.Register
	if err := c.BodyParser(&register); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.Services.User.Register(&register); err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) login(c *fiber.Ctx) error {
	var login model.Login
	if err := c.BodyParser(&login); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Services.User.Login(&login, rt.Http.Auth)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	userId := middleware.UserIdFromCtx(c)
	if err := rt.Services.User.Logout(userId, rt.Http.Auth); err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.OPERATION, true)
	return nil
}

func (rt *Router) getUserInfo(c *fiber.Ctx) error {
	userId := middleware.UserIdFromCtx(c)
	info, err := rt.Services.User.GetUserById(userId)
	if err != nil {
		return replyErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}
