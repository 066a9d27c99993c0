package middleware

import (
	"context"
	"errors"
	"strings"

	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/http/jwt"
	"github.com/go-propel/propel/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// AuthorizationMiddleware verifies the bearer token and requires the
// session to still exist in redis, so logout invalidates tokens before
// their jwt expiry. The parsed claims land in c.Locals("claims").
func AuthorizationMiddleware(auth httpx.Auth, client *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return httpx.WithRepErrMsg(c, httpx.TokenBeEmpty.Code, httpx.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(header, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return httpx.WithRepErrMsg(c, httpx.TokenFormatIncorrect.Code, httpx.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], auth.SecretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return httpx.WithRepErrMsg(c, httpx.TokenExpired.Code, httpx.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
		}

		tokenKey := auth.RedisKeyPrefix + claims.UserId
		exists, err := client.Exists(context.Background(), tokenKey).Result()
		if err != nil {
			log.Errorf("redis check token failed: %v", err)
			return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
		}
		if exists == 0 {
			return httpx.WithRepErrMsg(c, httpx.TokenExpired.Code, httpx.TokenExpired.Msg, c.Path())
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// UserIdFromCtx returns the authenticated user id, empty when the
// request skipped the authorization middleware.
func UserIdFromCtx(c *fiber.Ctx) string {
	if claims, ok := c.Locals("claims").(*jwt.AuthClaims); ok {
		return claims.UserId
	}
	return ""
}
