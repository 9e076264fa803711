package auth

import (
	"context"
	"encoding/json"

	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	UserFinder UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	u, err := h.UserFinder.FindByEmailAndPassword(input.Email, input.Password)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.BadRequest(c, err.Error())
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Unauthorized(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   u.UserID.String(),
		Fullname: u.Fullname,
		Email:    u.Email,
		Role:     u.Role,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", SessionUserShape{
		UserID:   u.UserID.String(),
		Fullname: u.Fullname,
		Email:    u.Email,
		Role:     u.Role,
	}, nil)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}
	return response.Success(c, "Authenticated", user, nil)
}

// DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.DestroySession(c)
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.Success(c, "Logged out", nil, nil)
}
