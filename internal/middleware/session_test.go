package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	handler, rdb, err := Session(SessionConfig{
		Secret:   "test-secret",
		RedisURL: "redis://" + mr.Addr(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	app := fiber.New()
	app.Use(handler)
	return app, mr
}

func TestSession_NoCookie_NoUser(t *testing.T) {
	app, _ := setupSessionApp(t)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return c.SendString("anonymous")
		}
		return c.SendString("authenticated")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSession_LoadsUserFromRedis(t *testing.T) {
	app, mr := setupSessionApp(t)
	userID := uuid.New().String()

	sid := uuid.New().String()
	data, _ := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{
			"user_id": userID,
			"role":    "trader",
		},
	})
	require.NoError(t, mr.Set("session:"+sid, string(data)))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor, ok := ActorID(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(actor.String())
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuth(t *testing.T) {
	app, _ := setupSessionApp(t)
	app.Get("/secure", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	roleApp := func(role string) *fiber.App {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", map[string]interface{}{
				"user_id": uuid.New().String(),
				"role":    role,
			})
			return c.Next()
		})
		app.Patch("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	resp, err := roleApp("trader").Test(httptest.NewRequest("PATCH", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = roleApp("admin").Test(httptest.NewRequest("PATCH", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestActorID_BadValues(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": "not-a-uuid"})
		return c.Next()
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if _, ok := ActorID(c); !ok {
			return c.SendStatus(fiber.StatusForbidden)
		}
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSession_PersistsAfterWrite(t *testing.T) {
	app, mr := setupSessionApp(t)
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: uuid.New().String(), Role: "trader"})
		return c.SendString(sid)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	b, err := mr.Get(keys[0])
	require.NoError(t, err)

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(b), &stored))
	_, hasUser := stored["user"]
	assert.True(t, hasUser)
}
