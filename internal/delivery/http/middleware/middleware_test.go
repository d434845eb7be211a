package middleware

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth map[string]int64

func (a tokenAuth) Authorize(token string) (int64, error) {
	if id, ok := a[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := map[string]struct {
		tok string
		ok  bool
	}{
		"Bearer abc":   {"abc", true},
		"bearer  abc ": {"abc", true},
		"Basic abc":    {"", false},
		"Bearer ":      {"", false},
		"":             {"", false},
	}
	for in, want := range cases {
		tok, ok := bearerTokenFromHeader(in)
		assert.Equal(t, want.ok, ok, in)
		if want.ok {
			assert.Equal(t, want.tok, tok, in)
		}
	}
}

func newApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	logger := log.New(io.Discard, "", 0)
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Get("/x", h, func(c fiber.Ctx) error {
		id, _ := AdminID(c)
		return c.JSON(fiber.Map{"admin_id": id})
	})
	app.Get("/panic", func(c fiber.Ctx) error { panic("boom") })
	app.Get("/internal", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "secret detail", nil, errors.New("db"))
	})
	return app
}

func TestAuthMiddleware_HeaderOnly(t *testing.T) {
	app := newApp(NewAuthMiddleware(tokenAuth{"t1": 7}).Middleware())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer t1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/x?token=t1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorMiddleware_HidesInternals(t *testing.T) {
	app := newApp(func(c fiber.Ctx) error { return c.Next() })

	for _, path := range []string{"/panic", "/internal"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(HeaderRequestID, "rid-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, "rid-1", resp.Header.Get(HeaderRequestID))

		body, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(body), "secret", path)
	}
}
