package fiberlog

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagStatus, TagPath, TagBody, TagUserID},
	}))
	app.Post("/ok", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	app.Get("/bad", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusBadRequest)
	})
	app.Get("/fail", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "boom")
	})
	do := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	t.Run(`success is info with body check`, func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, do("POST", "/ok", `{"a":1}`))
		entry := hook.LastEntry()
		require.Equal(t, logrus.InfoLevel, entry.Level)
		require.Equal(t, "/ok", entry.Data[TagPath])
		require.Equal(t, `{"a":1}`, entry.Data[TagBody])
		require.NotContains(t, entry.Data, TagUserID)
	})
	t.Run(`client error is warn check`, func(t *testing.T) {
		require.Equal(t, fiber.StatusBadRequest, do("GET", "/bad", ""))
		require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})
	t.Run(`returned error is logged with final status check`, func(t *testing.T) {
		require.Equal(t, fiber.StatusInternalServerError, do("GET", "/fail", ""))
		entry := hook.LastEntry()
		require.Equal(t, logrus.ErrorLevel, entry.Level)
		require.Equal(t, fiber.StatusInternalServerError, entry.Data[TagStatus])
	})
	t.Run(`preflight skipped check`, func(t *testing.T) {
		hook.Reset()
		do("OPTIONS", "/ok", "")
		require.Nil(t, hook.LastEntry())
	})
	t.Run(`long body truncated check`, func(t *testing.T) {
		do("POST", "/ok", strings.Repeat("x", bodyLimitLogged+10))
		body, _ := hook.LastEntry().Data[TagBody].(string)
		require.True(t, strings.HasSuffix(body, "..."))
		require.Len(t, body, bodyLimitLogged+3)
	})
}
