package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TagPid          = "pid"
	TagIP           = "ip"
	TagHost         = "host"
	TagMethod       = "method"
	TagPath         = "path"
	TagRoute        = "route"
	TagQuery        = "query"
	TagUA           = "ua"
	TagLatency      = "latency"
	TagStatus       = "status"
	TagBody         = "body"
	TagResBody      = "resBody"
	TagBytesSent    = "bytesSent"
	TagBytesRecv    = "bytesReceived"
	TagUserID       = "user_id"
	RequestID       = "requestid"
	bodyLimitLogged = 2048
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagHost: func(c *fiber.Ctx, d *data) interface{} {
			return c.Hostname()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagRoute: func(c *fiber.Ctx, d *data) interface{} {
			return c.Route().Path
		},
		TagQuery: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Request().URI().QueryString())
		},
		TagUA: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if !isTextual(string(c.Request().Header.ContentType())) {
				return ""
			}
			return truncate(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if !isTextual(string(c.Response().Header.ContentType())) {
				return ""
			}
			return truncate(c.Response().Body())
		},
		TagBytesSent: func(c *fiber.Ctx, d *data) interface{} {
			return len(c.Response().Body())
		},
		TagBytesRecv: func(c *fiber.Ctx, d *data) interface{} {
			return len(c.Request().Body())
		},
		TagUserID: func(c *fiber.Ctx, d *data) interface{} {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok || token == nil {
				return ""
			}
			sub, _ := token.Claims.GetSubject()
			return sub
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func isTextual(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) ||
		strings.HasPrefix(contentType, "text/")
}

func truncate(body []byte) string {
	if len(body) > bodyLimitLogged {
		return string(body[:bodyLimitLogged]) + "..."
	}
	return string(body)
}
