package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

// ErrNotify пересылает ответы 5xx на addr (чат дежурных)
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		body := c.Response().Body()
		if unmErr := json.Unmarshal(body, &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		payload := errNotifyPayload{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		if payload.Error == "" {
			payload.Error = string(body)
		}

		go func() {
			raw, marshalErr := json.Marshal(payload)
			if marshalErr != nil {
				return
			}
			resp, reqErr := client.Post(addr, "application/json", bytes.NewReader(raw))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			resp.Body.Close()
		}()
		return err
	}
}
