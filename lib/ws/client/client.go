package wsclient

import (
	connectionhub "convenios-backend/lib/ws/hub/connection-hub"
	wsmodels "convenios-backend/models/ws"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func NewClient(sessionID string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:      c,
		sessionID: sessionID,
	}
}

type WsClient struct {
	conn      *websocket.Conn
	sessionID string
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

func (c *WsClient) Dispatch() {
	logger := log.WithField("session_id", c.sessionID)
	for {
		if c.conn == nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				logger.WithError(err).Error("ошибка получения сообщения")
			}
			break
		}
		msg, err := parseClientMessage(data)
		if err != nil {
			logger.WithError(err).Warn("некорректное сообщение клиента")
			continue
		}
		if !connectionhub.Instance.SetFilter(c.sessionID, msg.Categories) {
			return
		}
	}
}

func parseClientMessage(data []byte) (wsmodels.ClientMessage, error) {
	msg := wsmodels.ClientMessage{}
	err := json.Unmarshal(data, &msg)
	if err != nil {
		return msg, errors.Wrap(err, "ошибка разбора сообщения")
	}
	if msg.Action != wsmodels.FilterAction {
		return msg, errors.Errorf("неизвестное действие: %v", msg.Action)
	}
	for _, category := range msg.Categories {
		if !category.IsValid() {
			return msg, errors.Errorf("неизвестная категория: %v", category)
		}
	}
	return msg, nil
}
