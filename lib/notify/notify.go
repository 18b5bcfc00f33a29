package notify

import (
	"bytes"
	"context"
	"convenios-backend/models"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Message уведомление сотруднику о решении по заявке
type Message struct {
	Protocol string               `json:"protocol"`
	Status   models.RequestStatus `json:"status"`
	Phone    string               `json:"phone"`
	Reason   string               `json:"reason,omitempty"`
	Message  string               `json:"message,omitempty"`
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
	// SendAsync отправка в фоне, ошибки только логируются
	SendAsync(msg Message)
}

var Instance Provider

func NewHandler(url, token string, timeoutSec int) {
	Instance = NewInstance(url, token, time.Duration(timeoutSec)*time.Second)
}

func NewInstance(url, token string, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return impl{
		url:     url,
		token:   token,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type impl struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
}

func (i impl) getLogger(msg Message) *log.Entry {
	return log.
		WithField("protocol", msg.Protocol).
		WithField("status", msg.Status)
}

func (i impl) Send(ctx context.Context, msg Message) error {
	if msg.Message == "" {
		msg.Message = models.NotifyText(msg.Status, msg.Protocol)
	}
	if i.url == "" {
		i.getLogger(msg).Info("адрес шлюза уведомлений не настроен, уведомление не отправлено")
		return nil
	}
	if msg.Phone == "" {
		return errors.New("не указан телефон сотрудника")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "ошибка формирования запроса в шлюз уведомлений")
	}
	req.Header.Set("Content-Type", "application/json")
	if i.token != "" {
		req.Header.Set("Authorization", "Bearer "+i.token)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "ошибка отправки в шлюз уведомлений")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("шлюз уведомлений вернул статус %v", resp.StatusCode)
	}
	return nil
}

func (i impl) SendAsync(msg Message) {
	go func() {
		logger := i.getLogger(msg)
		defer func() {
			if r := recover(); r != nil {
				logger.
					WithField("panic_stack", string(debug.Stack())).
					Errorf("panic: (%v)", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), i.timeout)
		defer cancel()
		if err := i.Send(ctx, msg); err != nil {
			logger.WithError(err).Warn("уведомление сотруднику не отправлено")
			return
		}
		logger.Info("уведомление сотруднику отправлено")
	}()
}
