package realtime

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// ChangeEvent изменение заявки из канала уведомлений базы
type ChangeEvent struct {
	Op  Op         `json:"op"`
	Row RequestRow `json:"row"`
}

func DecodeEvent(payload string) (ChangeEvent, error) {
	event := ChangeEvent{}
	err := json.Unmarshal([]byte(payload), &event)
	if err != nil {
		return event, errors.Wrap(err, "некорректное событие изменения заявки")
	}
	switch event.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return event, errors.Errorf("неизвестная операция: %v", event.Op)
	}
	if event.Row.ID == "" {
		return event, errors.New("в событии нет идентификатора заявки")
	}
	return event, nil
}

// Apply применяет событие к списку фильтра, false - список не изменился
func (c *Cache) Apply(ctx context.Context, filter FilterContext, event ChangeEvent) (RequestRow, bool) {
	switch event.Op {
	case OpInsert:
		return c.Insert(ctx, filter, event.Row)
	case OpUpdate:
		return c.Update(filter, event.Row)
	case OpDelete:
		return event.Row, c.Delete(filter, event.Row.ID)
	}
	return event.Row, false
}
