package wsmodels

import (
	"convenios-backend/models"
)

type MessageCode string

const (
	SnapshotCode        MessageCode = "snapshot"
	RequestInsertedCode MessageCode = "request_inserted"
	RequestUpdatedCode  MessageCode = "request_updated"
	RequestDeletedCode  MessageCode = "request_deleted"
	ErrorCode           MessageCode = "error"
)

const TimeFormat = "02.01.2006 15:04:05"

type ServerMessage struct {
	Time string      `json:"time"`           // время события
	Code MessageCode `json:"code"`           // код события
	Msg  string      `json:"msg,omitempty"`  // текст ошибки
	Data any         `json:"data,omitempty"` // строка заявки или снимок списка
}

type SnapshotData struct {
	Categories []models.RequestCategory `json:"categories"`
	Rows       any                      `json:"rows"`
}

type DeletedData struct {
	ID string `json:"id"`
}

const FilterAction = "filter"

// ClientMessage {"action":"filter","categories":[...]}
type ClientMessage struct {
	Action     string                   `json:"action"`
	Categories []models.RequestCategory `json:"categories"`
}
