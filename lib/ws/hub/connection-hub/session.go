package connectionhub

import (
	"context"
	"convenios-backend/lib/realtime"
	"convenios-backend/lib/realtime/feed"
	"convenios-backend/models"
	wsmodels "convenios-backend/models/ws"
	"runtime/debug"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	sendBuffer         = 64
	staleCheckInterval = time.Second
)

// Conn часть websocket соединения, нужная сессии
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// clientSession события по заявкам и смены фильтра обрабатываются одной горутиной по очереди
type clientSession struct {
	id      string
	userID  string
	role    models.UserRole
	allowed []models.RequestCategory

	conn    Conn
	filter  *realtime.FilterRef
	cache   *realtime.Cache
	fetcher realtime.Fetcher
	events  feed.Provider
	sub     *feed.Subscription

	// Outbound mesages, buffered.
	sendCh    chan wsmodels.ServerMessage
	controlCh chan []models.RequestCategory
	stop      func()
	done      chan struct{}
}

func (s *clientSession) getLogger() *log.Entry {
	return log.
		WithField("session_id", s.id).
		WithField("user_id", s.userID)
}

func (s *clientSession) start(ctx context.Context) {
	ctx, cancelFn := context.WithCancel(ctx)
	s.stop = cancelFn
	s.sub = s.events.Subscribe()
	go s.startSend(ctx)
	go s.run(ctx)
}

func (s *clientSession) run(ctx context.Context) {
	logger := s.getLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
		s.events.Unsubscribe(s.sub)
		close(s.done)
	}()
	s.refetch(ctx)
	ticker := time.NewTicker(staleCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case categories := <-s.controlCh:
			s.applyFilter(ctx, categories)
		case <-ticker.C:
			if s.sub.TakeStale() {
				s.refetch(ctx)
			}
		case event, opened := <-s.sub.Events():
			if !opened {
				return
			}
			s.handleEvent(ctx, event)
		}
	}
}

// setFilter false - сессия уже остановлена
func (s *clientSession) setFilter(categories []models.RequestCategory) bool {
	select {
	case s.controlCh <- categories:
		return true
	case <-s.done:
		return false
	}
}

func (s *clientSession) handleEvent(ctx context.Context, event realtime.ChangeEvent) {
	if s.sub.TakeStale() {
		s.refetch(ctx)
		return
	}
	filter := s.filter.Load()
	row, changed := s.cache.Apply(ctx, filter, event)
	if !changed {
		return
	}
	switch event.Op {
	case realtime.OpInsert:
		s.push(ctx, wsmodels.RequestInsertedCode, row)
	case realtime.OpUpdate:
		s.push(ctx, wsmodels.RequestUpdatedCode, row)
	case realtime.OpDelete:
		s.push(ctx, wsmodels.RequestDeletedCode, wsmodels.DeletedData{ID: row.ID})
	}
}

func (s *clientSession) applyFilter(ctx context.Context, requested []models.RequestCategory) {
	s.filter.Store(realtime.NewFilterContext(s.role, allowedOnly(s.allowed, requested)))
	s.refetch(ctx)
}

func (s *clientSession) refetch(ctx context.Context) {
	filter := s.filter.Load()
	rows, err := s.fetcher.Fetch(ctx, filter)
	if err != nil {
		s.getLogger().WithError(err).Error("ошибка загрузки списка заявок")
		s.pushError(ctx, "не удалось загрузить список заявок")
		return
	}
	s.cache.Set(filter, rows)
	s.push(ctx, wsmodels.SnapshotCode, wsmodels.SnapshotData{
		Categories: filter.Categories,
		Rows:       s.cache.Rows(filter),
	})
}

func (s *clientSession) push(ctx context.Context, code wsmodels.MessageCode, data any) {
	msg := wsmodels.ServerMessage{
		Time: time.Now().Format(wsmodels.TimeFormat),
		Code: code,
		Data: data,
	}
	select {
	case s.sendCh <- msg:
	case <-ctx.Done():
	}
}

func (s *clientSession) pushError(ctx context.Context, text string) {
	select {
	case s.sendCh <- wsmodels.ServerMessage{Time: time.Now().Format(wsmodels.TimeFormat), Code: wsmodels.ErrorCode, Msg: text}:
	case <-ctx.Done():
	}
}

func (s *clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case msg := <-s.sendCh:
			err := s.conn.WriteJSON(msg)
			if err != nil {
				s.getLogger().WithError(err).Error("ошибка отправки сообщения")
				s.stop()
				return
			}
		}
	}
}

func (s *clientSession) close() {
	if s.conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Millisecond))
	if err != nil {
		s.getLogger().WithError(err).Debug("cant close")
	}
}

// allowedOnly пустой запрос означает все разрешенные категории
func allowedOnly(allowed, requested []models.RequestCategory) []models.RequestCategory {
	if len(requested) == 0 {
		return allowed
	}
	result := make([]models.RequestCategory, 0, len(requested))
	for _, category := range requested {
		for _, item := range allowed {
			if item == category {
				result = append(result, category)
				break
			}
		}
	}
	return result
}
