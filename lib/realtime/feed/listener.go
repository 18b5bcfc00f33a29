package feed

import (
	"context"
	"convenios-backend/lib/realtime"
	"convenios-backend/lib/utils/helpers"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 256

// Subscription события для одного получателя; при переполнении буфера выставляется Stale
type Subscription struct {
	id     int64
	events chan realtime.ChangeEvent
	stale  atomic.Bool
}

func (s *Subscription) Events() <-chan realtime.ChangeEvent {
	return s.events
}

// TakeStale были ли потеряны события с прошлой проверки
func (s *Subscription) TakeStale() bool {
	return s.stale.Swap(false)
}

type Provider interface {
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)
	Run(ctx context.Context)
}

var Instance Provider

func NewHandler(connString, channel string, reconnectDelay time.Duration) {
	Instance = NewListener(connString, channel, reconnectDelay)
}

// Listener слушает канал уведомлений Postgres и раздает события подписчикам
type Listener struct {
	connString     string
	channel        string
	reconnectDelay time.Duration

	mu     sync.RWMutex
	subs   map[int64]*Subscription
	nextID atomic.Int64
}

func NewListener(connString, channel string, reconnectDelay time.Duration) *Listener {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &Listener{
		connString:     connString,
		channel:        channel,
		reconnectDelay: reconnectDelay,
		subs:           map[int64]*Subscription{},
	}
}

func (l *Listener) getLogger() *log.Entry {
	return log.WithField("channel", l.channel)
}

func (l *Listener) Subscribe() *Subscription {
	sub := &Subscription{
		id:     l.nextID.Add(1),
		events: make(chan realtime.ChangeEvent, subscriberBuffer),
	}
	l.mu.Lock()
	l.subs[sub.id] = sub
	l.mu.Unlock()
	return sub
}

func (l *Listener) Unsubscribe(sub *Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subs[sub.id]; !ok {
		return
	}
	delete(l.subs, sub.id)
	close(sub.events)
}

// Publish раздача события без блокировки на медленных подписчиках
func (l *Listener) Publish(event realtime.ChangeEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.subs {
		select {
		case sub.events <- event:
		default:
			sub.stale.Store(true)
		}
	}
}

// Run слушает до отмены контекста, при потере соединения переподключается
func (l *Listener) Run(ctx context.Context) {
	logger := l.getLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	for {
		err := l.listen(ctx)
		if helpers.IsContextDone(ctx) {
			logger.Info("прослушивание изменений заявок остановлено")
			return
		}
		logger.WithError(err).Warn("соединение для прослушивания изменений заявок потеряно")
		l.markAllStale()
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	logger := l.getLogger()
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return errors.Wrap(err, "ошибка подключения к базе")
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize())
	if err != nil {
		return errors.Wrap(err, "ошибка подписки на канал")
	}
	logger.Info("прослушивание изменений заявок запущено")
	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		event, err := realtime.DecodeEvent(notification.Payload)
		if err != nil {
			logger.WithError(err).Warn("пропущено событие изменения заявки")
			continue
		}
		l.Publish(event)
	}
}

// markAllStale события за время переподключения потеряны, подписчикам нужно перечитать списки
func (l *Listener) markAllStale() {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.subs {
		sub.stale.Store(true)
	}
}
