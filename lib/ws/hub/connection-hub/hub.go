package connectionhub

import (
	"context"
	"convenios-backend/db"
	requeststore "convenios-backend/lib/benefit-request/store"
	collaboratorstore "convenios-backend/lib/collaborator/store"
	"convenios-backend/lib/rbac"
	"convenios-backend/lib/realtime"
	"convenios-backend/lib/realtime/feed"
	"convenios-backend/models"
	wsmodels "convenios-backend/models/ws"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Provider interface {
	AddClient(userID string, role models.UserRole, conn Conn) (sessionID string)
	DeleteClient(sessionID string)
	SetFilter(sessionID string, categories []models.RequestCategory) bool
	IsConnected(sessionID string) bool
}

var Instance Provider

type Source interface {
	realtime.Fetcher
	realtime.Enricher
}

func Init(highlightTTL time.Duration) {
	source := realtime.NewStoreSource(requeststore.NewInstance(db.DB), collaboratorstore.NewInstance(db.DB))
	Instance = NewInstance(source, feed.Instance, rbac.Instance.GetCategories, highlightTTL)
}

func NewInstance(source Source, events feed.Provider, categories func(role models.UserRole) []models.RequestCategory, highlightTTL time.Duration) Provider {
	return &impl{
		clients:      map[string]*clientSession{},
		source:       source,
		events:       events,
		categories:   categories,
		highlightTTL: highlightTTL,
	}
}

type impl struct {
	mu           sync.RWMutex
	clients      map[string]*clientSession //map[sessionID]
	source       Source
	events       feed.Provider
	categories   func(role models.UserRole) []models.RequestCategory
	highlightTTL time.Duration
}

func (i *impl) AddClient(userID string, role models.UserRole, conn Conn) string {
	allowed := i.categories(role)
	sess := &clientSession{
		id:        uuid.New().String(),
		userID:    userID,
		role:      role,
		allowed:   allowed,
		conn:      conn,
		filter:    realtime.NewFilterRef(realtime.NewFilterContext(role, allowed)),
		cache:     realtime.NewCache(i.source, i.highlightTTL),
		fetcher:   i.source,
		events:    i.events,
		sendCh:    make(chan wsmodels.ServerMessage, sendBuffer),
		controlCh: make(chan []models.RequestCategory),
		done:      make(chan struct{}),
	}
	i.mu.Lock()
	i.clients[sess.id] = sess
	i.mu.Unlock()
	sess.start(context.Background())
	return sess.id
}

func (i *impl) DeleteClient(sessionID string) {
	i.mu.Lock()
	sess, ok := i.clients[sessionID]
	if ok {
		delete(i.clients, sessionID)
	}
	i.mu.Unlock()
	if !ok {
		return
	}
	sess.stop()
	<-sess.done
}

func (i *impl) SetFilter(sessionID string, categories []models.RequestCategory) bool {
	i.mu.RLock()
	sess, ok := i.clients[sessionID]
	i.mu.RUnlock()
	if !ok {
		return false
	}
	return sess.setFilter(categories)
}

func (i *impl) IsConnected(sessionID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[sessionID]
	if !ok {
		return false
	}
	select {
	case <-sess.done:
		return false
	default:
		return true
	}
}
