package realtime

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const DefaultHighlightTTL = 5 * time.Second

// Enricher заполняет имя сотрудника и подразделение для новой строки
type Enricher interface {
	Enrich(ctx context.Context, row RequestRow) (RequestRow, error)
}

// Cache списки заявок по ключу фильтра
type Cache struct {
	mu        sync.Mutex
	entries   map[string][]RequestRow
	highlight *gocache.Cache
	enricher  Enricher
}

func NewCache(enricher Enricher, highlightTTL time.Duration) *Cache {
	if highlightTTL <= 0 {
		highlightTTL = DefaultHighlightTTL
	}
	return &Cache{
		entries:   map[string][]RequestRow{},
		highlight: gocache.New(highlightTTL, 2*highlightTTL),
		enricher:  enricher,
	}
}

// Set снимок списка после загрузки из базы
func (c *Cache) Set(filter FilterContext, rows []RequestRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]RequestRow, len(rows))
	copy(copied, rows)
	c.entries[filter.Key()] = copied
}

func (c *Cache) Rows(filter FilterContext) []RequestRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.entries[filter.Key()]
	result := make([]RequestRow, 0, len(rows))
	for _, row := range rows {
		row.Highlight = c.IsHighlighted(row.ID)
		result = append(result, row)
	}
	return result
}

// Insert новая заявка добавляется в начало списка, если видна в фильтре
func (c *Cache) Insert(ctx context.Context, filter FilterContext, row RequestRow) (RequestRow, bool) {
	if !filter.Allows(row.Category) || !row.VisibleFor(filter) {
		return row, false
	}
	if c.enricher != nil && row.CollaboratorName == "" {
		enriched, err := c.enricher.Enrich(ctx, row)
		if err != nil {
			log.
				WithError(err).
				WithField("request_id", row.ID).
				Warn("не удалось получить данные сотрудника для заявки")
		} else {
			row = enriched
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := filter.Key()
	rows := c.entries[key]
	if indexOf(rows, row.ID) >= 0 {
		return row, false
	}
	c.entries[key] = append([]RequestRow{row}, rows...)
	c.highlight.SetDefault(row.ID, true)
	row.Highlight = true
	return row, true
}

// Update изменение полей строки; заявки, которой нет в списке, пропускаются
func (c *Cache) Update(filter FilterContext, row RequestRow) (RequestRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := filter.Key()
	rows := c.entries[key]
	idx := indexOf(rows, row.ID)
	if idx < 0 {
		return row, false
	}
	merged := rows[idx].merge(row)
	rows[idx] = merged
	merged.Highlight = c.IsHighlighted(merged.ID)
	return merged, true
}

func (c *Cache) Delete(filter FilterContext, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := filter.Key()
	rows := c.entries[key]
	idx := indexOf(rows, id)
	if idx < 0 {
		return false
	}
	c.entries[key] = append(rows[:idx:idx], rows[idx+1:]...)
	return true
}

// IsHighlighted подсветка новой заявки, истекает сама
func (c *Cache) IsHighlighted(id string) bool {
	_, found := c.highlight.Get(id)
	return found
}

func indexOf(rows []RequestRow, id string) int {
	for idx, row := range rows {
		if row.ID == id {
			return idx
		}
	}
	return -1
}
