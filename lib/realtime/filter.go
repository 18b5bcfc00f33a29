package realtime

import (
	"convenios-backend/models"
	"sort"
	"strings"
	"sync/atomic"
)

// FilterContext категории и роль, по которым сессия видит заявки
type FilterContext struct {
	Categories []models.RequestCategory
	Role       models.UserRole
}

// NewFilterContext категории без повторов и в фиксированном порядке, чтобы одинаковые фильтры давали один ключ
func NewFilterContext(role models.UserRole, categories []models.RequestCategory) FilterContext {
	seen := map[models.RequestCategory]struct{}{}
	normalized := make([]models.RequestCategory, 0, len(categories))
	for _, category := range categories {
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		normalized = append(normalized, category)
	}
	sort.Slice(normalized, func(a, b int) bool {
		return normalized[a] < normalized[b]
	})
	return FilterContext{
		Categories: normalized,
		Role:       role,
	}
}

func (f FilterContext) Key() string {
	parts := make([]string, 0, len(f.Categories))
	for _, category := range f.Categories {
		parts = append(parts, string(category))
	}
	return string(f.Role) + ":" + strings.Join(parts, ",")
}

func (f FilterContext) Allows(category models.RequestCategory) bool {
	for _, item := range f.Categories {
		if item == category {
			return true
		}
	}
	return false
}

// FilterRef текущий фильтр сессии, читается в момент обработки события
type FilterRef struct {
	ptr atomic.Pointer[FilterContext]
}

func NewFilterRef(filter FilterContext) *FilterRef {
	ref := &FilterRef{}
	ref.Store(filter)
	return ref
}

func (r *FilterRef) Load() FilterContext {
	filter := r.ptr.Load()
	if filter == nil {
		return FilterContext{}
	}
	return *filter
}

func (r *FilterRef) Store(filter FilterContext) {
	r.ptr.Store(&filter)
}
