package rbac

import (
	"convenios-backend/models"
	"regexp"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	PATCH  HTTPMethod = "PATCH"
)

// routeTable правила одного HTTP метода: сначала точные пути, затем шаблоны с параметрами
type routeTable struct {
	exact    map[string]models.RbacFunc
	patterns []patternRule
}

type patternRule struct {
	source  string
	pattern *regexp.Regexp
	handler models.RbacFunc
}

func newRouteTable() *routeTable {
	return &routeTable{
		exact: map[string]models.RbacFunc{},
	}
}

func (t *routeTable) add(path string, handler models.RbacFunc) {
	pattern := pathToRegex(path)
	if pattern == nil {
		t.exact[path] = handler
		return
	}
	for k, rule := range t.patterns {
		if rule.source == path {
			t.patterns[k].handler = handler
			return
		}
	}
	t.patterns = append(t.patterns, patternRule{
		source:  path,
		pattern: pattern,
		handler: handler,
	})
}

func (t *routeTable) match(path string) (models.RbacFunc, bool) {
	if handler, ok := t.exact[path]; ok {
		return handler, true
	}
	for _, rule := range t.patterns {
		if rule.pattern.MatchString(path) {
			return rule.handler, true
		}
	}
	return nil, false
}
