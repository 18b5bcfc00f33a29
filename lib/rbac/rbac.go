package rbac

import (
	"convenios-backend/models"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type Provider interface {
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
	// GetCategories категории заявок, доступные роли
	GetCategories(role models.UserRole) []models.RequestCategory
}

var Instance Provider

func NewHandler() {
	i := &impl{
		tables:      map[HTTPMethod]*routeTable{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
		categories:  defaultCategoryMatrix(),
	}
	i.initRules()
	Instance = i
}

type impl struct {
	tables      map[HTTPMethod]*routeTable
	permissions map[models.UserRole]map[models.Module][]models.Permission
	categories  map[models.UserRole][]models.RequestCategory
}

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	table, ok := i.tables[HTTPMethod(strings.ToUpper(method))]
	if !ok {
		return nil, false
	}
	return table.match(normalizePath(path))
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	if len(roles) == 0 && handler == nil {
		return errors.Errorf("для правила %v не указаны роли", swaggerPattern)
	}
	i.addPermission(module, permission, roles)

	if handler == nil {
		handler = AllowByRoleFunc(roles)
	}
	table, ok := i.tables[method]
	if !ok {
		table = newRouteTable()
		i.tables[method] = table
	}
	table.add(path, handler)
	return nil
}

// mustRegister правила задаются в коде, ошибка в шаблоне - ошибка сборки правил
func (i *impl) mustRegister(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern, nil); err != nil {
		panic(err.Error())
	}
}

// addPermission права по модулям для фронта
func (i *impl) addPermission(module models.Module, permission models.Permission, roles []models.UserRole) {
	for _, role := range roles {
		modules, ok := i.permissions[role]
		if !ok {
			modules = map[models.Module][]models.Permission{}
			i.permissions[role] = modules
		}
		if !slices.Contains(modules[module], permission) {
			modules[module] = append(modules[module], permission)
		}
	}
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := make(map[models.Module][]models.Permission, len(i.permissions[role]))
	for module, permissions := range i.permissions[role] {
		sorted := slices.Clone(permissions)
		slices.Sort(sorted)
		result[module] = sorted
	}
	return result
}

func (i *impl) GetCategories(role models.UserRole) []models.RequestCategory {
	return slices.Clone(i.categories[role])
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(userID string, role models.UserRole, uri string) bool {
		return allowMap[role]
	}
}

var pathParamRegex = regexp.MustCompile(`\{[^}]+?\}`)

// pathToRegex nil для пути без параметров
func pathToRegex(path string) *regexp.Regexp {
	if !strings.Contains(path, "{") && !strings.Contains(path, "*") {
		return nil
	}
	pattern := regexp.QuoteMeta(path)
	pattern = strings.ReplaceAll(pattern, `\{`, "{")
	pattern = strings.ReplaceAll(pattern, `\}`, "}")
	pattern = pathParamRegex.ReplaceAllString(pattern, `([^/]+)`)
	pattern = strings.ReplaceAll(pattern, `\*`, `.*?`)

	regex, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil
	}
	return regex
}

// парсит строку в формате "/api/v1/requests/{id} [get]"
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd <= bracketStart {
		return "", "", errors.Errorf("Method not provided for pattern (%v)", pattern)
	}
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd])))
	path = normalizePath(strings.TrimSpace(pattern[:bracketStart]))
	return path, method, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
