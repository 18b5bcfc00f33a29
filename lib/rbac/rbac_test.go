package rbac

import (
	"convenios-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/requests/{id}/approve [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r1 := pathToRegex(path)

		require.True(t, r1.MatchString("/api/v1/requests/123-321/approve"))
		require.False(t, r1.MatchString("/api/v1/requests/approve"))

		path, method, err = parseSwaggerPattern("/api/v1/settlement/runs/{id}/xlsx [get]")
		require.Nil(t, err)
		require.Equal(t, GET, method)
		r2 := pathToRegex(path)
		require.True(t, r2.MatchString("/api/v1/settlement/runs/qwe-ewr123-wr-12/xlsx"))
		require.False(t, r2.MatchString("/api/v1/settlement/runs/xlsx"))
	})
	t.Run(`pattern without method check`, func(t *testing.T) {
		_, _, err := parseSwaggerPattern("/api/v1/requests")
		require.Error(t, err)
	})
	t.Run(`register errors check`, func(t *testing.T) {
		i := &impl{tables: map[HTTPMethod]*routeTable{}, permissions: map[models.UserRole]map[models.Module][]models.Permission{}}
		require.Error(t, i.RegisterRule(models.SlaModule, models.ViewPermission, AllRoles, "/api/v1/sla/config", nil))
		require.Error(t, i.RegisterRule(models.SlaModule, models.ViewPermission, nil, "/api/v1/sla/config [get]", nil))
		require.NoError(t, i.RegisterRule(models.SlaModule, models.ViewPermission, AdminRoleSet, "/api/v1/sla/config [get]", nil))
		require.Panics(t, func() { i.mustRegister(models.SlaModule, models.ViewPermission, AdminRoleSet, "bad") })
	})
	t.Run(`path without params is exact check`, func(t *testing.T) {
		require.Nil(t, pathToRegex("/api/v1/requests/list"))
	})
	t.Run(`normalizePath check`, func(t *testing.T) {
		require.Equal(t, "/api/v1/requests", normalizePath("api//v1/requests/"))
		require.Equal(t, "/", normalizePath(""))
	})
}

func TestRules(t *testing.T) {
	NewHandler()
	check := func(method, path string, role models.UserRole) bool {
		handler, found := Instance.GetRuleFunc(method, path)
		require.True(t, found, "%v %v", method, path)
		return handler("user-1", role, path)
	}
	t.Run(`hr decision only for hr approver check`, func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/requests/r1/hr_decision", models.HrApproverRole))
		require.False(t, check("PUT", "/api/v1/requests/r1/hr_decision", models.ReviewerRole))
		require.False(t, check("PUT", "/api/v1/requests/r1/hr_decision", models.AdminRole))
	})
	t.Run(`approval for primary reviewers check`, func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/requests/r1/approve", models.ReviewerRole))
		require.False(t, check("PUT", "/api/v1/requests/r1/approve", models.HrApproverRole))
		require.False(t, check("PUT", "/api/v1/requests/r1/approve", models.ViewerRole))
	})
	t.Run(`settlement and collaborator delete admin only check`, func(t *testing.T) {
		require.True(t, check("POST", "/api/v1/settlement/run", models.AdminRole))
		require.False(t, check("POST", "/api/v1/settlement/run", models.ReviewerRole))
		require.False(t, check("DELETE", "/api/v1/collaborators/c1", models.ReviewerRole))
	})
	t.Run(`exact path wins over pattern check`, func(t *testing.T) {
		require.True(t, check("POST", "/api/v1/requests/list", models.ViewerRole))
		require.False(t, check("POST", "/api/v1/collaborators/import", models.ReviewerRole))
	})
	t.Run(`unknown path check`, func(t *testing.T) {
		_, found := Instance.GetRuleFunc("GET", "/api/v1/unknown")
		require.False(t, found)
	})
	t.Run(`frontend permissions check`, func(t *testing.T) {
		permissions := Instance.GetPermissions(models.HrApproverRole)
		require.Contains(t, permissions[models.RequestsModule], models.HrFlowPermission)
		require.NotContains(t, permissions[models.RequestsModule], models.FlowPermission)
		require.Empty(t, permissions[models.SettlementModule])
		require.Contains(t, permissions[models.ProfileModule], models.ViewPermission)
	})
	t.Run(`categories by role check`, func(t *testing.T) {
		require.Equal(t, []models.RequestCategory{models.CategorySalaryAdvance}, Instance.GetCategories(models.HrApproverRole))
		require.Len(t, Instance.GetCategories(models.ReviewerRole), len(models.AllCategories()))
		require.Empty(t, Instance.GetCategories(models.UserRole("UNKNOWN")))
	})
}
