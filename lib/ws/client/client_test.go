package wsclient

import (
	"convenios-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	t.Run(`filter change check`, func(t *testing.T) {
		msg, err := parseClientMessage([]byte(`{"action":"filter","categories":["dental","salary_advance"]}`))
		require.NoError(t, err)
		require.Equal(t, []models.RequestCategory{models.CategoryDental, models.CategorySalaryAdvance}, msg.Categories)
	})
	t.Run(`empty category list check`, func(t *testing.T) {
		msg, err := parseClientMessage([]byte(`{"action":"filter"}`))
		require.NoError(t, err)
		require.Empty(t, msg.Categories)
	})
	t.Run(`unknown action check`, func(t *testing.T) {
		_, err := parseClientMessage([]byte(`{"action":"ping"}`))
		require.Error(t, err)
	})
	t.Run(`unknown category check`, func(t *testing.T) {
		_, err := parseClientMessage([]byte(`{"action":"filter","categories":["casino"]}`))
		require.Error(t, err)
	})
	t.Run(`not json check`, func(t *testing.T) {
		_, err := parseClientMessage([]byte(`filter`))
		require.Error(t, err)
	})
}
