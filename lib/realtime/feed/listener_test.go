package feed

import (
	"convenios-backend/lib/realtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	t.Run(`event reaches all subscribers check`, func(t *testing.T) {
		listener := NewListener("", "changes", time.Second)
		first := listener.Subscribe()
		second := listener.Subscribe()
		listener.Publish(realtime.ChangeEvent{Op: realtime.OpInsert, Row: realtime.RequestRow{ID: "r1"}})

		require.Equal(t, "r1", (<-first.Events()).Row.ID)
		require.Equal(t, "r1", (<-second.Events()).Row.ID)
	})
	t.Run(`unsubscribe closes channel check`, func(t *testing.T) {
		listener := NewListener("", "changes", time.Second)
		sub := listener.Subscribe()
		listener.Unsubscribe(sub)
		listener.Unsubscribe(sub)
		_, opened := <-sub.Events()
		require.False(t, opened)
		listener.Publish(realtime.ChangeEvent{Op: realtime.OpDelete, Row: realtime.RequestRow{ID: "r1"}})
	})
	t.Run(`buffer overflow marks subscriber check`, func(t *testing.T) {
		listener := NewListener("", "changes", time.Second)
		sub := listener.Subscribe()
		for idx := 0; idx < subscriberBuffer+1; idx++ {
			listener.Publish(realtime.ChangeEvent{Op: realtime.OpUpdate, Row: realtime.RequestRow{ID: "r1"}})
		}
		require.True(t, sub.TakeStale())
		require.False(t, sub.TakeStale())
		require.Len(t, sub.Events(), subscriberBuffer)
	})
	t.Run(`connection loss marks all check`, func(t *testing.T) {
		listener := NewListener("", "changes", time.Second)
		sub := listener.Subscribe()
		listener.markAllStale()
		require.True(t, sub.TakeStale())
	})
}
