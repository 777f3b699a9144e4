package hass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// fakeHA 模擬 Home Assistant WebSocket API 的最小子集
type fakeHA struct {
	t        *testing.T
	upgrader websocket.Upgrader
	conns    atomic.Int32
	// afterSync 在初始同步後執行，返回 false 時關閉連接
	afterSync func(conn *websocket.Conn, n int32) bool
}

func (f *fakeHA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/websocket" {
		http.NotFound(w, r)
		return
	}
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	n := f.conns.Add(1)

	_ = conn.WriteJSON(map[string]any{"type": "auth_required", "ha_version": "2024.10.1"})

	var auth map[string]any
	if err := conn.ReadJSON(&auth); err != nil {
		return
	}
	if auth["type"] != "auth" || auth["access_token"] != testToken {
		_ = conn.WriteJSON(map[string]any{"type": "auth_invalid", "message": "Invalid access token or password"})
		return
	}
	_ = conn.WriteJSON(map[string]any{"type": "auth_ok", "ha_version": "2024.10.1"})

	for i := 0; i < 2; i++ {
		var cmd map[string]any
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd["type"] {
		case "subscribe_events":
			_ = conn.WriteJSON(map[string]any{"id": cmd["id"], "type": "result", "success": true, "result": nil})
		case "get_states":
			_ = conn.WriteJSON(map[string]any{"id": cmd["id"], "type": "result", "success": true, "result": []map[string]any{
				stateJSON("update.home_assistant_core_update", "on", "Home Assistant Core"),
				{"entity_id": "light.kitchen", "state": "on", "attributes": map[string]any{}},
			}})
		}
	}

	if f.afterSync != nil && !f.afterSync(conn, n) {
		return
	}

	// 保持連接直到客戶端斷開
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func stateJSON(id, state, title string) map[string]any {
	return map[string]any{
		"entity_id": id,
		"state":     state,
		"attributes": map[string]any{
			"title":              title,
			"installed_version":  "1.0.0",
			"latest_version":     "1.1.0",
			"supported_features": 1,
		},
	}
}

func stateChanged(id string, newState any) map[string]any {
	return map[string]any{
		"id":   1,
		"type": "event",
		"event": map[string]any{
			"event_type": "state_changed",
			"data": map[string]any{
				"entity_id": id,
				"new_state": newState,
			},
		},
	}
}

func startStream(t *testing.T, srv *httptest.Server, token string) (<-chan StreamEvent, <-chan error, context.CancelFunc) {
	t.Helper()
	c, err := NewClient(ClientOptions{URL: srv.URL, Token: token}, zap.NewNop())
	require.NoError(t, err)

	s := NewStream(c, StreamOptions{
		MinRetry:     10 * time.Millisecond,
		MaxRetry:     50 * time.Millisecond,
		PingInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan StreamEvent, 32)
	result := make(chan error, 1)
	go func() {
		result <- s.Run(ctx, func(ev StreamEvent) { events <- ev })
	}()
	t.Cleanup(cancel)
	return events, result, cancel
}

func nextSnapshot(t *testing.T, events <-chan StreamEvent) *update.Snapshot {
	t.Helper()
	for {
		select {
		case ev := <-events:
			if ev.Snapshot != nil {
				assert.True(t, ev.Connected)
				return ev.Snapshot
			}
		case <-time.After(5 * time.Second):
			t.Fatal("等待快照超時")
			return nil
		}
	}
}

func TestStream_SyncAndEvents(t *testing.T) {
	ha := &fakeHA{t: t}
	ha.afterSync = func(conn *websocket.Conn, n int32) bool {
		_ = conn.WriteJSON(stateChanged("light.kitchen", map[string]any{"entity_id": "light.kitchen", "state": "off"}))
		_ = conn.WriteJSON(stateChanged("update.zigbee", stateJSON("update.zigbee", "on", "Zigbee")))
		_ = conn.WriteJSON(stateChanged("update.home_assistant_core_update", nil))
		return true
	}
	srv := httptest.NewServer(ha)
	defer srv.Close()

	events, result, cancel := startStream(t, srv, testToken)

	snap := nextSnapshot(t, events)
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Get("update.home_assistant_core_update")
	assert.True(t, ok)

	// 非 update 實體的事件不產生新快照
	snap2 := nextSnapshot(t, events)
	assert.Equal(t, 2, snap2.Len())
	_, ok = snap2.Get("update.zigbee")
	assert.True(t, ok)
	assert.Equal(t, 1, snap.Len(), "舊快照保持不變")

	snap3 := nextSnapshot(t, events)
	assert.Equal(t, 1, snap3.Len())
	_, ok = snap3.Get("update.home_assistant_core_update")
	assert.False(t, ok)

	cancel()
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run 未在取消後退出")
	}
}

func TestStream_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(&fakeHA{t: t})
	defer srv.Close()

	events, result, _ := startStream(t, srv, "wrong-token")

	select {
	case err := <-result:
		assert.ErrorIs(t, err, errors.ErrUnauthorized)
	case <-time.After(5 * time.Second):
		t.Fatal("令牌錯誤時應停止重連")
	}

	ev := <-events
	assert.False(t, ev.Connected)
	assert.ErrorIs(t, ev.Err, errors.ErrUnauthorized)
}

func TestStream_Reconnect(t *testing.T) {
	ha := &fakeHA{t: t}
	// 第一個連接同步後立即斷開
	ha.afterSync = func(conn *websocket.Conn, n int32) bool { return n > 1 }
	srv := httptest.NewServer(ha)
	defer srv.Close()

	events, _, _ := startStream(t, srv, testToken)

	first := nextSnapshot(t, events)
	second := nextSnapshot(t, events)
	assert.Equal(t, first.Len(), second.Len())
	assert.NotSame(t, first, second, "重連後應重新同步")
	assert.GreaterOrEqual(t, ha.conns.Load(), int32(2))
}

func TestApplyStateChanged(t *testing.T) {
	base := update.NewSnapshot(update.Entity{EntityID: "update.a", State: "on"})
	log := zap.NewNop()

	ev := &wsEvent{EventType: eventStateChanged}
	ev.Data.EntityID = "sensor.x"
	next, changed := applyStateChanged(base, ev, log)
	assert.False(t, changed)
	assert.Same(t, base, next)

	// 刪除不存在的實體不產生新快照
	ev.Data.EntityID = "update.missing"
	next, changed = applyStateChanged(base, ev, log)
	assert.False(t, changed)
	assert.Same(t, base, next)

	ev.Data.EntityID = "update.a"
	ev.Data.NewState = &rawState{EntityID: "update.a", State: "off", Attributes: []byte(`{"skipped_version":"2.0"}`)}
	next, changed = applyStateChanged(base, ev, log)
	assert.True(t, changed)
	e, _ := next.Get("update.a")
	assert.True(t, e.Skipped())
}
