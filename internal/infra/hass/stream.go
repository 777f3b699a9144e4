package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/update"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/logger"
	"github.com/Yat-Muk/hassup/internal/pkg/version"
)

const (
	msgAuthRequired = "auth_required"
	msgAuth         = "auth"
	msgAuthOK       = "auth_ok"
	msgAuthInvalid  = "auth_invalid"
	msgResult       = "result"
	msgEvent        = "event"
	msgPing         = "ping"
	msgPong         = "pong"

	eventStateChanged = "state_changed"
)

// StreamEvent 狀態流推送給調用方的事件
type StreamEvent struct {
	// Snapshot 非 nil 時為最新的 update 實體快照
	Snapshot *update.Snapshot
	// Connected 當前連接狀態
	Connected bool
	// Err 斷開原因
	Err error
}

// StreamOptions 重連與心跳參數
type StreamOptions struct {
	MinRetry     time.Duration
	MaxRetry     time.Duration
	PingInterval time.Duration
	// ReadTimeout 超過此時間未收到任何幀視為斷開
	ReadTimeout time.Duration
}

func (o StreamOptions) withDefaults() StreamOptions {
	if o.MinRetry <= 0 {
		o.MinRetry = 500 * time.Millisecond
	}
	if o.MaxRetry <= 0 {
		o.MaxRetry = 30 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 3 * o.PingInterval
	}
	return o
}

// Stream 通過 WebSocket 訂閱 state_changed，維護 update 實體快照
type Stream struct {
	url    string
	token  string
	dialer *websocket.Dialer
	opts   StreamOptions
	logger *zap.Logger
	frames logger.SafeLogger
}

// NewStream 復用 REST 客戶端的地址、令牌與 TLS 配置
func NewStream(c *Client, opts StreamOptions) *Stream {
	dialer := &websocket.Dialer{
		ReadBufferSize:   16 << 10,
		WriteBufferSize:  4 << 10,
		HandshakeTimeout: 15 * time.Second,
		Proxy:            http.ProxyFromEnvironment,
	}
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		dialer.TLSClientConfig = t.TLSClientConfig
	}

	return &Stream{
		url:    websocketURL(c.baseURL),
		token:  c.token,
		dialer: dialer,
		opts:   opts.withDefaults(),
		logger: c.logger.Named("stream"),
		frames: logger.NewSafeLogger(c.logger.Named("frames")),
	}
}

// websocketURL http(s)://host/path -> ws(s)://host/path/api/websocket
// add-on 內的 supervisor 代理地址為 /core/websocket
func websocketURL(base *url.URL) string {
	u := *base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	path := strings.TrimRight(u.Path, "/")
	if u.Host == "supervisor" && strings.HasSuffix(path, "/core") {
		u.Path = path + "/websocket"
	} else {
		u.Path = path + "/api/websocket"
	}
	return u.String()
}

// Run 阻塞直到 ctx 取消或令牌被拒絕；其他錯誤按退避重連
func (s *Stream) Run(ctx context.Context, emit func(StreamEvent)) error {
	b := &backoff.Backoff{
		Min:    s.opts.MinRetry,
		Max:    s.opts.MaxRetry,
		Factor: 2,
		Jitter: true,
	}

	for {
		connected, err := s.session(ctx, emit)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			b.Reset()
		}

		emit(StreamEvent{Connected: false, Err: err})
		if errors.Is(err, errors.ErrUnauthorized) {
			return err
		}

		d := b.Duration()
		s.logger.Warn("state stream disconnected",
			logger.SanitizedError(err),
			zap.Float64("attempt", b.Attempt()),
			zap.Duration("retry_in", d),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d):
		}
	}
}

// wsMessage 只解析用到的字段
type wsMessage struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Event   *wsEvent        `json:"event,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	HAVersion string `json:"ha_version,omitempty"`
}

type wsEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string    `json:"entity_id"`
		NewState *rawState `json:"new_state"`
	} `json:"data"`
}

// session 單次連接；返回是否曾完成初始同步
func (s *Stream) session(ctx context.Context, emit func(StreamEvent)) (bool, error) {
	s.logger.Info("connecting state stream", logger.SanitizedURL("url", s.url))

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return false, fmt.Errorf("%w: websocket handshake %d", errors.ErrUnauthorized, resp.StatusCode)
		}
		return false, fmt.Errorf("撥號失敗: %w", err)
	}

	sess := &wsSession{conn: conn, stream: s}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	if err := sess.authenticate(); err != nil {
		return false, err
	}

	subID := sess.send(map[string]any{"type": "subscribe_events", "event_type": eventStateChanged})
	statesID := sess.send(map[string]any{"type": "get_states"})
	if sess.err != nil {
		return false, sess.err
	}

	go sess.keepAlive(done)

	var snap *update.Snapshot
	for {
		m, err := sess.read()
		if err != nil {
			return snap != nil, err
		}

		switch m.Type {
		case msgResult:
			if m.Success != nil && !*m.Success {
				msg := ""
				if m.Error != nil {
					msg = m.Error.Message
				}
				return snap != nil, fmt.Errorf("請求 %d 失敗: %s", m.ID, msg)
			}
			if m.ID == statesID {
				var raws []rawState
				if err := json.Unmarshal(m.Result, &raws); err != nil {
					return false, fmt.Errorf("解析 get_states 失敗: %w", err)
				}
				snap = snapshotFromStates(raws, s.logger)
				s.logger.Info("state stream synchronised", zap.Int("update_entities", snap.Len()))
				emit(StreamEvent{Snapshot: snap, Connected: true})
			} else if m.ID == subID {
				s.logger.Debug("subscribed", zap.String("event_type", eventStateChanged))
			}

		case msgEvent:
			if snap == nil || m.Event == nil || m.Event.EventType != eventStateChanged {
				continue
			}
			next, changed := applyStateChanged(snap, m.Event, s.logger)
			if changed {
				snap = next
				emit(StreamEvent{Snapshot: snap, Connected: true})
			}

		case msgPong:
		}
	}
}

// applyStateChanged 基於舊快照生成新快照
func applyStateChanged(snap *update.Snapshot, ev *wsEvent, log *zap.Logger) (*update.Snapshot, bool) {
	id := ev.Data.EntityID
	if !isUpdateEntity(id) {
		return snap, false
	}
	if ev.Data.NewState == nil {
		next := snap.Without(id)
		return next, next != snap
	}
	e, err := ev.Data.NewState.toEntity()
	if err != nil {
		log.Warn("skip malformed update entity", zap.String("entity_id", id), zap.Error(err))
		return snap, false
	}
	e.EntityID = id
	return snap.With(e), true
}

type wsSession struct {
	conn   *websocket.Conn
	stream *Stream

	writeMu sync.Mutex
	nextID  int
	err     error
}

func (w *wsSession) write(v any) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.conn.WriteJSON(v)
}

// send 分配遞增 ID 並發送命令；錯誤保存在 w.err
func (w *wsSession) send(cmd map[string]any) int {
	if w.err != nil {
		return 0
	}
	w.writeMu.Lock()
	w.nextID++
	id := w.nextID
	w.writeMu.Unlock()

	cmd["id"] = id
	if err := w.write(cmd); err != nil {
		w.err = fmt.Errorf("發送 %v 失敗: %w", cmd["type"], err)
	}
	return id
}

func (w *wsSession) read() (*wsMessage, error) {
	_ = w.conn.SetReadDeadline(time.Now().Add(w.stream.opts.ReadTimeout))
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	w.stream.frames.Debugw("frame received", "size", len(data), "frame", truncate(string(data), 512))

	var m wsMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析消息失敗: %w", err)
	}
	return &m, nil
}

func (w *wsSession) authenticate() error {
	m, err := w.read()
	if err != nil {
		return fmt.Errorf("等待 auth_required 失敗: %w", err)
	}
	if m.Type != msgAuthRequired {
		return fmt.Errorf("意外的握手消息: %s", m.Type)
	}

	if err := w.write(map[string]string{"type": msgAuth, "access_token": w.stream.token}); err != nil {
		return fmt.Errorf("發送認證失敗: %w", err)
	}

	m, err = w.read()
	if err != nil {
		return fmt.Errorf("等待認證結果失敗: %w", err)
	}
	switch m.Type {
	case msgAuthOK:
		w.stream.logger.Info("state stream authenticated", zap.String("ha_version", m.HAVersion))
		return nil
	case msgAuthInvalid:
		return fmt.Errorf("%w: %s", errors.ErrUnauthorized, m.Message)
	default:
		return fmt.Errorf("意外的認證響應: %s", m.Type)
	}
}

// keepAlive 定期發送 ping，寫失敗時關閉連接讓讀循環退出
func (w *wsSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(w.stream.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.writeMu.Lock()
			w.nextID++
			id := w.nextID
			w.writeMu.Unlock()
			if err := w.write(map[string]any{"id": id, "type": msgPing}); err != nil {
				w.conn.Close()
				return
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
