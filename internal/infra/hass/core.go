package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/update"
)

// CoreConfig GET /api/config 的子集
type CoreConfig struct {
	Version      string   `json:"version"`
	LocationName string   `json:"location_name"`
	Language     string   `json:"language"`
	Components   []string `json:"components"`
}

// LoadConfig 讀取 Core 配置並緩存已加載組件
func (c *Client) LoadConfig(ctx context.Context) (*CoreConfig, error) {
	var cfg CoreConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}

	components := make(map[string]struct{}, len(cfg.Components))
	for _, name := range cfg.Components {
		components[name] = struct{}{}
	}

	c.mu.Lock()
	c.components = components
	c.mu.Unlock()

	c.logger.Info("core config loaded",
		zap.String("version", cfg.Version),
		zap.Int("components", len(cfg.Components)),
	)
	return &cfg, nil
}

// IsComponentLoaded 基於最近一次 LoadConfig 的結果
// 未加載過配置時返回 false
func (c *Client) IsComponentLoaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.components[name]
	return ok
}

// CallService POST /api/services/{domain}/{service}
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	return c.do(ctx, http.MethodPost, path, data, nil)
}

// UpdateSnapshot 通過 GET /api/states 構建 update 實體快照
func (c *Client) UpdateSnapshot(ctx context.Context) (*update.Snapshot, error) {
	var raws []rawState
	if err := c.do(ctx, http.MethodGet, "/api/states", nil, &raws); err != nil {
		return nil, err
	}
	return snapshotFromStates(raws, c.logger), nil
}

// rawState 狀態機中任意實體；屬性延遲解析，避免其他域的屬性類型干擾
type rawState struct {
	EntityID   string          `json:"entity_id"`
	State      string          `json:"state"`
	Attributes json.RawMessage `json:"attributes"`
}

func isUpdateEntity(entityID string) bool {
	return strings.HasPrefix(entityID, update.Domain+".") && len(entityID) > len(update.Domain)+1
}

func (r rawState) toEntity() (update.Entity, error) {
	e := update.Entity{EntityID: r.EntityID, State: r.State}
	if len(r.Attributes) > 0 {
		if err := json.Unmarshal(r.Attributes, &e.Attributes); err != nil {
			return e, fmt.Errorf("解析 %s 屬性失敗: %w", r.EntityID, err)
		}
	}
	return e, nil
}

func snapshotFromStates(raws []rawState, log *zap.Logger) *update.Snapshot {
	entities := make([]update.Entity, 0, 16)
	for _, r := range raws {
		if !isUpdateEntity(r.EntityID) {
			continue
		}
		e, err := r.toEntity()
		if err != nil {
			log.Warn("skip malformed update entity", zap.String("entity_id", r.EntityID), zap.Error(err))
			continue
		}
		entities = append(entities, e)
	}
	return update.NewSnapshot(entities...)
}
