package hass

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/supervisor"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
)

// Supervisor 接口經 Core 的 /api/hassio 代理訪問
const supervisorPrefix = "/api/hassio"

// supervisorEnvelope {"result":"ok","data":{...}} / {"result":"error","message":"..."}
type supervisorEnvelope struct {
	Result  string          `json:"result"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) supervisorCall(ctx context.Context, method, path string, body, out any) error {
	full := supervisorPrefix + path

	var env supervisorEnvelope
	if err := c.do(ctx, method, full, body, &env); err != nil {
		return err
	}
	if env.Result == "error" {
		return &errors.APIError{
			Method:  method,
			Path:    full,
			Status:  http.StatusOK,
			Message: env.Message,
		}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// FetchSupervisorInfo GET /supervisor/info
func (c *Client) FetchSupervisorInfo(ctx context.Context) (*supervisor.Info, error) {
	var info supervisor.Info
	if err := c.supervisorCall(ctx, http.MethodGet, "/supervisor/info", nil, &info); err != nil {
		return nil, err
	}
	c.logger.Debug("supervisor info",
		zap.String("channel", info.Channel.String()),
		zap.String("version", info.Version),
	)
	return &info, nil
}

// SetSupervisorOption POST /supervisor/options
func (c *Client) SetSupervisorOption(ctx context.Context, opts supervisor.Options) error {
	return c.supervisorCall(ctx, http.MethodPost, "/supervisor/options", opts, nil)
}

// ReloadSupervisor POST /supervisor/reload
func (c *Client) ReloadSupervisor(ctx context.Context) error {
	return c.supervisorCall(ctx, http.MethodPost, "/supervisor/reload", nil, nil)
}

// RefreshSupervisorUpdates POST /refresh_updates
func (c *Client) RefreshSupervisorUpdates(ctx context.Context) error {
	return c.supervisorCall(ctx, http.MethodPost, "/refresh_updates", nil, nil)
}
