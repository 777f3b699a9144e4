// Package hass 通過 REST 與 WebSocket API 訪問 Home Assistant
package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/pkg/appctx"
	"github.com/Yat-Muk/hassup/internal/pkg/errors"
	"github.com/Yat-Muk/hassup/internal/pkg/logger"
	"github.com/Yat-Muk/hassup/internal/pkg/tlsconfig"
	"github.com/Yat-Muk/hassup/internal/pkg/version"
)

const (
	maxResponseSize = 32 << 20 // /api/states 在大型實例上可達數 MB
	maxErrorBody    = 4 << 10
)

// ClientOptions 連接參數
type ClientOptions struct {
	URL                string
	Token              string
	CAFile             string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Client Home Assistant REST 客戶端
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *zap.Logger

	mu         sync.RWMutex
	components map[string]struct{}
}

// NewClient 創建客戶端，不發起任何請求
func NewClient(opts ClientOptions, log *zap.Logger) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.ErrNoServerURL
	}
	if opts.Token == "" {
		return nil, errors.ErrNoToken
	}

	base, err := url.Parse(strings.TrimRight(opts.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("解析服務器地址失敗: %w", err)
	}

	tlsCfg, err := tlsconfig.ClientConfig(tlsconfig.ClientOptions{
		CAFile:             opts.CAFile,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var transport *http.Transport
	if def, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = def.Clone()
	} else {
		transport = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}
	transport.TLSClientConfig = tlsCfg

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		token:   opts.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: log.Named("hass"),
	}, nil
}

// BaseURL 服務器地址
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// HTTPClient 供 WebSocket 撥號復用 TLS 配置
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do 發送請求；body 為 nil 時不帶請求體，out 為 nil 時丟棄響應
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化請求失敗: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("創建請求失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
	}
	if id := appctx.FlowID(ctx); id != "" {
		fields = append(fields, zap.String("flow_id", id))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", append(fields, logger.SanitizedError(err))...)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", append(fields,
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)...)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("讀取響應失敗: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: 解析響應失敗: %w", method, path, err)
	}
	return nil
}

// newAPIError Core 與 Supervisor 的錯誤響應都帶 message 字段
func newAPIError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &errors.APIError{
		Method: method,
		Path:   path,
		Status: resp.StatusCode,
		Body:   string(raw),
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		apiErr.Message = parsed.Message
	}
	return apiErr
}

// Ping 校驗地址與令牌 (GET /api/)
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/", nil, &out); err != nil {
		return err
	}
	c.logger.Debug("api reachable",
		logger.SanitizedURL("url", c.baseURL.String()),
		zap.String("message", out.Message),
	)
	return nil
}
