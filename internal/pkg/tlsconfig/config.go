package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// ClientOptions Home Assistant 連接的 TLS 選項
type ClientOptions struct {
	// CAFile 自簽名實例的 CA 證書 (PEM)，為空時使用系統根證書
	CAFile string
	// InsecureSkipVerify 跳過證書校驗，僅用於局域網調試
	InsecureSkipVerify bool
}

// ClientConfig 返回客戶端 TLS 配置
func ClientConfig(opts ClientOptions) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
		InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec
	}

	if opts.CAFile != "" {
		pool, err := LoadCAPool(opts.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

// LoadCAPool 在系統根證書基礎上追加 PEM 文件中的證書
func LoadCAPool(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("讀取 CA 文件失敗: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	if !pool.AppendCertsFromPEM(data) {
		return nil, errors.New("CA 文件中沒有有效的 PEM 證書")
	}
	return pool, nil
}
