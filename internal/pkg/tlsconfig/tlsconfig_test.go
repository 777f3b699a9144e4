package tlsconfig

import (
	"crypto/tls"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfig_Defaults(t *testing.T) {
	cfg, err := ClientConfig(ClientOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
}

func TestClientConfig_NonExistentCA(t *testing.T) {
	_, err := ClientConfig(ClientOptions{CAFile: "/nonexistent/ca.pem"})
	assert.Error(t, err, "不存在的文件應該返回錯誤")
}

func TestLoadCAPool_InvalidContent(t *testing.T) {
	caPath := filepath.Join(t.TempDir(), "invalid.pem")
	require.NoError(t, os.WriteFile(caPath, []byte("not a valid certificate"), 0644))

	_, err := LoadCAPool(caPath)
	assert.Error(t, err, "無效的證書內容應該驗證失敗")
}

// 自簽名服務器證書寫入 CA 文件後應能完成握手
func TestClientConfig_TrustsCustomCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	caPath := filepath.Join(t.TempDir(), "ca.pem")
	pemData := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(caPath, pemData, 0644))

	cfg, err := ClientConfig(ClientOptions{CAFile: caPath})
	require.NoError(t, err)

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
