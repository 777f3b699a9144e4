package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// EncryptedPrefix 加密值的前綴標識
	EncryptedPrefix = "enc:"
	// KeySize AES-256 密鑰長度
	KeySize = 32
	// MasterKeyEnv 環境變量優先於密鑰文件
	MasterKeyEnv = "HASSUP_MASTER_KEY"
)

// Encryptor 配置字段加密器
// 主密鑰不直接用於 AES，而是經 HKDF 按用途派生
type Encryptor struct {
	key []byte
}

// NewEncryptor 加載或生成主密鑰，並派生 purpose 對應的子密鑰
func NewEncryptor(keyPath, purpose string) (*Encryptor, error) {
	master, err := loadMasterKey(keyPath)
	if err != nil {
		return nil, err
	}
	return newDerived(master, purpose)
}

func newDerived(master []byte, purpose string) (*Encryptor, error) {
	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, master, nil, []byte("hassup/"+purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("派生密鑰失敗: %w", err)
	}
	return &Encryptor{key: key}, nil
}

func loadMasterKey(keyPath string) ([]byte, error) {
	// 1. 優先從環境變量讀取
	if keyHex := os.Getenv(MasterKeyEnv); keyHex != "" {
		key, err := decodeKey(keyHex)
		if err != nil {
			return nil, fmt.Errorf("環境變量 %s 格式錯誤: %w", MasterKeyEnv, err)
		}
		return key, nil
	}

	// 2. 嘗試從文件讀取
	if content, err := os.ReadFile(keyPath); err == nil {
		key, err := decodeKey(strings.TrimSpace(string(content)))
		if err != nil {
			return nil, fmt.Errorf("密鑰文件內容無效: %w", err)
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("無法讀取密鑰文件: %w", err)
	}

	// 3. 首次運行：生成並保存
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("生成隨機密鑰失敗: %w", err)
	}
	if err := atomicWriteKey(keyPath, key); err != nil {
		return nil, fmt.Errorf("保存新密鑰失敗: %w", err)
	}
	return key, nil
}

// atomicWriteKey 原子寫入密鑰文件
func atomicWriteKey(filename string, key []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, ".masterkey.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(hex.EncodeToString(key)); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	tmpFile.Close()

	if err := os.Chmod(tmpFile.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmpFile.Name(), filename)
}

func decodeKey(input string) ([]byte, error) {
	key, err := hex.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	key, err = base64.StdEncoding.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	return nil, errors.New("無效的密鑰格式或長度")
}

// Encrypt 加密；空串原樣返回
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt 解密
func (e *Encryptor) Decrypt(encrypted string) (string, error) {
	if !IsEncrypted(encrypted) {
		return "", errors.New("數據未加密")
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(encrypted, EncryptedPrefix))
	if err != nil {
		return "", err
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("密文數據過短")
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("解密失敗: %w", err)
	}
	return string(plaintext), nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// IsEncrypted 檢查字符串是否已加密
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, EncryptedPrefix)
}
