package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWrapFunction 測試Wrap函數
func TestWrapFunction(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("Wrap保留原錯誤", func(t *testing.T) {
		wrapped := Wrap(baseErr, "HassAPI", "context")
		assert.True(t, errors.Is(wrapped, baseErr))
	})

	t.Run("Wrap nil創建新錯誤", func(t *testing.T) {
		wrapped := Wrap(nil, "HassAPI", "context")
		assert.Error(t, wrapped)
		assert.Contains(t, wrapped.Error(), "HassAPI")
	})

	t.Run("多層包裝", func(t *testing.T) {
		err1 := New("Level1", "base error")
		err2 := Wrap(err1, "Level2", "context 2")
		err3 := Wrap(err2, "Level3", "context 3")

		assert.True(t, errors.Is(err3, err1))
		assert.True(t, errors.Is(err3, err2))
	})
}

// TestErrorFormatting 測試錯誤格式
func TestErrorFormatting(t *testing.T) {
	err := New("ValidationError", "field is required")
	assert.Equal(t, "[ValidationError] field is required", err.Error())

	wrapped := Wrap(err, "ConfigError", "load failed")
	assert.Contains(t, wrapped.Error(), "ConfigError")
	assert.Contains(t, wrapped.Error(), "field is required")
}

// TestAPIError_Unwrap 狀態碼到哨兵錯誤的映射
func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("call: %w", &APIError{Status: tt.status})
			assert.True(t, errors.Is(err, tt.target))
		})
	}

	assert.Nil(t, (&APIError{Status: 500}).Unwrap())
}

// TestExtractAPIErrorMessage 錯誤文本提取順序
func TestExtractAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"結構化消息", &APIError{Status: 400, Body: `{"result":"error","message":"E1"}`, Message: "E1"}, "E1"},
		{"包裝後仍可提取", fmt.Errorf("set option: %w", &APIError{Status: 400, Message: "E1"}), "E1"},
		{"原始響應體", &APIError{Status: 502, Body: " Bad Gateway \n"}, "Bad Gateway"},
		{"空響應", &APIError{Status: 500}, UnknownAPIError},
		{"普通錯誤", errors.New("connection refused"), "connection refused"},
		{"空文本錯誤", errors.New(""), UnknownAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAPIErrorMessage(tt.err))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "POST", Path: "/api/hassio/supervisor/options", Status: 400, Message: "E1"}
	assert.Equal(t, "POST /api/hassio/supervisor/options: HTTP 400: E1", err.Error())

	bare := &APIError{Method: "GET", Path: "/api/config", Status: 500}
	assert.Equal(t, "GET /api/config: HTTP 500", bare.Error())
}
