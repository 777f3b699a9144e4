package inputvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http 局域網", "http://homeassistant.local:8123", false},
		{"https 帶路徑", "https://ha.example.com/core", false},
		{"supervisor 代理", "http://supervisor/core", false},
		{"空", "  ", true},
		{"缺少協議", "homeassistant.local:8123", true},
		{"ws 協議", "ws://ha.local", true},
		{"帶用戶信息", "http://user:pw@ha.local", true},
		{"帶查詢", "http://ha.local/?token=x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServerURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	assert.NoError(t, ValidateToken("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.abc.def"))
	assert.Error(t, ValidateToken(""))
	assert.Error(t, ValidateToken("has space"))
	assert.Error(t, ValidateToken("令牌"))

	long := make([]byte, MaxTokenLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateToken(string(long)))

	var verr *ValidationError
	assert.ErrorAs(t, ValidateToken(""), &verr)
	assert.Equal(t, "server.token", verr.Field)
}

func TestValidateMenuInput(t *testing.T) {
	assert.NoError(t, ValidateMenuInput("1"))
	assert.NoError(t, ValidateMenuInput("i12"))
	assert.Error(t, ValidateMenuInput(""))
	assert.Error(t, ValidateMenuInput("1;rm"))
	assert.Error(t, ValidateMenuInput("12345678901234567"))
}

func TestParseDetailIndex(t *testing.T) {
	n, ok := ParseDetailIndex("i3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = ParseDetailIndex(" I12 ")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	for _, in := range []string{"i0", "i", "3", "ix", "i-1"} {
		_, ok := ParseDetailIndex(in)
		assert.False(t, ok, in)
	}
}

func TestSanitizeAndTruncate(t *testing.T) {
	assert.Equal(t, "abc", SanitizeInput("a\x00b\x1bc\x7f"))
	assert.Equal(t, "ab", TruncateInput("abcdef", 2))
	assert.Equal(t, "ab", TruncateInput("ab", 5))
	assert.Equal(t, "更", TruncateInput("更新", 4))
}
