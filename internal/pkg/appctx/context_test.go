package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFlowID 測試關聯 ID
func TestFlowID(t *testing.T) {
	t.Run("設置和獲取", func(t *testing.T) {
		ctx := WithFlowID(context.Background(), "flow-123")
		assert.Equal(t, "flow-123", FlowID(ctx))
	})

	t.Run("未設置返回空", func(t *testing.T) {
		assert.Empty(t, FlowID(context.Background()))
	})
}
