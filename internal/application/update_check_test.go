package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yat-Muk/hassup/internal/domain/update"
	apperrors "github.com/Yat-Muk/hassup/internal/pkg/errors"
)

func updateSnapshot() *update.Snapshot {
	return update.NewSnapshot(
		update.Entity{EntityID: "update.core", State: "on"},
		update.Entity{EntityID: "update.zigbee", State: "off"},
		update.Entity{EntityID: "sensor.cpu", State: "3"},
	)
}

func TestUpdateChecker_WithSupervisor(t *testing.T) {
	host := newFakeHost()
	checker := NewUpdateChecker(host, zap.NewNop())

	n, err := checker.Check(context.Background(), updateSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"refresh_updates", "call_service:homeassistant.update_entity"}, host.Calls())
	assert.ElementsMatch(t, []string{"update.core", "update.zigbee"}, host.lastData["entity_id"])
}

func TestUpdateChecker_WithoutSupervisor(t *testing.T) {
	host := newFakeHost()
	host.components = map[string]bool{}
	checker := NewUpdateChecker(host, zap.NewNop())

	_, err := checker.Check(context.Background(), updateSnapshot())
	require.NoError(t, err)
	assert.Equal(t, []string{"call_service:homeassistant.update_entity"}, host.Calls())
}

func TestUpdateChecker_RefreshFails(t *testing.T) {
	host := newFakeHost()
	host.refreshErr = &apperrors.APIError{Status: 500, Message: "supervisor busy"}
	checker := NewUpdateChecker(host, zap.NewNop())

	_, err := checker.Check(context.Background(), updateSnapshot())
	require.Error(t, err)
	assert.Equal(t, "supervisor busy", apperrors.ExtractAPIErrorMessage(err))
	assert.Equal(t, []string{"refresh_updates"}, host.Calls())
}

func TestUpdateChecker_NoEntities(t *testing.T) {
	host := newFakeHost()
	host.components = map[string]bool{}
	checker := NewUpdateChecker(host, zap.NewNop())

	_, err := checker.Check(context.Background(), update.NewSnapshot())
	assert.ErrorIs(t, err, apperrors.ErrNoUpdateEntities)
	assert.Empty(t, host.Calls())

	// nil 快照同樣處理
	_, err = checker.Check(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoUpdateEntities)
}

func TestUpdateChecker_ServiceFails(t *testing.T) {
	host := newFakeHost()
	host.serviceErr = errors.New("timeout")
	checker := NewUpdateChecker(host, zap.NewNop())

	_, err := checker.Check(context.Background(), updateSnapshot())
	assert.Error(t, err)
}
