package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func entity(id, state string, features Feature, title string) Entity {
	return Entity{
		EntityID: id,
		State:    state,
		Attributes: Attributes{
			Title:             title,
			InstalledVersion:  "1.0.0",
			LatestVersion:     "1.1.0",
			SupportedFeatures: features,
		},
	}
}

func skippedEntity(id, title string) Entity {
	e := entity(id, StateOff, FeatureInstall, title)
	e.Attributes.SkippedVersion = e.Attributes.LatestVersion
	return e
}

func fixtureSnapshot() *Snapshot {
	return NewSnapshot(
		entity("update.zigbee", StateOn, FeatureInstall|FeatureProgress, "zigbee2mqtt"),
		entity("update.core", StateOn, FeatureInstall, TitleCore),
		entity("update.supervisor", StateOn, FeatureInstall, TitleSupervisor),
		entity("update.os", StateOn, FeatureInstall, TitleOS),
		entity("update.esphome", StateOn, FeatureInstall, "ESPHome"),
		entity("update.readonly", StateOn, FeatureReleaseNotes, "Firmware (read only)"),
		entity("update.current", StateOff, FeatureInstall, "Up to date"),
		entity("update.gone", StateUnavailable, FeatureInstall, "Gone"),
		skippedEntity("update.skipped", "Adguard"),
		entity("light.kitchen", StateOn, FeatureInstall, "Kitchen"),
	)
}

func TestCanInstall(t *testing.T) {
	tests := []struct {
		name        string
		e           Entity
		showSkipped bool
		want        bool
	}{
		{"有更新且可安裝", entity("update.a", StateOn, FeatureInstall, ""), false, true},
		{"有更新但不可安裝", entity("update.a", StateOn, FeatureReleaseNotes, ""), false, false},
		{"無更新", entity("update.a", StateOff, FeatureInstall, ""), true, false},
		{"跳過_隱藏", skippedEntity("update.a", ""), false, false},
		{"跳過_顯示", skippedEntity("update.a", ""), true, true},
		{"跳過但不可安裝", func() Entity {
			e := skippedEntity("update.a", "")
			e.Attributes.SupportedFeatures = FeatureReleaseNotes
			return e
		}(), true, false},
		{"不可用", entity("update.a", StateUnavailable, FeatureInstall, ""), true, false},
		{"不可用但有跳過記錄_顯示", func() Entity {
			e := skippedEntity("update.a", "")
			e.State = StateUnavailable
			return e
		}(), true, true},
		{"不可用但有跳過記錄_隱藏", func() Entity {
			e := skippedEntity("update.a", "")
			e.State = StateUnavailable
			return e
		}(), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanInstall(tt.e, tt.showSkipped))
		})
	}
}

func TestFilterWithInstall_Invariant(t *testing.T) {
	snap := fixtureSnapshot()

	for _, showSkipped := range []bool{false, true} {
		got := FilterWithInstall(snap, showSkipped, language.English)

		hasSkipped := false
		for _, e := range got {
			assert.True(t, e.Installable(), "%s 不具備安裝能力", e.EntityID)
			assert.Equal(t, Domain, e.Domain())
			if e.Skipped() {
				hasSkipped = true
			}
		}
		assert.Equal(t, showSkipped, hasSkipped, "showSkipped=%v", showSkipped)
	}
}

func TestFilterWithInstall_Order(t *testing.T) {
	got := FilterWithInstall(fixtureSnapshot(), true, language.English)

	assert.Equal(t, []string{
		"update.core",
		"update.os",
		"update.supervisor",
		"update.skipped", // Adguard
		"update.esphome",
		"update.zigbee",
	}, EntityIDs(got))
}

func TestFilterUpdateEntities_CaseInsensitive(t *testing.T) {
	snap := NewSnapshot(
		entity("update.b", StateOn, FeatureInstall, "beta"),
		entity("update.a", StateOn, FeatureInstall, "Alpha"),
		Entity{EntityID: "update.c", State: StateOn, Attributes: Attributes{FriendlyName: "charlie"}},
	)

	got := FilterUpdateEntities(snap, language.English)
	assert.Equal(t, []string{"update.a", "update.b", "update.c"}, EntityIDs(got))
}

func TestFilter_EmptySnapshot(t *testing.T) {
	assert.Empty(t, FilterWithInstall(nil, true, language.English))
	assert.Empty(t, FilterWithInstall(NewSnapshot(), false, language.English))
}

func TestEntity_Bump(t *testing.T) {
	tests := []struct {
		installed, latest string
		want              Bump
	}{
		{"2024.9.3", "2024.10.0", BumpMinor},
		{"2024.12.5", "2025.1.0", BumpMajor},
		{"1.2.3", "1.2.4", BumpPatch},
		{"1.2.3", "1.2.3", BumpNone},
		{"", "1.0.0", BumpNone},
		{"abc", "1.0.0", BumpUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.installed+"->"+tt.latest, func(t *testing.T) {
			e := Entity{Attributes: Attributes{InstalledVersion: tt.installed, LatestVersion: tt.latest}}
			assert.Equal(t, tt.want, e.Bump())
		})
	}
}

func TestProgress_Unmarshal(t *testing.T) {
	var p Progress
	require.NoError(t, p.UnmarshalJSON([]byte("true")))
	assert.True(t, p.Active)
	assert.Equal(t, -1, p.Percent)

	require.NoError(t, p.UnmarshalJSON([]byte("42")))
	assert.True(t, p.Active)
	assert.Equal(t, 42, p.Percent)

	require.NoError(t, p.UnmarshalJSON([]byte("null")))
	assert.False(t, p.Active)
}
