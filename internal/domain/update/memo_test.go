package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func countingFilter(calls *int) FilterFunc {
	inner := InstallFilter(language.English)
	return func(s *Snapshot, showSkipped bool) []Entity {
		*calls++
		return inner(s, showSkipped)
	}
}

func TestMemo_SameInputsNoRecompute(t *testing.T) {
	calls := 0
	m := NewMemo(countingFilter(&calls))
	snap := fixtureSnapshot()

	first := m.Get(snap, false)
	second := m.Get(snap, false)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestMemo_RecomputeOnChange(t *testing.T) {
	calls := 0
	m := NewMemo(countingFilter(&calls))
	snap := fixtureSnapshot()

	m.Get(snap, false)
	m.Get(snap, true)
	assert.Equal(t, 2, calls, "showSkipped 變化應重新計算")

	next := snap.With(entity("update.new", StateOn, FeatureInstall, "New"))
	got := m.Get(next, true)
	assert.Equal(t, 3, calls, "快照變化應重新計算")
	assert.Contains(t, EntityIDs(got), "update.new")

	m.Get(next, true)
	assert.Equal(t, 3, calls)
}

func TestMemo_Reset(t *testing.T) {
	calls := 0
	m := NewMemo(countingFilter(&calls))
	snap := fixtureSnapshot()

	m.Get(snap, false)
	m.Reset()
	m.Get(snap, false)
	assert.Equal(t, 2, calls)
}

func TestSnapshot_CopyOnWrite(t *testing.T) {
	base := NewSnapshot(entity("update.a", StateOn, FeatureInstall, "A"))
	next := base.With(entity("update.b", StateOn, FeatureInstall, "B"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, next.Len())

	removed := next.Without("update.a")
	assert.Equal(t, 1, removed.Len())
	_, ok := removed.Get("update.a")
	assert.False(t, ok)

	assert.Same(t, removed, removed.Without("update.missing"))
}
