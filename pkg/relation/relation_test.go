package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/goplanner/internal/store"
)

func TestToggleRoundTrip(t *testing.T) {
	set := []string{"a", "b", "c"}

	added := Toggle(set, "d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, added)

	removed := Toggle(added, "d")
	assert.Equal(t, set, removed, "toggle twice restores the set")

	assert.Equal(t, []string{"a", "c"}, Toggle(set, "b"))
	assert.Equal(t, []string{"x"}, Toggle(nil, "x"))
}

func TestScenesLinkedToBeat(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	mk := func(title string, beatIDs ...string) *store.Scene {
		sc := &store.Scene{PlanID: "p1", Title: title, LinkedBeatIDs: beatIDs, Order: store.AutoOrder}
		require.NoError(t, s.CreateScene(sc))
		return sc
	}
	a := mk("a", "beat1")
	mk("b", "beat2")
	c := mk("c", "beat1", "beat2")

	got, err := ScenesLinkedToBeat(s, "p1", "beat1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)

	none, err := ScenesLinkedToBeat(s, "p1", "beat9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestScenesForCharacterArc(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	pov := &store.Scene{PlanID: "p1", Title: "pov", POVCharacterID: "hero", Order: store.AutoOrder}
	require.NoError(t, s.CreateScene(pov))
	present := &store.Scene{PlanID: "p1", Title: "present", PresentCharacterIDs: []string{"villain", "hero"}, Order: store.AutoOrder}
	require.NoError(t, s.CreateScene(present))
	other := &store.Scene{PlanID: "p1", Title: "other", POVCharacterID: "villain", Order: store.AutoOrder}
	require.NoError(t, s.CreateScene(other))

	got, err := ScenesForCharacterArc(s, "p1", "hero")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, pov.ID, got[0].ID)
	assert.Equal(t, present.ID, got[1].ID)
}

func TestCurrentBeat(t *testing.T) {
	beats := []*store.Beat{
		{ID: "b1", Status: store.StatusComplete, ActualChapterID: "ch1"},
		{ID: "b2", Status: store.StatusComplete},
		{ID: "b3", Status: store.StatusInProgress, ActualChapterID: "ch3"},
		{ID: "b4", Status: store.StatusPlanned},
	}

	assert.Equal(t, "b1", CurrentBeat(beats, "ch1").ID, "chapter match wins even when complete")
	assert.Equal(t, "b3", CurrentBeat(beats, "").ID, "first non-complete in plan order")
	assert.Equal(t, "b3", CurrentBeat(beats, "ch-unknown").ID, "unmatched chapter falls through")

	allDone := []*store.Beat{
		{ID: "b1", Status: store.StatusComplete},
		{ID: "b2", Status: store.StatusComplete},
	}
	assert.Equal(t, "b1", CurrentBeat(allDone, "").ID, "everything complete falls back to the first beat")

	assert.Nil(t, CurrentBeat(nil, "ch1"))
}
