package plan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/framework"
)

func newTestManager(t *testing.T) (*Manager, store.Storer) {
	t.Helper()
	s := store.NewMemStore()
	t.Cleanup(func() { s.Close() })
	return NewManager(s), s
}

func TestCreatePlanInstantiatesFrameworkBeats(t *testing.T) {
	m, s := newTestManager(t)

	p, err := m.CreatePlan(&store.Plan{
		WritingID: "w1",
		Title:     "The Hollow Crown",
		Framework: "three-act",
	})
	require.NoError(t, err)

	templates := framework.TemplatesFor("three-act")
	beats, err := s.ListBeatsByPlan(p.ID)
	require.NoError(t, err)
	require.Len(t, beats, len(templates))
	for i, b := range beats {
		assert.Equal(t, templates[i].Name, b.Name)
		assert.Equal(t, templates[i].TemplateID, b.BeatType)
		assert.Equal(t, templates[i].TargetPercent, b.TargetPercentage)
		assert.Equal(t, templates[i].ActNumber, b.ActNumber)
		assert.Equal(t, float64(i), b.Order)
		assert.Equal(t, store.StatusPlanned, b.Status)
	}
}

func TestCreatePlanSevenPoint(t *testing.T) {
	m, s := newTestManager(t)

	p, err := m.CreatePlan(&store.Plan{WritingID: "w1", Title: "T", Framework: "seven-point"})
	require.NoError(t, err)

	beats, err := s.ListBeatsByPlan(p.ID)
	require.NoError(t, err)
	require.Len(t, beats, 7)

	names := make([]string, len(beats))
	percents := make([]float64, len(beats))
	for i, b := range beats {
		names[i] = b.Name
		percents[i] = b.TargetPercentage
	}
	assert.Equal(t, []string{"Hook", "Plot Turn 1", "Pinch 1", "Midpoint", "Pinch 2", "Plot Turn 2", "Resolution"}, names)
	assert.Equal(t, []float64{0, 15, 30, 50, 70, 85, 95}, percents)
}

func TestCreatePlanUnknownFrameworkFallsBackToCustom(t *testing.T) {
	m, s := newTestManager(t)

	p, err := m.CreatePlan(&store.Plan{WritingID: "w1", Title: "T", Framework: "snowflake"})
	require.NoError(t, err, "unknown framework is a fallback, not an error")
	assert.Equal(t, framework.CustomName, p.Framework)

	beats, err := s.ListBeatsByPlan(p.ID)
	require.NoError(t, err)
	assert.Empty(t, beats)
}

func TestCreatePlanValidation(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.CreatePlan(&store.Plan{WritingID: "w1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

// failingBeatStore fails beat creation after a fixed number of writes.
type failingBeatStore struct {
	store.Storer
	remaining int
}

func (f *failingBeatStore) CreateBeat(b *store.Beat) error {
	if f.remaining <= 0 {
		return fmt.Errorf("disk full")
	}
	f.remaining--
	return f.Storer.CreateBeat(b)
}

func TestCreatePlanPartialBeatFailureCleansUp(t *testing.T) {
	mem := store.NewMemStore()
	defer mem.Close()
	m := NewManager(&failingBeatStore{Storer: mem, remaining: 3})

	_, err := m.CreatePlan(&store.Plan{WritingID: "w1", Title: "T", Framework: "seven-point"})
	require.Error(t, err)

	// Cleanup succeeded, so the failure is plain, not partial...
	var perr *PartialBulkError
	assert.False(t, errors.As(err, &perr))

	// ...and nothing is left queryable: no plan, no half beat set.
	plans, listErr := mem.ListPlans()
	require.NoError(t, listErr)
	assert.Empty(t, plans)
}

func TestDeletePlanCascades(t *testing.T) {
	m, s := newTestManager(t)

	p, err := m.CreatePlan(&store.Plan{WritingID: "w1", Title: "T", Framework: "three-act"})
	require.NoError(t, err)

	_, err = m.CreateArc(&store.Arc{PlanID: p.ID, Name: "Main", Type: store.ArcMain, Order: store.AutoOrder})
	require.NoError(t, err)
	_, err = m.CreateScene(&store.Scene{PlanID: p.ID, Title: "Opening", Order: store.AutoOrder})
	require.NoError(t, err)
	_, err = m.CreateCharacterArc(&store.CharacterArc{PlanID: p.ID, CharacterID: "c1", Type: store.CharacterArcPositive, Order: store.AutoOrder})
	require.NoError(t, err)
	_, err = m.CreateThread(&store.Thread{PlanID: p.ID, Name: "The letter", Type: store.ThreadSecret, Order: store.AutoOrder})
	require.NoError(t, err)

	require.NoError(t, m.DeletePlan(p.ID))

	for _, kind := range store.ChildKinds {
		ids, err := s.ListIDsByPlan(kind, p.ID)
		require.NoError(t, err)
		assert.Empty(t, ids, "kind %s should be empty after cascade", kind)
	}
	_, err = s.GetPlan(p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePlanIdempotent(t *testing.T) {
	m, _ := newTestManager(t)

	p, err := m.CreatePlan(&store.Plan{WritingID: "w1", Title: "T", Framework: "custom"})
	require.NoError(t, err)

	require.NoError(t, m.DeletePlan(p.ID))
	require.NoError(t, m.DeletePlan(p.ID), "second delete must not error")
	require.NoError(t, m.DeletePlan("never-existed"))
}

func TestReorderFullPermutation(t *testing.T) {
	m, s := newTestManager(t)

	var ids []string
	for _, name := range []string{"one", "two", "three"} {
		sc, err := m.CreateScene(&store.Scene{PlanID: "p1", Title: name, Order: store.AutoOrder})
		require.NoError(t, err)
		ids = append(ids, sc.ID)
	}

	want := []string{ids[2], ids[0], ids[1]}
	require.NoError(t, m.Reorder(store.KindScene, "p1", want))

	got, err := s.ListIDsByPlan(store.KindScene, "p1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReorderSubsetLeavesOthersUntouched(t *testing.T) {
	m, s := newTestManager(t)

	var ids []string
	for i := 0; i < 3; i++ {
		sc, err := m.CreateScene(&store.Scene{PlanID: "p1", Title: "s", Order: store.AutoOrder})
		require.NoError(t, err)
		ids = append(ids, sc.ID)
	}

	// Reorder only the last two; the first scene keeps order 0.
	require.NoError(t, m.Reorder(store.KindScene, "p1", []string{ids[2], ids[1]}))

	first, err := s.GetScene(ids[0])
	require.NoError(t, err)
	assert.Equal(t, float64(0), first.Order, "omitted id keeps its order")
	moved, err := s.GetScene(ids[2])
	require.NoError(t, err)
	assert.Equal(t, float64(0), moved.Order, "subset reorder can duplicate order values")
}

func TestReorderRejectsForeignIDs(t *testing.T) {
	m, _ := newTestManager(t)

	sc, err := m.CreateScene(&store.Scene{PlanID: "p1", Title: "s", Order: store.AutoOrder})
	require.NoError(t, err)
	other, err := m.CreateScene(&store.Scene{PlanID: "p2", Title: "other", Order: store.AutoOrder})
	require.NoError(t, err)

	err = m.Reorder(store.KindScene, "p1", []string{sc.ID, other.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEntityValidation(t *testing.T) {
	m, _ := newTestManager(t)

	var verr *ValidationError

	_, err := m.CreateArc(&store.Arc{PlanID: "p1", Name: "A", Type: "melodrama", Order: store.AutoOrder})
	require.ErrorAs(t, err, &verr, "unknown arc type")

	_, err = m.CreateScene(&store.Scene{PlanID: "p1", Title: "S", TensionLevel: 11, Order: store.AutoOrder})
	require.ErrorAs(t, err, &verr, "tension out of range")

	_, err = m.CreateBeat(&store.Beat{PlanID: "p1", Name: "B", TargetPercentage: 120, Order: store.AutoOrder})
	require.ErrorAs(t, err, &verr, "target percentage out of range")

	_, err = m.CreateThread(&store.Thread{PlanID: "p1", Name: "T", Type: "gossip", Order: store.AutoOrder})
	require.ErrorAs(t, err, &verr, "unknown thread type")
}

func TestCreateDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	arc, err := m.CreateArc(&store.Arc{PlanID: "p1", Name: "Main", Type: store.ArcMain, Order: store.AutoOrder})
	require.NoError(t, err)
	assert.Equal(t, store.StatusPlanned, arc.Status)
	assert.Equal(t, store.ArcTypes[store.ArcMain].Color, arc.Color)

	sc, err := m.CreateScene(&store.Scene{PlanID: "p1", Title: "S", Order: store.AutoOrder})
	require.NoError(t, err)
	assert.Equal(t, store.StatusIdea, sc.Status)

	beat, err := m.CreateBeat(&store.Beat{PlanID: "p1", Name: "B", Order: store.AutoOrder})
	require.NoError(t, err)
	assert.Equal(t, "custom", beat.BeatType)

	th, err := m.CreateThread(&store.Thread{
		PlanID: "p1", Name: "T", Type: store.ThreadMystery, Order: store.AutoOrder,
		Plants: []store.Plant{{Description: "A dropped glove"}},
	})
	require.NoError(t, err)
	assert.Equal(t, store.ThreadSetup, th.Status)
	assert.NotEmpty(t, th.Plants[0].ID)
	assert.NotZero(t, th.Plants[0].CreatedAt)
}
