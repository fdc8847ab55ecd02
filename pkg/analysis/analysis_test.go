package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/goplanner/internal/store"
)

func seedStatuses(t *testing.T, s store.Storer, planID string, statuses []store.Status) {
	t.Helper()
	for _, st := range statuses {
		require.NoError(t, s.CreateBeat(&store.Beat{PlanID: planID, Name: "b", Status: st, Order: store.AutoOrder}))
	}
}

func TestProgressCounts(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	seedStatuses(t, s, "p1", []store.Status{
		store.StatusComplete,
		store.StatusInProgress,
		store.StatusDrafted,
		store.StatusPlanned,
	})
	require.NoError(t, s.CreateScene(&store.Scene{PlanID: "p1", Title: "s1", Status: store.StatusComplete, Order: store.AutoOrder}))
	require.NoError(t, s.CreateScene(&store.Scene{PlanID: "p1", Title: "s2", Status: store.StatusIdea, Order: store.AutoOrder}))
	require.NoError(t, s.CreateThread(&store.Thread{PlanID: "p1", Name: "t1", Type: store.ThreadMystery, Status: store.ThreadResolved, Order: store.AutoOrder}))
	require.NoError(t, s.CreateThread(&store.Thread{PlanID: "p1", Name: "t2", Type: store.ThreadQuest, Status: store.ThreadDeveloping, Order: store.AutoOrder}))
	require.NoError(t, s.CreateThread(&store.Thread{PlanID: "p1", Name: "t3", Type: store.ThreadSecret, Status: store.ThreadAbandoned, Order: store.AutoOrder}))

	p, err := Progress(s, "p1")
	require.NoError(t, err)

	assert.Equal(t, CollectionProgress{Total: 4, Complete: 1, InProgress: 2, Percent: 25}, p.Beats)
	assert.Equal(t, CollectionProgress{Total: 2, Complete: 1, InProgress: 0, Percent: 50}, p.Scenes)
	assert.Equal(t, ThreadProgress{Total: 3, Resolved: 1, Unresolved: 1}, p.Threads)
	assert.Equal(t, OverallProgress{TotalItems: 6, CompletedItems: 2}, p.Overall)
}

func TestProgressEmptyPlanIsAllZero(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	p, err := Progress(s, "nothing-here")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Beats.Percent, "percent is 0 when total is 0")
	assert.Equal(t, 0, p.Scenes.Total)
	assert.Equal(t, 0, p.Overall.TotalItems)
}

func TestProgressPercentBounds(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	seedStatuses(t, s, "p1", []store.Status{store.StatusComplete, store.StatusComplete, store.StatusComplete})
	p, err := Progress(s, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Beats.Percent)
}

func TestUnresolvedThreads(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	for _, st := range []store.ThreadStatus{
		store.ThreadSetup, store.ThreadDeveloping, store.ThreadClimax,
		store.ThreadResolved, store.ThreadAbandoned,
	} {
		require.NoError(t, s.CreateThread(&store.Thread{
			PlanID: "p1", Name: string(st), Type: store.ThreadConflict, Status: st, Order: store.AutoOrder,
		}))
	}

	got, err := UnresolvedThreads(s, "p1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, th := range got {
		assert.NotEqual(t, store.ThreadResolved, th.Status)
		assert.NotEqual(t, store.ThreadAbandoned, th.Status)
	}
}

func scenesWithTension(levels ...int) []*store.Scene {
	out := make([]*store.Scene, len(levels))
	for i, lvl := range levels {
		out[i] = &store.Scene{ID: store.NewID(), Title: "s", TensionLevel: lvl}
	}
	return out
}

func TestPlateauDetection(t *testing.T) {
	report := PacingAnalysis(scenesWithTension(5, 5, 5, 3, 3, 3, 3))

	var plateaus []PacingIssue
	for _, issue := range report.Issues {
		if issue.Kind == IssueTensionPlateau {
			plateaus = append(plateaus, issue)
		}
	}
	require.Len(t, plateaus, 2)
	assert.Equal(t, 1, plateaus[0].StartScene)
	assert.Equal(t, 3, plateaus[0].EndScene)
	assert.Equal(t, 4, plateaus[1].StartScene)
	assert.Equal(t, 6, plateaus[1].EndScene)
}

func TestPlateauDetectionMidSequence(t *testing.T) {
	report := PacingAnalysis(scenesWithTension(2, 8, 8, 8))

	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueTensionPlateau, report.Issues[0].Kind)
	assert.Equal(t, 2, report.Issues[0].StartScene)
	assert.Equal(t, 4, report.Issues[0].EndScene)
}

func TestMissingReactionRule(t *testing.T) {
	mk := func(n int, pacing store.PacingType) []*store.Scene {
		out := make([]*store.Scene, n)
		for i := range out {
			out[i] = &store.Scene{ID: store.NewID(), Title: "s", TensionLevel: i + 1, PacingType: pacing}
		}
		return out
	}

	report := PacingAnalysis(mk(5, store.PacingAction))
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueMissingReaction, report.Issues[0].Kind)

	// Under five scenes the rule stays quiet.
	assert.Empty(t, PacingAnalysis(mk(4, store.PacingAction)).Issues)

	// One reaction scene satisfies it.
	scenes := mk(5, store.PacingAction)
	scenes[2].PacingType = store.PacingReaction
	assert.Empty(t, PacingAnalysis(scenes).Issues)
}

func TestPacingCurveAndDistribution(t *testing.T) {
	scenes := []*store.Scene{
		{ID: "s1", Title: "Opening", TensionLevel: 2, PacingType: store.PacingExposition},
		{ID: "s2", Title: "Chase", TensionLevel: 8, PacingType: store.PacingAction},
		{ID: "s3", Title: "Aftermath", TensionLevel: 4, PacingType: store.PacingReaction},
		{ID: "s4", Title: "Crossing", TensionLevel: 5, PacingType: store.PacingTransition},
	}
	report := PacingAnalysis(scenes)

	require.Len(t, report.TensionCurve, 4)
	assert.Equal(t, TensionPoint{SceneID: "s1", Title: "Opening", Position: 12.5, Tension: 2}, report.TensionCurve[0])
	assert.Equal(t, 87.5, report.TensionCurve[3].Position)
	assert.Equal(t, map[store.PacingType]int{
		store.PacingExposition: 1,
		store.PacingAction:     1,
		store.PacingReaction:   1,
		store.PacingTransition: 1,
	}, report.Distribution)
	assert.Empty(t, report.Issues)
}

func TestTimelinePositions(t *testing.T) {
	beats := []*store.Beat{
		{ID: "b1", TargetPercentage: 50},
		{ID: "b2", TargetPercentage: 95},
	}
	scenes := []*store.Scene{
		{ID: "s1"},
		{ID: "s2", LinkedBeatIDs: []string{"b1", "b2"}},
		{ID: "s3", LinkedBeatIDs: []string{"gone", "b2"}},
		{ID: "s4", LinkedBeatIDs: []string{"gone"}},
	}

	got := TimelinePositions(scenes, beats)
	require.Len(t, got, 4)
	assert.Equal(t, 12.5, got[0].Position, "no links: sequence position")
	assert.Equal(t, 50.0, got[1].Position, "first linked beat wins")
	assert.Equal(t, 95.0, got[2].Position, "dangling id skipped, next link resolves")
	assert.Equal(t, 87.5, got[3].Position, "all links dangling: back to sequence position")

	assert.Empty(t, TimelinePositions(nil, beats))
}

func TestCurrentBeatForChapter(t *testing.T) {
	s := store.NewMemStore()
	defer s.Close()

	first := &store.Beat{PlanID: "p1", Name: "Hook", Status: store.StatusComplete, ActualChapterID: "ch1", Order: store.AutoOrder}
	require.NoError(t, s.CreateBeat(first))
	second := &store.Beat{PlanID: "p1", Name: "Midpoint", Status: store.StatusPlanned, Order: store.AutoOrder}
	require.NoError(t, s.CreateBeat(second))

	got, err := CurrentBeatForChapter(s, "p1", "ch1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = CurrentBeatForChapter(s, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = CurrentBeatForChapter(s, "empty-plan", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
