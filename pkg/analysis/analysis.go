// Package analysis derives read-only plan analytics: completion
// ratios, the tension curve with its two deterministic pacing rules,
// unresolved-thread detection and scene timeline positions. It only
// classifies stored state; it never mutates and never blocks a status
// change.
package analysis

import (
	"fmt"
	"math"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/relation"
)

// =============================================================================
// Progress
// =============================================================================

// CollectionProgress is one collection's completion summary.
// InProgress counts both in-progress and drafted records.
type CollectionProgress struct {
	Total      int `json:"total"`
	Complete   int `json:"complete"`
	InProgress int `json:"inProgress"`
	Percent    int `json:"percent"`
}

// ThreadProgress summarizes threads by resolution rather than the
// shared status ladder.
type ThreadProgress struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
}

// OverallProgress is the headline ratio. It counts only beats and
// scenes; arcs, character arcs and threads are supporting structures,
// not primary completion units.
type OverallProgress struct {
	TotalItems     int `json:"totalItems"`
	CompletedItems int `json:"completedItems"`
}

// PlanProgress is the full progress report for one plan.
type PlanProgress struct {
	Beats         CollectionProgress `json:"beats"`
	Scenes        CollectionProgress `json:"scenes"`
	Arcs          CollectionProgress `json:"arcs"`
	CharacterArcs CollectionProgress `json:"characterArcs"`
	Threads       ThreadProgress     `json:"threads"`
	Overall       OverallProgress    `json:"overall"`
}

func percent(complete, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(complete) / float64(total) * 100))
}

func tally(statuses []store.Status) CollectionProgress {
	var p CollectionProgress
	p.Total = len(statuses)
	for _, s := range statuses {
		switch s {
		case store.StatusComplete:
			p.Complete++
		case store.StatusInProgress, store.StatusDrafted:
			p.InProgress++
		}
	}
	p.Percent = percent(p.Complete, p.Total)
	return p
}

// Progress computes the completion report for a plan by traversing its
// collections. A plan with no entities reports zeros throughout.
func Progress(s store.Storer, planID string) (*PlanProgress, error) {
	beats, err := s.ListBeatsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	scenes, err := s.ListScenesByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	arcs, err := s.ListArcsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	charArcs, err := s.ListCharacterArcsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	threads, err := s.ListThreadsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}

	collect := func(n int, at func(int) store.Status) []store.Status {
		out := make([]store.Status, n)
		for i := range out {
			out[i] = at(i)
		}
		return out
	}

	report := &PlanProgress{
		Beats:         tally(collect(len(beats), func(i int) store.Status { return beats[i].Status })),
		Scenes:        tally(collect(len(scenes), func(i int) store.Status { return scenes[i].Status })),
		Arcs:          tally(collect(len(arcs), func(i int) store.Status { return arcs[i].Status })),
		CharacterArcs: tally(collect(len(charArcs), func(i int) store.Status { return charArcs[i].Status })),
	}

	report.Threads.Total = len(threads)
	for _, t := range threads {
		if t.Status == store.ThreadResolved {
			report.Threads.Resolved++
		}
		if !threadResolved(t.Status) {
			report.Threads.Unresolved++
		}
	}

	report.Overall.TotalItems = report.Beats.Total + report.Scenes.Total
	report.Overall.CompletedItems = report.Beats.Complete + report.Scenes.Complete
	return report, nil
}

func threadResolved(s store.ThreadStatus) bool {
	return s == store.ThreadResolved || s == store.ThreadAbandoned
}

// UnresolvedThreads returns the plan's threads that are neither
// resolved nor abandoned, in plan order.
func UnresolvedThreads(s store.Storer, planID string) ([]*store.Thread, error) {
	threads, err := s.ListThreadsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("unresolvedThreads: %w", err)
	}
	var out []*store.Thread
	for _, t := range threads {
		if !threadResolved(t.Status) {
			out = append(out, t)
		}
	}
	return out, nil
}

// =============================================================================
// Pacing
// =============================================================================

// TensionPoint is one scene on the tension curve.
type TensionPoint struct {
	SceneID  string  `json:"sceneId"`
	Title    string  `json:"title"`
	Position float64 `json:"position"`
	Tension  int     `json:"tension"`
}

// Issue kinds emitted by the two pacing rules.
const (
	IssueTensionPlateau  = "tension-plateau"
	IssueMissingReaction = "missing-reaction"
)

// PacingIssue is one detected pacing problem. StartScene/EndScene are
// 1-based positions in the scene sequence; zero for plan-wide issues.
type PacingIssue struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StartScene int    `json:"startScene,omitempty"`
	EndScene   int    `json:"endScene,omitempty"`
}

// PacingReport is the full pacing analysis over a scene sequence.
type PacingReport struct {
	TensionCurve []TensionPoint           `json:"tensionCurve"`
	Distribution map[store.PacingType]int `json:"pacingDistribution"`
	Issues       []PacingIssue            `json:"issues"`
}

// PacingAnalysis computes the tension curve, the pacing-type
// distribution and exactly two deterministic issue rules over scenes
// in stored order:
//
//   - tension plateau: three consecutive scenes with identical tension
//     level, one issue per window; windows do not overlap, so a run of
//     four equal levels reports one issue, a run of six reports two.
//   - missing reaction: five or more scenes and not one reaction scene.
//
// Anything softer than these rules is suggestion territory, not curve
// arithmetic.
func PacingAnalysis(scenes []*store.Scene) *PacingReport {
	report := &PacingReport{
		TensionCurve: make([]TensionPoint, len(scenes)),
		Distribution: make(map[store.PacingType]int),
	}
	n := len(scenes)
	for i, sc := range scenes {
		report.TensionCurve[i] = TensionPoint{
			SceneID:  sc.ID,
			Title:    sc.Title,
			Position: sequencePosition(i, n),
			Tension:  sc.TensionLevel,
		}
		if sc.PacingType != "" {
			report.Distribution[sc.PacingType]++
		}
	}

	for i := 0; i+2 < n; {
		if scenes[i].TensionLevel == scenes[i+1].TensionLevel &&
			scenes[i].TensionLevel == scenes[i+2].TensionLevel {
			report.Issues = append(report.Issues, PacingIssue{
				Kind:       IssueTensionPlateau,
				Message:    fmt.Sprintf("scenes %d-%d hold the same tension level (%d); consider varying intensity", i+1, i+3, scenes[i].TensionLevel),
				StartScene: i + 1,
				EndScene:   i + 3,
			})
			i += 3
			continue
		}
		i++
	}

	if n >= 5 && report.Distribution[store.PacingReaction] == 0 {
		report.Issues = append(report.Issues, PacingIssue{
			Kind:    IssueMissingReaction,
			Message: "no reaction scenes; readers need breathing room after big moments",
		})
	}
	return report
}

// =============================================================================
// Timeline
// =============================================================================

// TimelineEntry is one scene's computed display position, 0-100.
type TimelineEntry struct {
	SceneID  string  `json:"sceneId"`
	Position float64 `json:"position"`
}

func sequencePosition(index, total int) float64 {
	if total == 0 {
		return 0
	}
	return (float64(index) + 0.5) / float64(total) * 100
}

// TimelinePositions places each scene on the story timeline. A scene
// sits at its sequence position unless it links a beat, in which case
// it snaps to the first resolvable linked beat's target percentage.
// Dangling beat ids fall through to the sequence position.
func TimelinePositions(scenes []*store.Scene, beats []*store.Beat) []TimelineEntry {
	byID := make(map[string]*store.Beat, len(beats))
	for _, b := range beats {
		byID[b.ID] = b
	}
	out := make([]TimelineEntry, len(scenes))
	for i, sc := range scenes {
		pos := sequencePosition(i, len(scenes))
		for _, beatID := range sc.LinkedBeatIDs {
			if b, ok := byID[beatID]; ok {
				pos = b.TargetPercentage
				break
			}
		}
		out[i] = TimelineEntry{SceneID: sc.ID, Position: pos}
	}
	return out
}

// CurrentBeatForChapter is a convenience over the relation helper for
// callers that track the chapter being written.
func CurrentBeatForChapter(s store.Storer, planID, chapterID string) (*store.Beat, error) {
	beats, err := s.ListBeatsByPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("currentBeat: %w", err)
	}
	return relation.CurrentBeat(beats, chapterID), nil
}
