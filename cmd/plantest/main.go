// Command plantest is a native smoke harness for the planner engine.
// It drives the full lifecycle against both stores: plan creation with
// framework beats, scene and thread CRUD, progress and pacing queries,
// and cascade deletion.
package main

import (
	"fmt"
	"log"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/analysis"
	"github.com/kittclouds/goplanner/pkg/plan"
)

func main() {
	fmt.Println("Testing MemStore...")
	mem := store.NewMemStore()
	exercise(mem)
	mem.Close()

	fmt.Println("\nTesting SQLiteStore...")
	sqlite, err := store.NewSQLiteStore()
	if err != nil {
		log.Fatalf("NewSQLiteStore failed: %v", err)
	}
	exercise(sqlite)
	sqlite.Close()

	fmt.Println("\n✅ All smoke checks passed!")
}

func exercise(s store.Storer) {
	m := plan.NewManager(s)

	p, err := m.CreatePlan(&store.Plan{
		WritingID: "writing-1",
		Title:     "Smoke Test Novel",
		Framework: "seven-point",
		Premise:   "A lighthouse keeper finds a door in the sea.",
	})
	if err != nil {
		log.Fatalf("CreatePlan failed: %v", err)
	}
	fmt.Println("  ✓ CreatePlan works")

	beats, err := s.ListBeatsByPlan(p.ID)
	if err != nil {
		log.Fatalf("ListBeatsByPlan failed: %v", err)
	}
	if len(beats) != 7 {
		log.Fatalf("expected 7 beats from seven-point, got %d", len(beats))
	}
	fmt.Println("  ✓ Framework beats instantiated")

	tensions := []int{3, 5, 5, 5, 7}
	for i, tl := range tensions {
		_, err := m.CreateScene(&store.Scene{
			PlanID:       p.ID,
			Title:        fmt.Sprintf("Scene %d", i+1),
			TensionLevel: tl,
			PacingType:   store.PacingAction,
			Order:        store.AutoOrder,
		})
		if err != nil {
			log.Fatalf("CreateScene failed: %v", err)
		}
	}
	fmt.Println("  ✓ CreateScene works")

	_, err = m.CreateThread(&store.Thread{
		PlanID: p.ID,
		Name:   "The door",
		Type:   store.ThreadMystery,
		Order:  store.AutoOrder,
	})
	if err != nil {
		log.Fatalf("CreateThread failed: %v", err)
	}
	fmt.Println("  ✓ CreateThread works")

	report, err := analysis.Progress(s, p.ID)
	if err != nil {
		log.Fatalf("Progress failed: %v", err)
	}
	if report.Overall.TotalItems != 12 {
		log.Fatalf("expected 12 overall items (7 beats + 5 scenes), got %d", report.Overall.TotalItems)
	}
	fmt.Println("  ✓ Progress works")

	scenes, err := s.ListScenesByPlan(p.ID)
	if err != nil {
		log.Fatalf("ListScenesByPlan failed: %v", err)
	}
	pacing := analysis.PacingAnalysis(scenes)
	// One plateau (scenes 2-4) and one missing-reaction issue expected.
	if len(pacing.Issues) != 2 {
		log.Fatalf("expected 2 pacing issues, got %d", len(pacing.Issues))
	}
	fmt.Println("  ✓ PacingAnalysis works")

	if err := m.DeletePlan(p.ID); err != nil {
		log.Fatalf("DeletePlan failed: %v", err)
	}
	for _, kind := range store.ChildKinds {
		ids, err := s.ListIDsByPlan(kind, p.ID)
		if err != nil {
			log.Fatalf("ListIDsByPlan(%s) failed: %v", kind, err)
		}
		if len(ids) != 0 {
			log.Fatalf("cascade left %d %s records", len(ids), kind)
		}
	}
	if err := m.DeletePlan(p.ID); err != nil {
		log.Fatalf("second DeletePlan should be idempotent: %v", err)
	}
	fmt.Println("  ✓ DeletePlan cascades and is idempotent")
}
