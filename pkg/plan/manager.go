// Package plan implements the plan lifecycle: creation with framework
// beat instantiation, cascading deletion, reordering, and validated
// entry points for every plan-owned entity.
package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/framework"
)

// Manager owns plan lifecycle operations over a Storer.
type Manager struct {
	store    store.Storer
	validate *validator.Validate
}

// NewManager creates a lifecycle manager.
func NewManager(s store.Storer) *Manager {
	return &Manager{
		store:    s,
		validate: validator.New(),
	}
}

func (m *Manager) invalid(op string, err error) error {
	return &ValidationError{Op: op, Reason: "invalid input", Err: err}
}

// CreatePlan stores the plan and instantiates one beat per template of
// its framework. An unknown framework name falls back to "custom"
// (zero beats) rather than failing; that fallback is recorded on the
// stored plan. Bulk beat creation is all-or-nothing as observed
// through the store: on a partial failure the written beats (and the
// plan) are cleaned up, and anything that survives cleanup is reported
// via PartialBulkError.
func (m *Manager) CreatePlan(p *store.Plan) (*store.Plan, error) {
	if err := m.validate.Struct(p); err != nil {
		return nil, m.invalid("createPlan", err)
	}
	if p.Framework == "" || !framework.Known(p.Framework) {
		p.Framework = framework.CustomName
	}
	if err := m.store.CreatePlan(p); err != nil {
		return nil, fmt.Errorf("createPlan: %w", err)
	}

	templates := framework.TemplatesFor(p.Framework)
	created := make([]string, 0, len(templates))
	for i, tpl := range templates {
		beat := &store.Beat{
			PlanID:           p.ID,
			Name:             tpl.Name,
			BeatType:         tpl.TemplateID,
			TargetPercentage: tpl.TargetPercent,
			ActNumber:        tpl.ActNumber,
			Status:           store.StatusPlanned,
			Order:            float64(i),
		}
		if err := m.store.CreateBeat(beat); err != nil {
			return nil, m.cleanupPartialCreate(p.ID, created, err)
		}
		created = append(created, beat.ID)
	}
	return p, nil
}

// cleanupPartialCreate removes a half-instantiated plan so no query
// can observe a partial beat set. Survivors are reported.
func (m *Manager) cleanupPartialCreate(planID string, created []string, cause error) error {
	var survivors []string
	for _, id := range created {
		if err := m.store.DeleteBeat(id); err != nil && !errors.Is(err, store.ErrNotFound) {
			survivors = append(survivors, id)
		}
	}
	if err := m.store.DeletePlan(planID); err != nil && !errors.Is(err, store.ErrNotFound) {
		survivors = append(survivors, planID)
	}
	if len(survivors) > 0 {
		return &PartialBulkError{Op: "createPlan", SucceededIDs: survivors, Err: cause}
	}
	return fmt.Errorf("createPlan: instantiating beats: %w", cause)
}

// DeletePlan removes every arc, beat, scene, character arc and thread
// owned by the plan, then the plan itself. Idempotent: deleting a plan
// that does not exist is not an error. A failure partway is reported
// with the per-kind counts that completed.
func (m *Manager) DeletePlan(planID string) error {
	deleted := make(map[store.Kind]int, len(store.ChildKinds))
	for _, kind := range store.ChildKinds {
		n, err := m.store.DeleteByPlan(kind, planID)
		if err != nil {
			return &PartialBulkError{Op: "deletePlan", Deleted: deleted, Err: err}
		}
		deleted[kind] = n
	}
	if err := m.store.DeletePlan(planID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return &PartialBulkError{Op: "deletePlan", Deleted: deleted, Err: err}
	}
	return nil
}

// Reorder rewrites each listed entity's order to its index in the
// list. Every id must belong to the stated plan and kind. Passing a
// subset reorders only those ids and leaves the rest untouched; a
// clean total order requires the complete id set.
func (m *Manager) Reorder(kind store.Kind, planID string, orderedIDs []string) error {
	existing, err := m.store.ListIDsByPlan(kind, planID)
	if err != nil {
		return &ValidationError{Op: "reorder", Reason: fmt.Sprintf("kind %q", kind), Err: err}
	}
	owned := make(map[string]bool, len(existing))
	for _, id := range existing {
		owned[id] = true
	}
	for _, id := range orderedIDs {
		if !owned[id] {
			return &ValidationError{
				Op:     "reorder",
				Reason: fmt.Sprintf("%s %q does not belong to plan %q", kind, id, planID),
			}
		}
	}
	for i, id := range orderedIDs {
		if err := m.store.SetOrder(kind, id, float64(i)); err != nil {
			return fmt.Errorf("reorder: %w", err)
		}
	}
	return nil
}

// =============================================================================
// Validated entity entry points
// =============================================================================

// CreateArc validates and stores an arc. Defaults: planned status,
// auto order, arc-type display color.
func (m *Manager) CreateArc(a *store.Arc) (*store.Arc, error) {
	if a.Status == "" {
		a.Status = store.StatusPlanned
	}
	if a.Color == "" {
		a.Color = store.ArcTypes[a.Type].Color
	}
	if err := m.validate.Struct(a); err != nil {
		return nil, m.invalid("createArc", err)
	}
	if err := m.store.CreateArc(a); err != nil {
		return nil, fmt.Errorf("createArc: %w", err)
	}
	return a, nil
}

// UpdateArc validates and stores an arc update.
func (m *Manager) UpdateArc(a *store.Arc) error {
	if err := m.validate.Struct(a); err != nil {
		return m.invalid("updateArc", err)
	}
	return m.store.UpdateArc(a)
}

// CreateBeat validates and stores a manually added beat.
// Its beat type defaults to "custom".
func (m *Manager) CreateBeat(b *store.Beat) (*store.Beat, error) {
	if b.Status == "" {
		b.Status = store.StatusPlanned
	}
	if b.BeatType == "" {
		b.BeatType = framework.CustomName
	}
	if err := m.validate.Struct(b); err != nil {
		return nil, m.invalid("createBeat", err)
	}
	if err := m.store.CreateBeat(b); err != nil {
		return nil, fmt.Errorf("createBeat: %w", err)
	}
	return b, nil
}

// UpdateBeat validates and stores a beat update.
func (m *Manager) UpdateBeat(b *store.Beat) error {
	if err := m.validate.Struct(b); err != nil {
		return m.invalid("updateBeat", err)
	}
	return m.store.UpdateBeat(b)
}

// CreateScene validates and stores a scene. New scenes start as ideas.
func (m *Manager) CreateScene(sc *store.Scene) (*store.Scene, error) {
	if sc.Status == "" {
		sc.Status = store.StatusIdea
	}
	if err := m.validate.Struct(sc); err != nil {
		return nil, m.invalid("createScene", err)
	}
	if err := m.store.CreateScene(sc); err != nil {
		return nil, fmt.Errorf("createScene: %w", err)
	}
	return sc, nil
}

// UpdateScene validates and stores a scene update.
func (m *Manager) UpdateScene(sc *store.Scene) error {
	if err := m.validate.Struct(sc); err != nil {
		return m.invalid("updateScene", err)
	}
	return m.store.UpdateScene(sc)
}

// CreateCharacterArc validates and stores a character arc. Milestone
// ids are filled in when absent.
func (m *Manager) CreateCharacterArc(c *store.CharacterArc) (*store.CharacterArc, error) {
	if c.Status == "" {
		c.Status = store.StatusPlanned
	}
	for i := range c.Milestones {
		if c.Milestones[i].ID == "" {
			c.Milestones[i].ID = store.NewID()
		}
	}
	if err := m.validate.Struct(c); err != nil {
		return nil, m.invalid("createCharacterArc", err)
	}
	if err := m.store.CreateCharacterArc(c); err != nil {
		return nil, fmt.Errorf("createCharacterArc: %w", err)
	}
	return c, nil
}

// UpdateCharacterArc validates and stores a character arc update.
func (m *Manager) UpdateCharacterArc(c *store.CharacterArc) error {
	for i := range c.Milestones {
		if c.Milestones[i].ID == "" {
			c.Milestones[i].ID = store.NewID()
		}
	}
	if err := m.validate.Struct(c); err != nil {
		return m.invalid("updateCharacterArc", err)
	}
	return m.store.UpdateCharacterArc(c)
}

// CreateThread validates and stores a thread. New threads start in
// setup; plant ids are filled in when absent.
func (m *Manager) CreateThread(t *store.Thread) (*store.Thread, error) {
	if t.Status == "" {
		t.Status = store.ThreadSetup
	}
	stampPlants(t)
	if err := m.validate.Struct(t); err != nil {
		return nil, m.invalid("createThread", err)
	}
	if err := m.store.CreateThread(t); err != nil {
		return nil, fmt.Errorf("createThread: %w", err)
	}
	return t, nil
}

// UpdateThread validates and stores a thread update.
func (m *Manager) UpdateThread(t *store.Thread) error {
	stampPlants(t)
	if err := m.validate.Struct(t); err != nil {
		return m.invalid("updateThread", err)
	}
	return m.store.UpdateThread(t)
}

func stampPlants(t *store.Thread) {
	for i := range t.Plants {
		if t.Plants[i].ID == "" {
			t.Plants[i].ID = store.NewID()
		}
		if t.Plants[i].CreatedAt == 0 {
			t.Plants[i].CreatedAt = time.Now().UnixMilli()
		}
	}
}
