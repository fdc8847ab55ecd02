// Package store: in-memory implementation, used by tests and by the
// wasm shell before a SQLite workspace is attached.
package store

import (
	"fmt"
	"sort"
	"sync"
)

// MemStore is a map-backed implementation of Storer.
type MemStore struct {
	mu            sync.RWMutex
	plans         map[string]*Plan
	arcs          map[string]*Arc
	beats         map[string]*Beat
	scenes        map[string]*Scene
	characterArcs map[string]*CharacterArc
	threads       map[string]*Thread
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		plans:         make(map[string]*Plan),
		arcs:          make(map[string]*Arc),
		beats:         make(map[string]*Beat),
		scenes:        make(map[string]*Scene),
		characterArcs: make(map[string]*CharacterArc),
		threads:       make(map[string]*Thread),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error { return nil }

// stampCreate fills id and timestamps for a new record.
// Returns the resolved id.
func stampCreate(id *string, createdAt, updatedAt *int64) {
	if *id == "" {
		*id = NewID()
	}
	now := nowMillis()
	if *createdAt == 0 {
		*createdAt = now
	}
	if *updatedAt == 0 {
		*updatedAt = *createdAt
	}
}

// nextOrder computes max(plan's orders)+1 for a kind, 0 when empty.
func (s *MemStore) nextOrder(kind Kind, planID string) float64 {
	max := -1.0
	switch kind {
	case KindArc:
		for _, a := range s.arcs {
			if a.PlanID == planID && a.Order > max {
				max = a.Order
			}
		}
	case KindBeat:
		for _, b := range s.beats {
			if b.PlanID == planID && b.Order > max {
				max = b.Order
			}
		}
	case KindScene:
		for _, sc := range s.scenes {
			if sc.PlanID == planID && sc.Order > max {
				max = sc.Order
			}
		}
	case KindCharacterArc:
		for _, c := range s.characterArcs {
			if c.PlanID == planID && c.Order > max {
				max = c.Order
			}
		}
	case KindThread:
		for _, t := range s.threads {
			if t.PlanID == planID && t.Order > max {
				max = t.Order
			}
		}
	}
	return max + 1
}

// =============================================================================
// Plans
// =============================================================================

func (s *MemStore) CreatePlan(p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	s.plans[p.ID] = p
	return nil
}

func (s *MemStore) GetPlan(id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, notFound(KindPlan, id)
	}
	return p, nil
}

func (s *MemStore) GetPlanByWriting(writingID string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *Plan
	for _, p := range s.plans {
		if p.WritingID != writingID {
			continue
		}
		if found == nil || p.CreatedAt < found.CreatedAt ||
			(p.CreatedAt == found.CreatedAt && p.ID < found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, fmt.Errorf("plan for writing %q: %w", writingID, ErrNotFound)
	}
	return found, nil
}

func (s *MemStore) ListPlans() ([]*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) UpdatePlan(p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.plans[p.ID]
	if !ok {
		return notFound(KindPlan, p.ID)
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = nowMillis()
	s.plans[p.ID] = p
	return nil
}

func (s *MemStore) DeletePlan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return notFound(KindPlan, id)
	}
	delete(s.plans, id)
	return nil
}

// =============================================================================
// Arcs
// =============================================================================

func (s *MemStore) CreateArc(a *Arc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if a.Order < 0 {
		a.Order = s.nextOrder(KindArc, a.PlanID)
	}
	s.arcs[a.ID] = a
	return nil
}

func (s *MemStore) GetArc(id string) (*Arc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.arcs[id]
	if !ok {
		return nil, notFound(KindArc, id)
	}
	return a, nil
}

func (s *MemStore) ListArcsByPlan(planID string) ([]*Arc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Arc
	for _, a := range s.arcs {
		if a.PlanID == planID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessOrdered(out[i].Order, out[j].Order, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) UpdateArc(a *Arc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.arcs[a.ID]
	if !ok {
		return notFound(KindArc, a.ID)
	}
	a.CreatedAt = old.CreatedAt
	a.UpdatedAt = nowMillis()
	s.arcs[a.ID] = a
	return nil
}

func (s *MemStore) DeleteArc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arcs[id]; !ok {
		return notFound(KindArc, id)
	}
	delete(s.arcs, id)
	return nil
}

// =============================================================================
// Beats
// =============================================================================

func (s *MemStore) CreateBeat(b *Beat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if b.Order < 0 {
		b.Order = s.nextOrder(KindBeat, b.PlanID)
	}
	s.beats[b.ID] = b
	return nil
}

func (s *MemStore) GetBeat(id string) (*Beat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.beats[id]
	if !ok {
		return nil, notFound(KindBeat, id)
	}
	return b, nil
}

func (s *MemStore) ListBeatsByPlan(planID string) ([]*Beat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Beat
	for _, b := range s.beats {
		if b.PlanID == planID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessOrdered(out[i].Order, out[j].Order, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) UpdateBeat(b *Beat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.beats[b.ID]
	if !ok {
		return notFound(KindBeat, b.ID)
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = nowMillis()
	s.beats[b.ID] = b
	return nil
}

func (s *MemStore) DeleteBeat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.beats[id]; !ok {
		return notFound(KindBeat, id)
	}
	delete(s.beats, id)
	return nil
}

// =============================================================================
// Scenes
// =============================================================================

func (s *MemStore) CreateScene(sc *Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if sc.Order < 0 {
		sc.Order = s.nextOrder(KindScene, sc.PlanID)
	}
	s.scenes[sc.ID] = sc
	return nil
}

func (s *MemStore) GetScene(id string) (*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenes[id]
	if !ok {
		return nil, notFound(KindScene, id)
	}
	return sc, nil
}

func (s *MemStore) ListScenesByPlan(planID string) ([]*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Scene
	for _, sc := range s.scenes {
		if sc.PlanID == planID {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessOrdered(out[i].Order, out[j].Order, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) UpdateScene(sc *Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.scenes[sc.ID]
	if !ok {
		return notFound(KindScene, sc.ID)
	}
	sc.CreatedAt = old.CreatedAt
	sc.UpdatedAt = nowMillis()
	s.scenes[sc.ID] = sc
	return nil
}

func (s *MemStore) DeleteScene(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenes[id]; !ok {
		return notFound(KindScene, id)
	}
	delete(s.scenes, id)
	return nil
}

// =============================================================================
// Character arcs
// =============================================================================

func (s *MemStore) CreateCharacterArc(c *CharacterArc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if c.Order < 0 {
		c.Order = s.nextOrder(KindCharacterArc, c.PlanID)
	}
	s.characterArcs[c.ID] = c
	return nil
}

func (s *MemStore) GetCharacterArc(id string) (*CharacterArc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.characterArcs[id]
	if !ok {
		return nil, notFound(KindCharacterArc, id)
	}
	return c, nil
}

func (s *MemStore) ListCharacterArcsByPlan(planID string) ([]*CharacterArc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*CharacterArc
	for _, c := range s.characterArcs {
		if c.PlanID == planID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessOrdered(out[i].Order, out[j].Order, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) UpdateCharacterArc(c *CharacterArc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.characterArcs[c.ID]
	if !ok {
		return notFound(KindCharacterArc, c.ID)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = nowMillis()
	s.characterArcs[c.ID] = c
	return nil
}

func (s *MemStore) DeleteCharacterArc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characterArcs[id]; !ok {
		return notFound(KindCharacterArc, id)
	}
	delete(s.characterArcs, id)
	return nil
}

// =============================================================================
// Threads
// =============================================================================

func (s *MemStore) CreateThread(t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if t.Order < 0 {
		t.Order = s.nextOrder(KindThread, t.PlanID)
	}
	s.threads[t.ID] = t
	return nil
}

func (s *MemStore) GetThread(id string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, notFound(KindThread, id)
	}
	return t, nil
}

func (s *MemStore) ListThreadsByPlan(planID string) ([]*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Thread
	for _, t := range s.threads {
		if t.PlanID == planID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessOrdered(out[i].Order, out[j].Order, out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) UpdateThread(t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.threads[t.ID]
	if !ok {
		return notFound(KindThread, t.ID)
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = nowMillis()
	s.threads[t.ID] = t
	return nil
}

func (s *MemStore) DeleteThread(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[id]; !ok {
		return notFound(KindThread, id)
	}
	delete(s.threads, id)
	return nil
}

// =============================================================================
// Kind-generic surface
// =============================================================================

func (s *MemStore) ListIDsByPlan(kind Kind, planID string) ([]string, error) {
	switch kind {
	case KindArc:
		arcs, _ := s.ListArcsByPlan(planID)
		ids := make([]string, len(arcs))
		for i, a := range arcs {
			ids[i] = a.ID
		}
		return ids, nil
	case KindBeat:
		beats, _ := s.ListBeatsByPlan(planID)
		ids := make([]string, len(beats))
		for i, b := range beats {
			ids[i] = b.ID
		}
		return ids, nil
	case KindScene:
		scenes, _ := s.ListScenesByPlan(planID)
		ids := make([]string, len(scenes))
		for i, sc := range scenes {
			ids[i] = sc.ID
		}
		return ids, nil
	case KindCharacterArc:
		cas, _ := s.ListCharacterArcsByPlan(planID)
		ids := make([]string, len(cas))
		for i, c := range cas {
			ids[i] = c.ID
		}
		return ids, nil
	case KindThread:
		threads, _ := s.ListThreadsByPlan(planID)
		ids := make([]string, len(threads))
		for i, t := range threads {
			ids[i] = t.ID
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("kind %q is not plan-scoped", kind)
	}
}

func (s *MemStore) SetOrder(kind Kind, id string, order float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := nowMillis()
	switch kind {
	case KindArc:
		if a, ok := s.arcs[id]; ok {
			a.Order, a.UpdatedAt = order, now
			return nil
		}
	case KindBeat:
		if b, ok := s.beats[id]; ok {
			b.Order, b.UpdatedAt = order, now
			return nil
		}
	case KindScene:
		if sc, ok := s.scenes[id]; ok {
			sc.Order, sc.UpdatedAt = order, now
			return nil
		}
	case KindCharacterArc:
		if c, ok := s.characterArcs[id]; ok {
			c.Order, c.UpdatedAt = order, now
			return nil
		}
	case KindThread:
		if t, ok := s.threads[id]; ok {
			t.Order, t.UpdatedAt = order, now
			return nil
		}
	default:
		return fmt.Errorf("kind %q has no order", kind)
	}
	return notFound(kind, id)
}

func (s *MemStore) DeleteByPlan(kind Kind, planID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	switch kind {
	case KindArc:
		for id, a := range s.arcs {
			if a.PlanID == planID {
				delete(s.arcs, id)
				n++
			}
		}
	case KindBeat:
		for id, b := range s.beats {
			if b.PlanID == planID {
				delete(s.beats, id)
				n++
			}
		}
	case KindScene:
		for id, sc := range s.scenes {
			if sc.PlanID == planID {
				delete(s.scenes, id)
				n++
			}
		}
	case KindCharacterArc:
		for id, c := range s.characterArcs {
			if c.PlanID == planID {
				delete(s.characterArcs, id)
				n++
			}
		}
	case KindThread:
		for id, t := range s.threads {
			if t.PlanID == planID {
				delete(s.threads, id)
				n++
			}
		}
	default:
		return 0, fmt.Errorf("kind %q is not plan-scoped", kind)
	}
	return n, nil
}

// lessOrdered is the shared list ordering: Order asc, then CreatedAt, then ID.
func lessOrdered(o1, o2 float64, c1, c2 int64, id1, id2 string) bool {
	if o1 != o2 {
		return o1 < o2
	}
	if c1 != c2 {
		return c1 < c2
	}
	return id1 < id2
}
