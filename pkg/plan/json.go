package plan

import (
	"encoding/json"
	"fmt"

	"github.com/kittclouds/goplanner/internal/store"
)

// CreateFromJSON decodes a plan-owned entity from its wire form and
// stores it. The order field is seeded with the auto-assign sentinel
// before decoding, so an absent "order" appends to the plan while an
// explicit "order": 0 is stored as given.
func (m *Manager) CreateFromJSON(kind store.Kind, raw []byte) (any, error) {
	switch kind {
	case store.KindArc:
		a := &store.Arc{Order: store.AutoOrder}
		if err := json.Unmarshal(raw, a); err != nil {
			return nil, m.invalid("createArc", err)
		}
		return m.CreateArc(a)
	case store.KindBeat:
		b := &store.Beat{Order: store.AutoOrder}
		if err := json.Unmarshal(raw, b); err != nil {
			return nil, m.invalid("createBeat", err)
		}
		return m.CreateBeat(b)
	case store.KindScene:
		sc := &store.Scene{Order: store.AutoOrder}
		if err := json.Unmarshal(raw, sc); err != nil {
			return nil, m.invalid("createScene", err)
		}
		return m.CreateScene(sc)
	case store.KindCharacterArc:
		c := &store.CharacterArc{Order: store.AutoOrder}
		if err := json.Unmarshal(raw, c); err != nil {
			return nil, m.invalid("createCharacterArc", err)
		}
		return m.CreateCharacterArc(c)
	case store.KindThread:
		t := &store.Thread{Order: store.AutoOrder}
		if err := json.Unmarshal(raw, t); err != nil {
			return nil, m.invalid("createThread", err)
		}
		return m.CreateThread(t)
	}
	return nil, &ValidationError{Op: "create", Reason: fmt.Sprintf("unknown kind %q", kind)}
}
