// Package characters is the read-only boundary to the host
// application's character records. The planner stores character ids as
// opaque weak references; this package resolves them to display values
// at read time and tolerates misses, since a character may be renamed
// or deleted out from under a plan at any point.
package characters

// UnknownName is returned for any id the lookup cannot resolve.
// Resolution never fails; a dangling reference is an expected state,
// not an error.
const UnknownName = "Unknown Character"

// Character is the slice of a host character record the planner needs.
type Character struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// Lookup resolves character ids against the host store.
type Lookup interface {
	// Get returns the character and true, or false on a miss.
	Get(id string) (Character, bool)
	// All returns every known character, for mention scanning.
	All() []Character
}

// MapLookup is a Lookup over a snapshot fed in by the host shell.
type MapLookup struct {
	byID  map[string]Character
	order []string
}

// NewMapLookup builds a lookup from a character snapshot. Later
// entries with a duplicate id replace earlier ones.
func NewMapLookup(chars []Character) *MapLookup {
	l := &MapLookup{byID: make(map[string]Character, len(chars))}
	for _, c := range chars {
		if _, seen := l.byID[c.ID]; !seen {
			l.order = append(l.order, c.ID)
		}
		l.byID[c.ID] = c
	}
	return l
}

func (l *MapLookup) Get(id string) (Character, bool) {
	c, ok := l.byID[id]
	return c, ok
}

func (l *MapLookup) All() []Character {
	out := make([]Character, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// ResolveName returns the character's display name, or the unknown
// placeholder on a miss (including the empty id).
func ResolveName(l Lookup, id string) string {
	if id == "" {
		return UnknownName
	}
	if c, ok := l.Get(id); ok {
		return c.Name
	}
	return UnknownName
}

// ResolveNames maps a set of ids to display names, preserving order.
func ResolveNames(l Lookup, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ResolveName(l, id)
	}
	return out
}
