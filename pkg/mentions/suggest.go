package mentions

import (
	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/relation"
)

// SuggestPresent returns characters mentioned in the scene's prose but
// not yet in its present set. The POV character counts as present. The
// result is a proposal for the caller to toggle in, not a mutation.
func (d *Dictionary) SuggestPresent(scene *store.Scene, text string) []string {
	var out []string
	for _, id := range d.MentionedIDs(text) {
		if id == scene.POVCharacterID {
			continue
		}
		if relation.Contains(scene.PresentCharacterIDs, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
