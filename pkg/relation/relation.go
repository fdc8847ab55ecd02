// Package relation answers cross-entity questions: which scenes realize
// a beat, which scenes a character appears in, and which beat the writer
// is "at" right now. All helpers are pure functions over store records.
package relation

import "github.com/kittclouds/goplanner/internal/store"

// Toggle flips membership of id in the set: present ids are removed,
// absent ids appended at the end. The relative order of the remaining
// ids is preserved, so toggling twice restores the original set.
func Toggle(set []string, id string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// Contains reports whether id is a member of the set.
func Contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// ScenesLinkedToBeat returns the plan's scenes that link the beat,
// in plan order.
func ScenesLinkedToBeat(s store.Storer, planID, beatID string) ([]*store.Scene, error) {
	scenes, err := s.ListScenesByPlan(planID)
	if err != nil {
		return nil, err
	}
	var out []*store.Scene
	for _, sc := range scenes {
		if Contains(sc.LinkedBeatIDs, beatID) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// ScenesForCharacterArc returns the plan's scenes where the arc's
// character appears, either as the POV character or in the present set.
func ScenesForCharacterArc(s store.Storer, planID, characterID string) ([]*store.Scene, error) {
	scenes, err := s.ListScenesByPlan(planID)
	if err != nil {
		return nil, err
	}
	var out []*store.Scene
	for _, sc := range scenes {
		if sc.POVCharacterID == characterID || Contains(sc.PresentCharacterIDs, characterID) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// CurrentBeat picks the beat the writer is at. Preference order: the
// beat whose actual chapter matches chapterID, else the first beat not
// yet complete, else the first beat. Nil when the plan has no beats.
// Beats are expected in plan order, as List delivers them.
func CurrentBeat(beats []*store.Beat, chapterID string) *store.Beat {
	if len(beats) == 0 {
		return nil
	}
	if chapterID != "" {
		for _, b := range beats {
			if b.ActualChapterID == chapterID {
				return b
			}
		}
	}
	for _, b := range beats {
		if b.Status != store.StatusComplete {
			return b
		}
	}
	return beats[0]
}
