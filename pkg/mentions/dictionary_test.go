package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/characters"
)

var testCast = []characters.Character{
	{ID: "c1", Name: "Mira Voss", Aliases: []string{"The Fox"}},
	{ID: "c2", Name: "Halden"},
	{ID: "c3", Name: "Duke Aurelio Santh"},
}

func TestNormalizeRaw(t *testing.T) {
	assert.Equal(t, "mira voss", NormalizeRaw("  Mira   Voss! "))
	assert.Equal(t, "halden's map", NormalizeRaw("Halden’s map"))
	assert.Equal(t, "", NormalizeRaw("—…—"))
}

func TestScanFindsNamesAndAliases(t *testing.T) {
	d := Compile(testCast)

	text := "Mira Voss crossed the square. The Fox never travels unarmed, Halden thought."
	mentions := d.Scan(text)

	byID := make(map[string][]string)
	for _, m := range mentions {
		byID[m.CharacterID] = append(byID[m.CharacterID], m.Surface)
	}
	assert.Contains(t, byID["c1"], "Mira Voss")
	assert.Contains(t, byID["c1"], "The Fox", "aliases match too")
	assert.Contains(t, byID["c2"], "Halden")
	assert.Empty(t, byID["c3"])
}

func TestScanShortForms(t *testing.T) {
	d := Compile(testCast)

	ids := d.MentionedIDs("Voss nodded. Later, Aurelio Santh spoke.")
	assert.Equal(t, []string{"c1", "c3"}, ids, "surname short forms resolve")
}

func TestScanCaseInsensitiveWholeWords(t *testing.T) {
	d := Compile(testCast)

	assert.Equal(t, []string{"c2"}, d.MentionedIDs("HALDEN! she shouted."))
	assert.Empty(t, d.MentionedIDs("The haldenite ore glittered."), "substrings do not match")
}

func TestMentionedIDsFirstAppearanceOrder(t *testing.T) {
	d := Compile(testCast)

	ids := d.MentionedIDs("Halden waited for Mira Voss. Halden paced.")
	assert.Equal(t, []string{"c2", "c1"}, ids)
}

func TestScanOffsetsSurviveWidthChangingRunes(t *testing.T) {
	d := Compile(testCast)

	// U+0130 lowercases to a narrower rune; a plain ToLower would shift
	// every offset after it.
	text := "İİİ Halden arrived."
	mentions := d.Scan(text)
	require.Len(t, mentions, 1)

	m := mentions[0]
	assert.Equal(t, "Halden", m.Surface)
	assert.Equal(t, "Halden", text[m.Start:m.End])
}

func TestSuggestPresent(t *testing.T) {
	d := Compile(testCast)

	scene := &store.Scene{
		ID:                  "s1",
		POVCharacterID:      "c1",
		PresentCharacterIDs: []string{"c2"},
	}
	text := "Mira Voss watched Halden argue with Duke Aurelio Santh."

	got := d.SuggestPresent(scene, text)
	assert.Equal(t, []string{"c3"}, got, "POV and already-present characters are excluded")

	assert.Empty(t, d.SuggestPresent(scene, "Nobody here."))
}
