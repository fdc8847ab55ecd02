// Package framework holds the compiled-in catalog of story-structure
// templates used to pre-populate a plan's beats.
package framework

// CustomName is the framework with no templates: the writer builds
// every beat by hand. Unknown framework names behave the same way.
const CustomName = "custom"

// BeatTemplate describes one beat of a framework.
type BeatTemplate struct {
	TemplateID    string  `json:"templateId"`
	Name          string  `json:"name"`
	TargetPercent float64 `json:"targetPercent"`
	ActNumber     int     `json:"actNumber"`
}

// Framework is a named, ordered list of beat templates.
type Framework struct {
	Name      string         `json:"name"`
	Label     string         `json:"label"`
	Templates []BeatTemplate `json:"templates"`
}

// catalog is the closed set of shipped frameworks. Never mutated at
// runtime; TemplatesFor hands out copies.
var catalog = map[string]Framework{
	"three-act": {
		Name:  "three-act",
		Label: "Three-Act Structure",
		Templates: []BeatTemplate{
			{TemplateID: "setup", Name: "Setup", TargetPercent: 0, ActNumber: 1},
			{TemplateID: "inciting-incident", Name: "Inciting Incident", TargetPercent: 12, ActNumber: 1},
			{TemplateID: "first-plot-point", Name: "First Plot Point", TargetPercent: 25, ActNumber: 1},
			{TemplateID: "rising-action", Name: "Rising Action", TargetPercent: 37, ActNumber: 2},
			{TemplateID: "midpoint", Name: "Midpoint", TargetPercent: 50, ActNumber: 2},
			{TemplateID: "crisis", Name: "Crisis", TargetPercent: 62, ActNumber: 2},
			{TemplateID: "second-plot-point", Name: "Second Plot Point", TargetPercent: 75, ActNumber: 2},
			{TemplateID: "climax", Name: "Climax", TargetPercent: 88, ActNumber: 3},
			{TemplateID: "resolution", Name: "Resolution", TargetPercent: 95, ActNumber: 3},
		},
	},
	"seven-point": {
		Name:  "seven-point",
		Label: "Seven-Point Story Structure",
		Templates: []BeatTemplate{
			{TemplateID: "hook", Name: "Hook", TargetPercent: 0, ActNumber: 1},
			{TemplateID: "plot-turn-1", Name: "Plot Turn 1", TargetPercent: 15, ActNumber: 1},
			{TemplateID: "pinch-1", Name: "Pinch 1", TargetPercent: 30, ActNumber: 2},
			{TemplateID: "midpoint", Name: "Midpoint", TargetPercent: 50, ActNumber: 2},
			{TemplateID: "pinch-2", Name: "Pinch 2", TargetPercent: 70, ActNumber: 2},
			{TemplateID: "plot-turn-2", Name: "Plot Turn 2", TargetPercent: 85, ActNumber: 3},
			{TemplateID: "resolution", Name: "Resolution", TargetPercent: 95, ActNumber: 3},
		},
	},
	"save-the-cat": {
		Name:  "save-the-cat",
		Label: "Save the Cat",
		Templates: []BeatTemplate{
			{TemplateID: "opening-image", Name: "Opening Image", TargetPercent: 0, ActNumber: 1},
			{TemplateID: "theme-stated", Name: "Theme Stated", TargetPercent: 5, ActNumber: 1},
			{TemplateID: "catalyst", Name: "Catalyst", TargetPercent: 10, ActNumber: 1},
			{TemplateID: "debate", Name: "Debate", TargetPercent: 15, ActNumber: 1},
			{TemplateID: "break-into-two", Name: "Break Into Two", TargetPercent: 20, ActNumber: 2},
			{TemplateID: "b-story", Name: "B Story", TargetPercent: 22, ActNumber: 2},
			{TemplateID: "fun-and-games", Name: "Fun and Games", TargetPercent: 30, ActNumber: 2},
			{TemplateID: "midpoint", Name: "Midpoint", TargetPercent: 50, ActNumber: 2},
			{TemplateID: "bad-guys-close-in", Name: "Bad Guys Close In", TargetPercent: 60, ActNumber: 2},
			{TemplateID: "all-is-lost", Name: "All Is Lost", TargetPercent: 75, ActNumber: 2},
			{TemplateID: "dark-night-of-the-soul", Name: "Dark Night of the Soul", TargetPercent: 78, ActNumber: 3},
			{TemplateID: "break-into-three", Name: "Break Into Three", TargetPercent: 80, ActNumber: 3},
			{TemplateID: "finale", Name: "Finale", TargetPercent: 90, ActNumber: 3},
			{TemplateID: "final-image", Name: "Final Image", TargetPercent: 99, ActNumber: 3},
		},
	},
	"heros-journey": {
		Name:  "heros-journey",
		Label: "Hero's Journey",
		Templates: []BeatTemplate{
			{TemplateID: "ordinary-world", Name: "Ordinary World", TargetPercent: 0, ActNumber: 1},
			{TemplateID: "call-to-adventure", Name: "Call to Adventure", TargetPercent: 10, ActNumber: 1},
			{TemplateID: "refusal-of-the-call", Name: "Refusal of the Call", TargetPercent: 15, ActNumber: 1},
			{TemplateID: "meeting-the-mentor", Name: "Meeting the Mentor", TargetPercent: 20, ActNumber: 1},
			{TemplateID: "crossing-the-threshold", Name: "Crossing the Threshold", TargetPercent: 25, ActNumber: 2},
			{TemplateID: "tests-allies-enemies", Name: "Tests, Allies, Enemies", TargetPercent: 35, ActNumber: 2},
			{TemplateID: "approach-the-inmost-cave", Name: "Approach the Inmost Cave", TargetPercent: 50, ActNumber: 2},
			{TemplateID: "ordeal", Name: "Ordeal", TargetPercent: 60, ActNumber: 2},
			{TemplateID: "reward", Name: "Reward", TargetPercent: 70, ActNumber: 2},
			{TemplateID: "the-road-back", Name: "The Road Back", TargetPercent: 75, ActNumber: 3},
			{TemplateID: "resurrection", Name: "Resurrection", TargetPercent: 90, ActNumber: 3},
			{TemplateID: "return-with-the-elixir", Name: "Return with the Elixir", TargetPercent: 98, ActNumber: 3},
		},
	},
	"story-circle": {
		Name:  "story-circle",
		Label: "Story Circle",
		Templates: []BeatTemplate{
			{TemplateID: "you", Name: "You", TargetPercent: 0, ActNumber: 1},
			{TemplateID: "need", Name: "Need", TargetPercent: 12, ActNumber: 1},
			{TemplateID: "go", Name: "Go", TargetPercent: 25, ActNumber: 2},
			{TemplateID: "search", Name: "Search", TargetPercent: 37, ActNumber: 2},
			{TemplateID: "find", Name: "Find", TargetPercent: 50, ActNumber: 2},
			{TemplateID: "take", Name: "Take", TargetPercent: 62, ActNumber: 2},
			{TemplateID: "return", Name: "Return", TargetPercent: 75, ActNumber: 3},
			{TemplateID: "change", Name: "Change", TargetPercent: 87, ActNumber: 3},
		},
	},
	CustomName: {
		Name:  CustomName,
		Label: "Custom",
	},
}

// TemplatesFor returns the ordered beat templates for a framework.
// Returns an empty sequence for "custom" and for unknown names.
func TemplatesFor(name string) []BeatTemplate {
	fw, ok := catalog[name]
	if !ok {
		return nil
	}
	out := make([]BeatTemplate, len(fw.Templates))
	copy(out, fw.Templates)
	return out
}

// Known reports whether name is a shipped framework (including custom).
func Known(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Names returns the shipped framework names, custom last, for pickers.
func Names() []string {
	return []string{"three-act", "seven-point", "save-the-cat", "heros-journey", "story-circle", CustomName}
}

// Get returns a framework's metadata and templates.
func Get(name string) (Framework, bool) {
	fw, ok := catalog[name]
	return fw, ok
}
