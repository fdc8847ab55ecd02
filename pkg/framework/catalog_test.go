package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSevenPointTemplates(t *testing.T) {
	templates := TemplatesFor("seven-point")
	require.Len(t, templates, 7)

	names := make([]string, len(templates))
	percents := make([]float64, len(templates))
	for i, tpl := range templates {
		names[i] = tpl.Name
		percents[i] = tpl.TargetPercent
	}
	assert.Equal(t, []string{"Hook", "Plot Turn 1", "Pinch 1", "Midpoint", "Pinch 2", "Plot Turn 2", "Resolution"}, names)
	assert.Equal(t, []float64{0, 15, 30, 50, 70, 85, 95}, percents)
}

func TestCustomAndUnknownAreEmpty(t *testing.T) {
	assert.Empty(t, TemplatesFor(CustomName))
	assert.Empty(t, TemplatesFor("snowflake"))
	assert.True(t, Known(CustomName))
	assert.False(t, Known("snowflake"))
}

func TestCatalogShape(t *testing.T) {
	for _, name := range Names() {
		fw, ok := Get(name)
		require.True(t, ok, name)

		prev := -1.0
		for _, tpl := range fw.Templates {
			assert.NotEmpty(t, tpl.TemplateID)
			assert.NotEmpty(t, tpl.Name)
			assert.GreaterOrEqual(t, tpl.TargetPercent, 0.0)
			assert.LessOrEqual(t, tpl.TargetPercent, 100.0)
			assert.Contains(t, []int{1, 2, 3}, tpl.ActNumber)
			assert.Greater(t, tpl.TargetPercent, prev, "templates must be ordered by target percent")
			prev = tpl.TargetPercent
		}
	}
}

func TestTemplatesForReturnsCopy(t *testing.T) {
	a := TemplatesFor("three-act")
	a[0].Name = "mutated"
	b := TemplatesFor("three-act")
	assert.Equal(t, "Setup", b[0].Name)
}
