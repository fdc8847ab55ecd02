package characters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	l := NewMapLookup([]Character{
		{ID: "c1", Name: "Mira Voss", Aliases: []string{"The Fox"}},
		{ID: "c2", Name: "Halden"},
	})

	assert.Equal(t, "Mira Voss", ResolveName(l, "c1"))
	assert.Equal(t, UnknownName, ResolveName(l, "deleted-character"))
	assert.Equal(t, UnknownName, ResolveName(l, ""))
}

func TestResolveNamesPreservesOrder(t *testing.T) {
	l := NewMapLookup([]Character{{ID: "c1", Name: "Mira"}})
	assert.Equal(t,
		[]string{UnknownName, "Mira"},
		ResolveNames(l, []string{"ghost", "c1"}))
}

func TestMapLookupSnapshot(t *testing.T) {
	l := NewMapLookup([]Character{
		{ID: "c1", Name: "Old Name"},
		{ID: "c2", Name: "Halden"},
		{ID: "c1", Name: "New Name"},
	})

	all := l.All()
	assert.Len(t, all, 2, "duplicate ids collapse")
	assert.Equal(t, "New Name", all[0].Name, "later entry replaces earlier, position kept")

	_, ok := l.Get("c2")
	assert.True(t, ok)
}
