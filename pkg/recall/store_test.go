package recall

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	{
		s, err := NewStore(fs, "recall.bin")
		require.NoError(t, err)

		require.NoError(t, s.Add("scene-opening", []float32{0.1, 0.2, 0.3, 0.0}))
		require.NoError(t, s.Add("scene-battle", []float32{0.9, 0.8, 0.9, 0.0}))
		require.NoError(t, s.Add("scene-aftermath", []float32{0.1, 0.21, 0.31, 0.0}))
		require.NoError(t, s.Save())
	}

	s2, err := NewStore(fs, "recall.bin")
	require.NoError(t, err)
	assert.Equal(t, 3, s2.Size())

	results, err := s2.Search([]float32{0.1, 0.2, 0.3, 0.0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "scene-opening", results[0], "exact match first")
	assert.Equal(t, "scene-aftermath", results[1], "nearest neighbor second")
}

func TestStoreDimensionMismatch(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	s, err := NewStore(fs, "recall.bin")
	require.NoError(t, err)

	require.NoError(t, s.Add("s1", []float32{0.1, 0.2, 0.3}))
	assert.Error(t, s.Add("s2", []float32{0.1, 0.2}))

	_, err = s.Search([]float32{0.1}, 1)
	assert.Error(t, err)
}

func TestStoreStartsFreshWithoutFile(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	s, err := NewStore(fs, "missing.bin")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Size())

	results, err := s.Search([]float32{0.1, 0.2}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}
