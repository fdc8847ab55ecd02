// Package recall indexes scene embeddings for "similar scenes"
// queries. Embeddings come from the host; this package only stores and
// searches them. The HNSW index keys on uint32, so the store carries a
// scene-id mapping and persists it with the index.
package recall

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"
)

// Store manages the HNSW index, the scene-id mapping and persistence.
type Store struct {
	mu    sync.RWMutex
	index *hnsw.HNSW[vector.VF32]
	fs    hackpadfs.FS
	path  string

	idMap  map[string]uint32
	revMap map[uint32]string
	nextID uint32
}

// snapshot is the persisted form: index nodes plus the id mapping.
type snapshot struct {
	Nodes  hnsw.Nodes[vector.VF32]
	IDMap  map[string]uint32
	NextID uint32
}

// NewStore opens a recall store at path, loading any existing index.
// A missing or unreadable file starts a fresh index.
func NewStore(fs hackpadfs.FS, path string) (*Store, error) {
	s := &Store{
		fs:     fs,
		path:   path,
		idMap:  make(map[string]uint32),
		revMap: make(map[uint32]string),
		nextID: 1,
	}
	if err := s.load(); err != nil {
		s.index = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}
	return s, nil
}

// Add indexes an embedding under a scene id. The first vector fixes
// the index dimension; later mismatches are rejected.
func (s *Store) Add(sceneID string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index.Size() > 0 {
		dim := len(s.index.Head().Vec)
		if len(vec) != dim {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	s.index.Insert(vector.VF32{Key: s.vectorID(sceneID), Vec: vec})
	return nil
}

// Search returns up to k scene ids nearest the query embedding,
// closest first.
func (s *Store) Search(vec []float32, k int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index.Size() > 0 {
		dim := len(s.index.Head().Vec)
		if len(vec) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vec))
		}
	}

	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	results := s.index.Search(vector.VF32{Vec: vec}, k, ef)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if sceneID, ok := s.revMap[r.Key]; ok {
			ids = append(ids, sceneID)
		}
	}
	return ids, nil
}

// Size reports how many embeddings are indexed.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Size()
}

// Save persists the index and id mapping.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Nodes:  s.index.Nodes(),
		IDMap:  s.idMap,
		NextID: s.nextID,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := hackpadfs.WriteFullFile(s.fs, s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	content, err := hackpadfs.ReadFile(s.fs, s.path)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	s.index = hnsw.FromNodes[vector.VF32](vector.SurfaceVF32(kvector.Cosine()), snap.Nodes)
	s.idMap = snap.IDMap
	s.nextID = snap.NextID
	s.revMap = make(map[uint32]string, len(snap.IDMap))
	for sceneID, uid := range snap.IDMap {
		s.revMap[uid] = sceneID
	}
	return nil
}

// vectorID gets or creates the uint32 key for a scene id.
// Caller holds the write lock.
func (s *Store) vectorID(sceneID string) uint32 {
	if uid, ok := s.idMap[sceneID]; ok {
		return uid
	}
	uid := s.nextID
	s.nextID++
	s.idMap[sceneID] = uid
	s.revMap[uid] = sceneID
	return uid
}
