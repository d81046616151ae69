package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/seqfold/foldbatch/internal/batch"
)

// DiskStore writes summaries as JSON files to a lazily-created temp
// directory.
type DiskStore struct {
	mu  sync.Mutex
	dir string
}

// NewDiskStore creates a DiskStore. The underlying directory is created
// on the first Save.
func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

// Save writes a batch summary as a JSON file.
func (s *DiskStore) Save(sum *batch.Summary) error {
	dir, err := s.ensureDir()
	if err != nil {
		return err
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshalling batch %s: %w", sum.ID, err)
	}
	path := filepath.Join(dir, sum.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch %s: %w", sum.ID, err)
	}
	return nil
}

// Load reads a batch summary back from disk.
func (s *DiskStore) Load(batchID string) (*batch.Summary, error) {
	dir, err := s.ensureDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, batchID+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", batchID, err)
	}
	var sum batch.Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("unmarshalling batch %s: %w", batchID, err)
	}
	return &sum, nil
}

func (s *DiskStore) ensureDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		return s.dir, nil
	}
	dir, err := os.MkdirTemp("", "foldbatch-runs-*")
	if err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	s.dir = dir
	return dir, nil
}
