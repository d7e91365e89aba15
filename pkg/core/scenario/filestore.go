// Package scenario persists deal configurations as named snapshots, either
// on disk as JSON files or in Postgres.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hjson/hjson-go/v4"

	"cre_underwriting/pkg/models"
)

// FileStore keeps one JSON file per scenario under a directory. Writes are
// atomic (temp file + rename) so a crash never leaves a half-written
// snapshot behind.
type FileStore struct {
	dir string
}

// NewFileStore ensures the directory exists and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the configuration under the given name.
func (s *FileStore) Save(name string, in *models.DealInputs) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("scenario name must not be empty")
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace scenario file: %w", err)
	}
	return nil
}

// Load reads a snapshot and merges its keys over the base configuration:
// fields absent from the file keep their base values, so older snapshots
// saved before a field existed still load. Parsing is tolerant of comments
// and trailing commas in hand-edited files.
func (s *FileStore) Load(name string, base *models.DealInputs) (*models.DealInputs, error) {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %q: %w", name, err)
	}

	var fileKeys map[string]interface{}
	if err := hjson.Unmarshal(raw, &fileKeys); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %q: %w", name, err)
	}

	merged := map[string]interface{}{}
	if base != nil {
		baseJSON, err := json.Marshal(base)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal base configuration: %w", err)
		}
		if err := json.Unmarshal(baseJSON, &merged); err != nil {
			return nil, fmt.Errorf("failed to expand base configuration: %w", err)
		}
	}
	for k, v := range fileKeys {
		merged[k] = v
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to merge scenario %q: %w", name, err)
	}
	var out models.DealInputs
	if err := json.Unmarshal(mergedJSON, &out); err != nil {
		return nil, fmt.Errorf("scenario %q has incompatible values: %w", name, err)
	}
	return &out, nil
}

// List returns saved scenario names in sorted order.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a snapshot. Deleting a missing scenario is an error so
// callers can surface typos.
func (s *FileStore) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete scenario %q: %w", name, err)
	}
	return nil
}
