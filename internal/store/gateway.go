package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SADD1990/Taskmanager/internal/model"
)

// Gateway persists the whole store snapshot. Load must not fail just because
// no prior state exists; implementations return empty defaults instead.
type Gateway interface {
	Load() (model.Snapshot, error)
	Save(model.Snapshot) error
}

// FileGateway keeps the snapshot as a single JSON document on disk, the same
// shape the data file has always had.
type FileGateway struct {
	path string
}

func NewFileGateway(dataDir string) (*FileGateway, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileGateway{path: filepath.Join(dataDir, "data.json")}, nil
}

func (g *FileGateway) Load() (model.Snapshot, error) {
	empty := model.Snapshot{Clients: []model.Client{}, Tasks: []model.Task{}}

	b, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, fmt.Errorf("read snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return empty, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

func (g *FileGateway) Save(snap model.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(g.path, b, 0o644)
}
