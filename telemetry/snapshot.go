package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the actor state needed to resume a run on the same terrain.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	WorldWidth  int `json:"world_width"`
	WorldHeight int `json:"world_height"`
	Levels      int `json:"levels"`

	Tick int32 `json:"tick"`

	Entities []EntityState `json:"entities"`
}

// EntityState holds one actor and its sense source.
type EntityState struct {
	ID    string `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Level int    `json:"level"`

	Heading float32 `json:"heading"`
	Wander  float32 `json:"wander"`

	Kind      string  `json:"kind"`
	Intensity float32 `json:"intensity"`
	Enabled   bool    `json:"enabled"`
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
