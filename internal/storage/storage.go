package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vietkubers/quest-count/internal/ranking"
)

// SnapshotFile is the name of the snapshot inside the data directory
const SnapshotFile = "result.json"

// Storage handles persistence of result snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the path to the snapshot file
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, SnapshotFile)
}

// LoadSnapshot loads the last snapshot from disk
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			// No previous run
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Participants == nil {
		snapshot.Participants = make([]*Record, 0)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SaveBundle flattens and saves the result of a run
func (s *Storage) SaveBundle(b *ranking.Bundle, locs ranking.Locations) error {
	return s.SaveSnapshot(FromBundle(b, locs))
}

// GetRecord retrieves one participant from the last snapshot
func (s *Storage) GetRecord(email string) (*Record, error) {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if r := snapshot.Find(email); r != nil {
		return r, nil
	}

	return nil, fmt.Errorf("participant not found: %s", email)
}
