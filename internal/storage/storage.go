package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
)

// DefaultDataDir is used when no data directory is configured.
const DefaultDataDir = "~/.local/share/court-calendar"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Storage handles persistence of hearing snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed.
func New(dataDir string) (*Storage, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dir}, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}

// DataDir returns the resolved data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// SnapshotPath returns the snapshot file for a search key
func (s *Storage) SnapshotPath(key string) string {
	key = unsafeKeyChars.ReplaceAllString(strings.TrimSpace(key), "_")
	if key == "" || strings.EqualFold(key, "all") {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", strings.ToUpper(key)))
}

// LoadSnapshot loads the snapshot for key. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot(key string) (*hearing.Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return hearing.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot hearing.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Cases == nil {
		snapshot.Cases = make(map[string]hearing.Case)
	}
	if snapshot.StableIndex == nil {
		snapshot.StableIndex = make(map[string]string, len(snapshot.Cases))
		for id, c := range snapshot.Cases {
			snapshot.StableIndex[c.StableKey()] = id
		}
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk, stamping UpdatedAt.
func (s *Storage) SaveSnapshot(snapshot *hearing.Snapshot, key string) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	// write then rename so an interrupted run never leaves a truncated snapshot
	path := s.SnapshotPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// SaveCases creates and saves a snapshot from a list of cases
func (s *Storage) SaveCases(cases []hearing.Case, key string) error {
	snapshot := hearing.CreateSnapshot(cases, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, key)
}

// GetCaseByID retrieves a hearing by ID from the snapshot for key
func (s *Storage) GetCaseByID(key, id string) (hearing.Case, error) {
	snapshot, err := s.LoadSnapshot(key)
	if err != nil {
		return hearing.Case{}, fmt.Errorf("loading snapshot: %w", err)
	}

	if c, exists := snapshot.Cases[id]; exists {
		return c, nil
	}

	return hearing.Case{}, fmt.Errorf("hearing not found: %s", id)
}
