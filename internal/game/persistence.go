package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	DefaultSaveDir = "saves"

	// LatestSave names the most recent save file when passed to Load.
	LatestSave = "latest"

	saveLayout = "2006-01-02_15-04"
	savePrefix = "output_"
	saveSuffix = ".json"
)

var (
	ErrSaveNotFound = errors.New("save file not found")
	ErrSaveCorrupt  = errors.New("save file could not be parsed")
)

// SaveStore reads and writes session records under Dir. File names carry a
// minute-granularity timestamp, so two saves within the same minute share a
// name and the later one wins.
type SaveStore struct {
	Dir string
	Now func() time.Time
}

func NewSaveStore(dir string) *SaveStore {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &SaveStore{Dir: dir, Now: time.Now}
}

// LoadedGame is what a save contributes to a fresh session: the transcript
// without its leading preamble, plus the saved position and location.
type LoadedGame struct {
	Name         string
	Continuation []Message
	Position     Coordinate
	Location     string
}

func (s *SaveStore) FileName(t time.Time) string {
	return savePrefix + t.Format(saveLayout) + saveSuffix
}

func (s *SaveStore) Save(record SessionRecord) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(s.Dir, s.FileName(s.now()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write save: %w", err)
	}
	return path, nil
}

func (s *SaveStore) Load(name string) (*LoadedGame, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, LatestSave) {
		names, err := s.List()
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no saves in %s", ErrSaveNotFound, s.Dir)
		}
		name = names[0]
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save %s: %w", name, err)
	}

	var record SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSaveCorrupt, name, err)
	}

	var continuation []Message
	if len(record.Messages) > 1 {
		continuation = record.Messages[1:]
	}

	return &LoadedGame{
		Name:         name,
		Continuation: continuation,
		Position:     Coordinate{X: record.X, Y: record.Y},
		Location:     record.Location,
	}, nil
}

// List returns the save file names in Dir, newest first.
func (s *SaveStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, savePrefix) || !strings.HasSuffix(name, saveSuffix) {
			continue
		}
		names = append(names, name)
	}
	// The timestamp layout sorts lexically in time order.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *SaveStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
