package game

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrLocationNotFound = errors.New("no location at coordinate")

// LocationStore maps grid coordinates to location descriptions. It is
// read-only once loaded.
type LocationStore struct {
	descriptions map[Coordinate]string
}

func LoadLocations(path string) (*LocationStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open locations: %w", err)
	}
	defer f.Close()

	store, err := ParseLocations(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return store, nil
}

// ParseLocations reads a CSV table whose header names at least the x, y and
// description columns. When several rows share a coordinate the first one
// wins.
func ParseLocations(r io.Reader) (*LocationStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("location table is empty")
	}
	if err != nil {
		return nil, err
	}

	columns := map[string]int{"x": -1, "y": -1, "description": -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if idx, ok := columns[name]; ok && idx == -1 {
			columns[name] = i
		}
	}
	for _, name := range []string{"x", "y", "description"} {
		if columns[name] == -1 {
			return nil, fmt.Errorf("location table has no %q column", name)
		}
	}

	store := &LocationStore{descriptions: make(map[Coordinate]string)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) <= columns["x"] || len(record) <= columns["y"] || len(record) <= columns["description"] {
			return nil, fmt.Errorf("line %d: too few columns", line)
		}
		x, err := strconv.Atoi(strings.TrimSpace(record[columns["x"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x: %w", line, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(record[columns["y"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y: %w", line, err)
		}

		c := Coordinate{X: x, Y: y}
		if _, exists := store.descriptions[c]; !exists {
			store.descriptions[c] = record[columns["description"]]
		}
	}

	return store, nil
}

func (s *LocationStore) Lookup(c Coordinate) (string, error) {
	description, ok := s.descriptions[c]
	if !ok {
		return "", fmt.Errorf("%w %s", ErrLocationNotFound, c)
	}
	return description, nil
}

func (s *LocationStore) Len() int {
	return len(s.descriptions)
}
