// Package prefs persists small key-value preference records on local disk:
// catalog filter settings, favorite movies and the user profile.
//
// Each record lives in its own named file, <dir>/<name>.json, holding a flat
// JSON object. Writes are atomic (temp file + rename).
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Preference file names
const (
	FiltersName   = "filter_preferences"
	FavoritesName = "favorites_preferences"
	ProfileName   = "profile_prefs"
)

// Values is the decoded content of a preference file
type Values map[string]json.RawMessage

var nameRE = regexp.MustCompile(`^[a-z0-9_]+$`)

// File is a single named preference file
type File struct {
	dir  string
	name string
	mu   sync.Mutex
}

// OpenFile returns the preference file name inside dir. The file itself is
// created on first write.
func OpenFile(dir, name string) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("preference directory is required")
	}
	dir = filepath.Clean(strings.TrimSpace(dir))
	if !nameRE.MatchString(name) {
		return nil, fmt.Errorf("invalid preference name: %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}
	return &File{dir: dir, name: name}, nil
}

// Path returns the on-disk location of the file
func (f *File) Path() string {
	return filepath.Join(f.dir, f.name+".json")
}

// Read returns the stored values. A missing file reads as empty.
func (f *File) Read() (Values, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Edit runs fn on the stored values and writes the result back atomically
func (f *File) Edit(fn func(Values) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if err := fn(values); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.name, err)
	}
	if err := writeFileAtomic(f.dir, f.name+".json", data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.name, err)
	}
	return nil
}

func (f *File) read() (Values, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.name, err)
	}

	values := Values{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.name, err)
	}
	return values, nil
}

// String returns the string stored at key, or "" when absent or mistyped
func (v Values) String(key string) string {
	var s string
	if raw, ok := v[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// Bool returns the bool stored at key, or false when absent or mistyped
func (v Values) Bool(key string) bool {
	var b bool
	if raw, ok := v[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

// Strings returns the string list stored at key
func (v Values) Strings(key string) []string {
	var s []string
	if raw, ok := v[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// Set encodes value at key
func (v Values) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	v[key] = raw
	return nil
}
