// Package prefs stores each visitor's interests, keyed by username.
// The last write for a username overwrites any prior entry.
package prefs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Profile struct {
	Interests []string `json:"interests"`
}

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) LoadAll() (map[string]Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// Get returns the stored profile for a username, reporting whether one exists.
func (r *FileRepository) Get(username string) (Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.loadUnlocked()
	if err != nil {
		return Profile{}, false, err
	}
	p, ok := all[username]
	return p, ok, nil
}

// Upsert replaces the profile stored for a username.
func (r *FileRepository) Upsert(username string, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	all, err := r.loadUnlocked()
	if err != nil {
		return err
	}
	all[username] = p
	return r.saveUnlocked(all)
}

func (r *FileRepository) loadUnlocked() (map[string]Profile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Profile{}, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if len(data) == 0 {
		return map[string]Profile{}, nil
	}
	var all map[string]Profile
	if err := json.Unmarshal(data, &all); err != nil {
		log.Printf("malformed prefs file %s, starting empty: %v", r.path, err)
		return map[string]Profile{}, nil
	}
	return all, nil
}

func (r *FileRepository) saveUnlocked(all map[string]Profile) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open prefs: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(all)
}

// ParseInterests splits the free-text interests field on commas and
// trims each entry. Empty entries are dropped.
func ParseInterests(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
