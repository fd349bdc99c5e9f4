package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the chatroom history as a single JSON array that is
// read in full and rewritten in full on every mutation. The mutex only
// serializes writers within this process; independent processes sharing
// the file can still race each other on read-modify-write, and the last
// save wins. That matches how the chatroom has always behaved.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Initialize to an empty history on first run
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeFile(path, []Message{}); err != nil {
			return nil, fmt.Errorf("init history file: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads the full history. Malformed content is logged and treated
// as an empty history so a bad file never takes the room down.
func (s *Store) Load() ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnlocked()
}

// Append adds one record to the end of the history and rewrites the file.
func (s *Store) Append(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	msgs = append(msgs, msg)
	return s.saveUnlocked(msgs)
}

// Replace overwrites the whole history.
func (s *Store) Replace(msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveUnlocked(msgs)
}

// Raw returns the file's current bytes, for cheap change comparison.
func (s *Store) Raw() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.ReadFile(s.path)
}

func (s *Store) loadUnlocked() ([]Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		log.Printf("malformed history file %s, starting empty: %v", s.path, err)
		return []Message{}, nil
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

func (s *Store) saveUnlocked(msgs []Message) error {
	return writeFile(s.path, msgs)
}

// writeFile marshals to a temp file and renames it into place so a
// failed save never leaves a half-written history behind.
func writeFile(path string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}
