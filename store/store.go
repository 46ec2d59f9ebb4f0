// Package store is the persistence port: opaque JSON values under string
// keys. The core never looks inside what it saves.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tracklab/debug"
)

// KeyPrefix namespaces every saved key
const KeyPrefix = "bandscape_v2_"

// Store saves and loads JSON-serializable values
type Store interface {
	Save(key string, v any) error
	// Load decodes the value under key into v. found is false when the key
	// has never been saved.
	Load(key string, v any) (found bool, err error)
}

// Memory keeps encoded values in a map
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[KeyPrefix+key] = data
	return nil
}

func (m *Memory) Load(key string, v any) (bool, error) {
	m.mu.RLock()
	data, ok := m.data[KeyPrefix+key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Keys lists saved keys without the prefix
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, strings.TrimPrefix(k, KeyPrefix))
	}
	return keys
}

// File stores each key as an indented JSON file in Dir
type File struct {
	Dir string
	mu  sync.Mutex
}

// NewFile creates a file store rooted at dir
func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.Dir, KeyPrefix+sanitizeKey(key)+".json")
}

func (f *File) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return err
	}

	// write then rename so a crash never leaves half a file
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	debug.Log("store", "saved %s (%d bytes)", key, len(data))
	return nil
}

func (f *File) Load(key string, v any) (bool, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path(key))
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// sanitizeKey removes characters that are problematic in filenames
func sanitizeKey(key string) string {
	r := strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return r.Replace(key)
}
