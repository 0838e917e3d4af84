package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shashiranjanraj/foodrun/pkg/crypt"
)

// File is a Store backed by a single JSON file. When an APP_KEY is
// configured the file contents are AES-GCM encrypted at rest; the stored
// token should not sit on disk in the clear.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file-backed store rooted at path. The parent directory is
// created on the first write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return false, err
	}
	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *File) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = raw
	return f.save(data)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

func (f *File) load() (map[string]json.RawMessage, error) {
	contents, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read %s: %w", f.path, err)
	}

	if crypt.Enabled() {
		plain, err := crypt.DecryptBytes(string(contents))
		if err != nil {
			return nil, fmt.Errorf("kvstore: decrypt %s: %w", f.path, err)
		}
		contents = plain
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(contents, &data); err != nil {
		return nil, fmt.Errorf("kvstore: parse %s: %w", f.path, err)
	}
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	return data, nil
}

func (f *File) save(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if crypt.Enabled() {
		enc, err := crypt.EncryptBytes(raw)
		if err != nil {
			return fmt.Errorf("kvstore: encrypt %s: %w", f.path, err)
		}
		raw = []byte(enc)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("kvstore: mkdir for %s: %w", f.path, err)
	}

	// Write-then-rename so a crash never leaves a half-written session file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kvstore: rename %s: %w", tmp, err)
	}
	return nil
}
