package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

const appDir = "tictactoe"

// FileStore keeps all values of one game in a single JSON object on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath resolves the data file for name under $XDG_DATA_HOME.
func DefaultFilePath(name string) (string, error) {
	path, err := xdg.DataFile(filepath.Join(appDir, name+".json"))
	if err != nil {
		return "", fmt.Errorf("could not resolve data file: %w", err)
	}

	return path, nil
}

func (that *FileStore) Save(_ context.Context, key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	values, err := that.read()
	if err != nil && !errors.Is(err, ErrMalformed) {
		return err
	}

	if values == nil {
		values = make(map[string]json.RawMessage)
	}

	values[key] = data

	return that.write(values)
}

func (that *FileStore) Load(_ context.Context, key string, dst any) (bool, error) {
	that.mu.Lock()
	values, err := that.read()
	that.mu.Unlock()

	if err != nil {
		return false, err
	}

	data, ok := values[key]
	if !ok {
		return false, nil
	}

	if err = decode(data, dst); err != nil {
		return false, err
	}

	return true, nil
}

func (that *FileStore) ClearAll(_ context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := os.Remove(that.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not remove %s: %w", that.path, err)
	}

	return nil
}

// read returns nil values without error when the file does not exist.
func (that *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(that.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", that.path, err)
	}

	var values map[string]json.RawMessage
	if err = decode(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}

func (that *FileStore) write(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal values: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(that.path), 0o755); err != nil {
		return fmt.Errorf("could not create data dir: %w", err)
	}

	tmp := that.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}

	if err = os.Rename(tmp, that.path); err != nil {
		return fmt.Errorf("could not replace %s: %w", that.path, err)
	}

	return nil
}
