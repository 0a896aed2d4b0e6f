package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the fixed resource-relative name of the config file.
const FileName = "config.json"

// ErrNotFound is returned by Storage.Read when nothing has been persisted yet.
var ErrNotFound = errors.New("config not found")

// Storage persists the serialized configuration.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// IOError reports a config read, write or decode failure.
type IOError struct {
	Op   string // "read", "decode", "encode", "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FileStorage stores the config as a JSON file.
type FileStorage struct {
	path string
}

// NewFileStorage stores config.json inside dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{path: filepath.Join(dir, FileName)}
}

// NewFileStorageAt stores the config at an explicit path.
func NewFileStorageAt(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Write replaces the file through a temp file + rename so readers never see a
// half-written config.
func (s *FileStorage) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
