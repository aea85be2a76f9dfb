package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all namespaces in one JSON document. Every write
// rewrites the file through a temporary sibling and a rename.
type FileStore struct {
	filePath string
	mu       sync.Mutex
	data     map[string]map[string]string
}

func NewFileStore(filePath string) (*FileStore, error) {
	fs := &FileStore{
		filePath: filePath,
		data:     make(map[string]map[string]string),
	}
	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", filePath, err)
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	return json.NewDecoder(file).Decode(&fs.data)
}

func (fs *FileStore) save() error {
	dir := filepath.Dir(fs.filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.filePath)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fs.data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.filePath)
}

func (fs *FileStore) Get(_ context.Context, namespace, key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	value, ok := fs.data[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (fs *FileStore) Set(_ context.Context, namespace, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	ns, ok := fs.data[namespace]
	if !ok {
		ns = make(map[string]string)
		fs.data[namespace] = ns
	}
	ns[key] = value
	if err := fs.save(); err != nil {
		return fmt.Errorf("save local store: %w", err)
	}
	return nil
}

func (fs *FileStore) Delete(_ context.Context, namespace, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	ns, ok := fs.data[namespace]
	if !ok {
		return nil
	}
	if _, ok := ns[key]; !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(fs.data, namespace)
	}
	if err := fs.save(); err != nil {
		return fmt.Errorf("save local store: %w", err)
	}
	return nil
}

func (fs *FileStore) DeleteNamespace(_ context.Context, namespace string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.data[namespace]; !ok {
		return nil
	}
	delete(fs.data, namespace)
	if err := fs.save(); err != nil {
		return fmt.Errorf("save local store: %w", err)
	}
	return nil
}
