package legaldocs

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileSource abstracts the content filesystem so cache invalidation can be
// exercised in tests by faking modification times.
type FileSource interface {
	ReadFile(path string) ([]byte, error)
	ModTime(path string) (time.Time, error)
}

type osSource struct{}

func OSSource() FileSource { return osSource{} }

func (osSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osSource) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// MapSource is an in-memory FileSource. Writing a path with a new mod time
// simulates a content deploy.
type MapSource struct {
	mu    sync.Mutex
	files map[string]mapFile
}

type mapFile struct {
	data []byte
	mod  time.Time
}

func NewMapSource() *MapSource {
	return &MapSource{files: map[string]mapFile{}}
}

func (s *MapSource) Put(path string, data []byte, mod time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = mapFile{data: data, mod: mod}
}

func (s *MapSource) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

func (s *MapSource) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return f.data, nil
}

func (s *MapSource) ModTime(path string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	if !ok {
		return time.Time{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return f.mod, nil
}
