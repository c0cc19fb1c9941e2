package legaldocs

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/marketbridge-backend/internal/apierr"
	"github.com/yungbote/marketbridge-backend/internal/logger"
)

// Manifest is the document catalog: kind -> entry. Immutable once loaded; a
// changed file mod time replaces the whole snapshot.
type Manifest map[string]ManifestEntry

type ManifestEntry struct {
	Title   string               `yaml:"title"`
	Current int                  `yaml:"current"`
	Files   map[int]ManifestFile `yaml:"files"`
}

type ManifestFile struct {
	Path string `yaml:"path"`
	Vars int    `yaml:"vars"`
}

type Store struct {
	log          *logger.Logger
	src          FileSource
	baseDir      string
	manifestPath string

	manifest atomic.Pointer[manifestSnapshot]
	varSets  sync.Map // int version -> *varsSnapshot
}

type manifestSnapshot struct {
	modTime  time.Time
	manifest Manifest
}

type varsSnapshot struct {
	modTime time.Time
	values  map[string]interface{}
}

func NewStore(log *logger.Logger, src FileSource, baseDir, manifestPath string) *Store {
	return &Store{
		log:          log.With("service", "LegalDocStore"),
		src:          src,
		baseDir:      baseDir,
		manifestPath: manifestPath,
	}
}

// Manifest returns the document catalog, reloading it when the backing file's
// mod time differs from the cached one. Concurrent reloads are idempotent:
// each one parses the same immutable content and the last snapshot swap wins.
func (s *Store) Manifest() (Manifest, error) {
	mod, err := s.src.ModTime(s.manifestPath)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "manifest_invalid", fmt.Errorf("stat manifest: %w", err))
	}
	if snap := s.manifest.Load(); snap != nil && snap.modTime.Equal(mod) {
		return snap.manifest, nil
	}

	raw, err := s.src.ReadFile(s.manifestPath)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "manifest_invalid", fmt.Errorf("read manifest: %w", err))
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "manifest_invalid", fmt.Errorf("decode manifest: %w", err))
	}
	if len(manifest) == 0 {
		return nil, apierr.New(http.StatusInternalServerError, "manifest_invalid", fmt.Errorf("manifest exposes no documents"))
	}

	s.log.Debug("Manifest reloaded", "documents", len(manifest), "mod_time", mod)
	s.manifest.Store(&manifestSnapshot{modTime: mod, manifest: manifest})
	return manifest, nil
}

// VariableSet returns the substitution values for a numbered variable set,
// cached by mod time the same way the manifest is.
func (s *Store) VariableSet(version int) (map[string]interface{}, error) {
	path := filepath.Join(s.baseDir, fmt.Sprintf("vars_v%d.yaml", version))
	code := fmt.Sprintf("vars_not_found:v%d", version)

	mod, err := s.src.ModTime(path)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, code, fmt.Errorf("stat variable set v%d: %w", version, err))
	}
	if cached, ok := s.varSets.Load(version); ok {
		snap := cached.(*varsSnapshot)
		if snap.modTime.Equal(mod) {
			return snap.values, nil
		}
	}

	raw, err := s.src.ReadFile(path)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, code, fmt.Errorf("read variable set v%d: %w", version, err))
	}
	var values map[string]interface{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, code, fmt.Errorf("decode variable set v%d: %w", version, err))
	}

	s.log.Debug("Variable set reloaded", "version", version, "mod_time", mod)
	s.varSets.Store(version, &varsSnapshot{modTime: mod, values: values})
	return values, nil
}

// DocPath resolves a manifest-relative document path against the content dir.
func (s *Store) DocPath(rel string) string {
	return filepath.Join(s.baseDir, rel)
}
