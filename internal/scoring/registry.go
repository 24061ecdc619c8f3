package scoring

import (
	"bytes"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// ArtifactStore reads serialized model bundles by name.
type ArtifactStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type ModelRegistry interface {
	Load(ctx context.Context, category model.Category) (*ModelBundle, error)
}

// Registry loads each category's bundle once and serves it from memory for
// the lifetime of the process.
type Registry struct {
	store    ArtifactStore
	fileName func(model.Category) string

	mu      sync.RWMutex
	bundles map[model.Category]*ModelBundle
	group   singleflight.Group
}

// NewRegistry builds a registry; fileName maps a category to the artifact
// name inside the store.
func NewRegistry(store ArtifactStore, fileName func(model.Category) string) *Registry {
	if fileName == nil {
		fileName = func(c model.Category) string { return c.Slug() + ".json" }
	}
	return &Registry{
		store:    store,
		fileName: fileName,
		bundles:  make(map[model.Category]*ModelBundle),
	}
}

func (r *Registry) Load(ctx context.Context, category model.Category) (*ModelBundle, error) {
	r.mu.RLock()
	b, ok := r.bundles[category]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := r.group.Do(string(category), func() (interface{}, error) {
		r.mu.RLock()
		cached, ok := r.bundles[category]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		bundle, err := r.read(ctx, category)
		if err != nil {
			logger.Log.Error("load model bundle failed",
				zap.String("category", category.String()),
				zap.Error(err))
			return nil, util.NewModelUnavailableError(category.String(), err)
		}
		monitoring.ObserveModelLoad(category.String(), time.Since(start))

		r.mu.Lock()
		r.bundles[category] = bundle
		r.mu.Unlock()
		logger.Log.Info("model bundle loaded",
			zap.String("category", category.String()),
			zap.String("version", bundle.Version),
			zap.Int("outputs", len(bundle.Outputs)))
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ModelBundle), nil
}

// Preload loads the given categories eagerly and returns the first failure.
func (r *Registry) Preload(ctx context.Context, categories ...model.Category) error {
	for _, c := range categories {
		if _, err := r.Load(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) read(ctx context.Context, category model.Category) (*ModelBundle, error) {
	name := r.fileName(category)
	rc, err := r.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	bundle, err := DecodeBundle(name, data)
	if err != nil {
		return nil, err
	}
	if bundle.Category == "" {
		bundle.Category = category
	}
	if bundle.Category != category {
		return nil, fmt.Errorf("%s holds a %s bundle, want %s", name, bundle.Category, category)
	}
	return bundle, nil
}

// DecodeBundle decodes and validates a bundle; the format follows the file
// extension (.yaml/.yml, otherwise JSON).
func DecodeBundle(name string, data []byte) (*ModelBundle, error) {
	var b ModelBundle
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle %s: %w", name, err)
	}
	return &b, nil
}

// MemoryStore is an ArtifactStore over in-memory files.
type MemoryStore map[string][]byte

func (m MemoryStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// StaticRegistry serves prebuilt bundles; categories without one are
// reported as unavailable.
type StaticRegistry map[model.Category]*ModelBundle

// NewStaticRegistry validates the bundles and keys them by category.
func NewStaticRegistry(bundles ...*ModelBundle) (StaticRegistry, error) {
	reg := make(StaticRegistry, len(bundles))
	for _, b := range bundles {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%s bundle: %w", b.Category, err)
		}
		reg[b.Category] = b
	}
	return reg, nil
}

func (s StaticRegistry) Load(_ context.Context, category model.Category) (*ModelBundle, error) {
	b, ok := s[category]
	if !ok {
		return nil, util.NewModelUnavailableError(category.String(), os.ErrNotExist)
	}
	return b, nil
}
