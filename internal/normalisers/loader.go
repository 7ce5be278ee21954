package normalisers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/logger"
	"github.com/strand-media/enricher/internal/normalisers/fieldmap"
)

// ObjectRef locates a mapping document in the object store.
type ObjectRef struct {
	// Bucket is the object store bucket name.
	Bucket string `json:"bucket" yaml:"bucket"`

	// Key is the object key within the bucket.
	Key string `json:"key" yaml:"key"`
}

// MappingSources names the layers a mapping configuration is merged
// from. Later layers override earlier ones field by field: object
// store, then file, then inline.
type MappingSources struct {
	// Inline is the highest-precedence layer, embedded in pipeline
	// configuration.
	Inline *fieldmap.MappingConfig

	// File is a JSON or YAML mapping document on disk. Edits are
	// picked up on the next load.
	File string

	// Object is the lowest-precedence layer, fetched from the object
	// store on every cache miss.
	Object *ObjectRef
}

// configured reports whether any layer is set.
func (s MappingSources) configured() bool {
	return s.Inline != nil || s.File != "" || s.Object != nil
}

// Ensure MappingLoader satisfies the mec config contract.
var _ interface {
	Mapping(ctx context.Context) (*fieldmap.MappingConfig, error)
} = (*MappingLoader)(nil)

// MappingLoader assembles the layered mapping configuration and caches
// the merged result. A filesystem watcher on the file layer drops the
// cache when the document changes, so long-running processes pick up
// edits without a restart. Callers must treat the returned config as
// read-only.
type MappingLoader struct {
	sources MappingSources
	store   driven.ObjectStore

	mu     sync.Mutex
	cached *fieldmap.MappingConfig

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
}

// NewMappingLoader validates the configured layers and starts the file
// watcher when a file layer is present. Close releases the watcher.
func NewMappingLoader(sources MappingSources, store driven.ObjectStore) (*MappingLoader, error) {
	if !sources.configured() {
		return nil, fmt.Errorf("mapping loader has no sources: %w", domain.ErrMissingConfig)
	}
	if sources.Object != nil {
		if sources.Object.Bucket == "" || sources.Object.Key == "" {
			return nil, fmt.Errorf("mapping object reference needs bucket and key: %w", domain.ErrInvalidInput)
		}
		if store == nil {
			return nil, fmt.Errorf("mapping layer %s/%s referenced but no object store configured: %w",
				sources.Object.Bucket, sources.Object.Key, domain.ErrMissingConfig)
		}
	}

	l := &MappingLoader{sources: sources, store: store}

	if sources.File != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("starting mapping file watcher: %w", err)
		}
		// Watch the directory, not the file. Editors that write via
		// rename replace the inode and a file watch would go stale.
		dir := filepath.Dir(sources.File)
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching mapping directory %s: %w", dir, err)
		}
		l.watcher = watcher
		go l.watchLoop()
	}

	return l, nil
}

// Mapping returns the merged mapping configuration, loading it on the
// first call and after each invalidation.
func (l *MappingLoader) Mapping(ctx context.Context) (*fieldmap.MappingConfig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	merged := fieldmap.MappingConfig{}
	if l.sources.Object != nil {
		layer, err := l.loadObject(ctx)
		if err != nil {
			return nil, err
		}
		merged = fieldmap.Merge(merged, *layer)
	}
	if l.sources.File != "" {
		layer, err := l.loadFile()
		if err != nil {
			return nil, err
		}
		merged = fieldmap.Merge(merged, *layer)
	}
	if l.sources.Inline != nil {
		merged = fieldmap.Merge(merged, *l.sources.Inline)
	}

	merged.ApplyDefaults()
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("mapping configuration invalid: %w", err)
	}

	l.cached = &merged
	return l.cached, nil
}

// Invalidate drops the cached configuration so the next Mapping call
// reloads every layer.
func (l *MappingLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// Close stops the file watcher. Safe to call more than once.
func (l *MappingLoader) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.watcher != nil {
			err = l.watcher.Close()
		}
	})
	return err
}

func (l *MappingLoader) loadFile() (*fieldmap.MappingConfig, error) {
	data, err := os.ReadFile(l.sources.File)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", l.sources.File, err)
	}
	cfg, err := decodeMapping(data, l.sources.File)
	if err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", l.sources.File, err)
	}
	return cfg, nil
}

func (l *MappingLoader) loadObject(ctx context.Context) (*fieldmap.MappingConfig, error) {
	ref := l.sources.Object
	data, err := l.store.GetObject(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return nil, fmt.Errorf("fetching mapping object %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	cfg, err := decodeMapping(data, ref.Key)
	if err != nil {
		return nil, fmt.Errorf("parsing mapping object %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	return cfg, nil
}

// decodeMapping parses a mapping document, choosing the codec from the
// file extension. Anything that is not YAML is treated as JSON.
func decodeMapping(data []byte, name string) (*fieldmap.MappingConfig, error) {
	var cfg fieldmap.MappingConfig
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (l *MappingLoader) watchLoop() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if l.handleEvent(event) {
				logger.Debug("Mapping file %s changed, cache invalidated", l.sources.File)
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Mapping file watcher: %v", err)
		}
	}
}

// handleEvent invalidates the cache for events on the watched mapping
// file. Returns whether the cache was dropped.
func (l *MappingLoader) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(l.sources.File) {
		return false
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	l.Invalidate()
	return true
}
