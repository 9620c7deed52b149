package oodle

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Registry caches which runtime revisions could be loaded.
// A loaded revision is kept for the life of the process. A failed probe is
// not remembered, so a library copied in later is picked up on the next call.
type Registry struct {
	probe  Prober
	logger *slog.Logger

	mu     sync.Mutex
	loaded map[Revision]Service
}

// NewRegistry returns a registry that loads revisions with probe.
func NewRegistry(probe Prober, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		probe:  probe,
		logger: logger,
		loaded: make(map[Revision]Service),
	}
}

// Lookup returns the service for rev, probing if it has not been loaded yet.
// Concurrent first calls may probe in parallel; the first success wins.
func (r *Registry) Lookup(rev Revision) (Service, error) {
	r.mu.Lock()
	svc, ok := r.loaded[rev]
	r.mu.Unlock()
	if ok {
		return svc, nil
	}

	svc, err := r.probe(rev)
	if err != nil {
		r.logger.Debug("oodle probe failed", "revision", rev.String(), "error", err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.loaded[rev]; ok {
		return prev, nil
	}
	r.loaded[rev] = svc
	r.logger.Debug("oodle runtime loaded", "revision", rev.String())
	return svc, nil
}

// Available reports whether rev can be loaded right now.
func (r *Registry) Available(rev Revision) bool {
	_, err := r.Lookup(rev)
	return err == nil
}

// ForLevel picks a service for a stream compressed at level, following
// PreferredRevisions and falling back to whichever revision is present.
func (r *Registry) ForLevel(level int) (Service, error) {
	var errs []error
	for _, rev := range PreferredRevisions(level) {
		svc, err := r.Lookup(rev)
		if err == nil {
			return svc, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrCodecUnavailable, errors.Join(errs...))
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
	defaultSearchDirs   []string
	defaultSearchMu     sync.Mutex
)

// SetSearchDirs sets extra directories the default registry looks in.
// It must be called before the first call to Default.
func SetSearchDirs(dirs []string) {
	defaultSearchMu.Lock()
	defer defaultSearchMu.Unlock()
	defaultSearchDirs = append([]string(nil), dirs...)
}

// Default returns the process-wide registry backed by native libraries.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultSearchMu.Lock()
		dirs := defaultSearchDirs
		defaultSearchMu.Unlock()
		defaultRegistry = NewRegistry(NewDiscovery(dirs, nil).Probe, nil)
	})
	return defaultRegistry
}
