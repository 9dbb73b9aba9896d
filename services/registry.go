package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/reserved/db"
	"github.com/yourusername/reserved/metrics"
	"github.com/yourusername/reserved/models"
	"go.uber.org/zap"
)

// CacheTTL is how long a cache record is trusted before falling back.
const CacheTTL = 24 * time.Hour

// Hooks receive lifecycle signals. Every field is optional.
type Hooks struct {
	OnReady      func()
	OnError      func(err error)
	OnUpdated    func(count int)
	OnFetchError func(err error)
}

type Options struct {
	CaseSensitive  bool
	CustomReserved []string
	AutoUpdate     bool
	// Store persists the fetched list. Nil disables caching.
	Store CacheStore
	// Source provides the authoritative list. Nil disables refreshes.
	Source Source
	Logger *zap.SugaredLogger
	Hooks  Hooks
	Now    func() time.Time
}

// Registry holds the reserved username set. It is safe for concurrent use.
// Names added through CustomReserved, Add and Import form an overlay that is
// re-applied after every remote refresh.
type Registry struct {
	mu            sync.RWMutex
	names         map[string]struct{}
	overlay       map[string]struct{}
	caseSensitive bool
	ready         bool

	store  CacheStore
	source Source
	log    *zap.SugaredLogger
	hooks  Hooks
	now    func() time.Time
}

// New builds a registry and runs initialization to completion: cache record,
// embedded fallback, optional remote refresh, then custom names. A failed
// refresh is not an initialization error; it is reported through
// Hooks.OnFetchError and the registry keeps the cached or fallback set.
func New(ctx context.Context, opts Options) (*Registry, error) {
	r := &Registry{
		names:         make(map[string]struct{}),
		overlay:       make(map[string]struct{}),
		caseSensitive: opts.CaseSensitive,
		store:         opts.Store,
		source:        opts.Source,
		log:           opts.Logger,
		hooks:         opts.Hooks,
		now:           opts.Now,
	}
	if r.log == nil {
		r.log = zap.NewNop().Sugar()
	}
	if r.now == nil {
		r.now = time.Now
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	r.replace(r.initialNames(ctx))

	if opts.AutoUpdate {
		// Reported through hooks; the registry stays usable.
		_, _ = r.ForceUpdate(ctx)
	}

	r.Add(opts.CustomReserved...)

	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
	r.log.Infow("reserved registry ready", "count", r.Count(), "caseSensitive", r.caseSensitive)
	if r.hooks.OnReady != nil {
		r.hooks.OnReady()
	}
	return r, nil
}

// NewFromConfig wires the cache store and remote source described by cfg.
func NewFromConfig(ctx context.Context, cfg *Config, logger *zap.SugaredLogger, hooks Hooks) (*Registry, error) {
	db.SetLogger(logger)
	store, err := NewCacheStore(ctx, cfg)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInitialization, err)
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
		return nil, err
	}
	return New(ctx, Options{
		CaseSensitive:  cfg.CaseSensitive,
		CustomReserved: cfg.CustomReserved,
		AutoUpdate:     cfg.AutoUpdate,
		Store:          store,
		Source:         NewHTTPSource(cfg.Sources, cfg.FetchTimeout),
		Logger:         logger,
		Hooks:          hooks,
	})
}

func (r *Registry) fail(err error) error {
	err = fmt.Errorf("%w: %w", ErrInitialization, err)
	r.log.Errorw("reserved registry initialization failed", "error", err)
	if r.hooks.OnError != nil {
		r.hooks.OnError(err)
	}
	return err
}

// initialNames returns the cached list when fresh, otherwise the fallback.
func (r *Registry) initialNames(ctx context.Context) []string {
	if r.store == nil {
		return FallbackUsernames()
	}
	rec, err := r.store.Load(ctx)
	metrics.ObserveCache("load", err)
	switch {
	case err != nil:
		r.log.Warnw("reserved cache unreadable, using fallback list", "store", r.store.Describe(), "error", err)
	case rec == nil:
		r.log.Debugw("no reserved cache record, using fallback list", "store", r.store.Describe())
	case !rec.IsFresh(r.now(), CacheTTL):
		r.log.Infow("reserved cache record is stale, using fallback list", "fetchedAt", rec.FetchedAt())
	default:
		return rec.Usernames
	}
	return FallbackUsernames()
}

// replace swaps the base set and re-applies the overlay.
func (r *Registry) replace(names []string) {
	set := make(map[string]struct{}, len(names)+len(r.overlay))
	for _, n := range normalizeAll(names, r.caseSensitive) {
		set[n] = struct{}{}
	}
	r.mu.Lock()
	for n := range r.overlay {
		set[n] = struct{}{}
	}
	r.names = set
	size := len(set)
	r.mu.Unlock()
	metrics.SetSize.Set(float64(size))
}

// Add merges names into the set and returns how many were new.
func (r *Registry) Add(names ...string) int {
	added := 0
	r.mu.Lock()
	for _, n := range normalizeAll(names, r.caseSensitive) {
		r.overlay[n] = struct{}{}
		if _, ok := r.names[n]; !ok {
			r.names[n] = struct{}{}
			added++
		}
	}
	size := len(r.names)
	r.mu.Unlock()
	metrics.SetSize.Set(float64(size))
	return added
}

func (r *Registry) IsReserved(name string) bool {
	n := Normalize(name, r.caseSensitive)
	if n == "" {
		return false
	}
	r.mu.RLock()
	_, ok := r.names[n]
	r.mu.RUnlock()
	metrics.ObserveLookup(ok)
	return ok
}

// has expects n to be normalized and the read lock to be held.
func (r *Registry) has(n string) bool {
	if n == "" {
		return false
	}
	_, ok := r.names[n]
	return ok
}

// CheckMultiple reports membership for each name, keeping order and
// duplicates. A nil slice is rejected with ErrInvalidArgument.
func (r *Registry) CheckMultiple(names []string) ([]models.CheckResult, error) {
	if names == nil {
		return nil, fmt.Errorf("%w: names must be a list", ErrInvalidArgument)
	}
	out := make([]models.CheckResult, len(names))
	for i, n := range names {
		out[i] = models.CheckResult{Name: n, IsReserved: r.IsReserved(n)}
	}
	return out, nil
}

// GetAll returns a sorted snapshot of the set.
func (r *Registry) GetAll() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

func (r *Registry) CaseSensitive() bool { return r.caseSensitive }

// ForceUpdate fetches the remote list regardless of cache age, replaces the
// set with it and persists a new cache record. On failure the set is left
// untouched and the error, wrapping ErrFetch, is also sent to OnFetchError.
func (r *Registry) ForceUpdate(ctx context.Context) (int, error) {
	if r.source == nil {
		err := fmt.Errorf("%w: no remote source configured", ErrFetch)
		r.fetchFailed(err)
		return r.Count(), err
	}
	names, err := r.source.Fetch(ctx)
	if err == nil && len(names) == 0 {
		err = fmt.Errorf("%w: remote list is empty", ErrFetch)
	}
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			err = fmt.Errorf("%w: %w", ErrFetch, err)
		}
		r.fetchFailed(err)
		return r.Count(), err
	}

	r.replace(names)
	if r.store != nil {
		rec := models.NewCacheRecord(normalizeAll(names, r.caseSensitive), r.now())
		serr := r.store.Save(ctx, rec)
		metrics.ObserveCache("save", serr)
		if serr != nil {
			r.log.Warnw("failed to write reserved cache record", "store", r.store.Describe(), "error", serr)
		}
	}
	count := r.Count()
	metrics.Refreshes.WithLabelValues("ok").Inc()
	r.log.Infow("reserved list refreshed", "count", count)
	if r.hooks.OnUpdated != nil {
		r.hooks.OnUpdated(count)
	}
	return count, nil
}

func (r *Registry) fetchFailed(err error) {
	metrics.Refreshes.WithLabelValues("error").Inc()
	r.log.Warnw("reserved list refresh failed, keeping current set", "error", err)
	if r.hooks.OnFetchError != nil {
		r.hooks.OnFetchError(err)
	}
}

// ClearCache removes the persisted cache record. The in-memory set is kept.
// It reports whether a record was deleted and never fails.
func (r *Registry) ClearCache(ctx context.Context) bool {
	if r.store == nil {
		return false
	}
	deleted, err := r.store.Delete(ctx)
	metrics.ObserveCache("delete", err)
	if err != nil {
		r.log.Warnw("failed to clear reserved cache", "store", r.store.Describe(), "error", err)
		return false
	}
	return deleted
}
