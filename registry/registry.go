// Package registry holds the write-once table of default parameter record
// pairs keyed by (strategy, symbol, timeframe).
//
// A Registry is populated during start-up, sealed, and read concurrently
// afterwards. Sealing is the barrier: once Seal returns no writer can run, so
// lookups on a sealed registry read the table without taking the lock.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/logger"
	"github.com/evdnx/gotsparams/metrics"
	"github.com/evdnx/gotsparams/types"
)

var (
	ErrNotFound  = errors.New("parameters not found")
	ErrSealed    = errors.New("registry is sealed")
	ErrDuplicate = errors.New("parameters already registered")
	ErrMalformed = config.ErrMalformed
)

type Registry struct {
	mu      sync.RWMutex
	entries map[types.Key]config.ParamSet
	sealed  atomic.Bool
	once    sync.Once
	log     logger.Logger
}

// New returns an empty, unsealed registry. A nil logger discards output.
func New(log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		entries: make(map[types.Key]config.ParamSet),
		log:     log,
	}
}

// Entry is one registry row.
type Entry struct {
	Key types.Key
	Set config.ParamSet
}

// CheckKey reports keys the registry cannot hold: empty strategy or symbol,
// a ':' in either (reserved as the snapshot key separator), or an unknown
// timeframe.
func CheckKey(key types.Key) error {
	if key.Strategy == "" || key.Symbol == "" {
		return fmt.Errorf("%w: incomplete key %q", ErrMalformed, key)
	}
	if strings.Contains(key.Strategy, ":") || strings.Contains(key.Symbol, ":") {
		return fmt.Errorf("%w: key %q contains ':'", ErrMalformed, key)
	}
	if !key.Timeframe.Valid() {
		return fmt.Errorf("%w: unsupported timeframe %q", ErrMalformed, key.Timeframe)
	}
	return nil
}

// Register adds the record pair for key. Field values are stored as given;
// range checks belong to whoever produced them.
func (r *Registry) Register(key types.Key, set config.ParamSet) error {
	return r.RegisterBatch([]Entry{{Key: key, Set: set}})
}

// RegisterBatch adds every entry or none of them.
func (r *Registry) RegisterBatch(entries []Entry) error {
	for _, e := range entries {
		if err := CheckKey(e.Key); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return fmt.Errorf("register: %w", ErrSealed)
	}
	batch := make(map[types.Key]struct{}, len(entries))
	for _, e := range entries {
		_, exists := r.entries[e.Key]
		_, repeated := batch[e.Key]
		if exists || repeated {
			r.log.Warn("params_duplicate", logger.Stringer("key", e.Key))
			return fmt.Errorf("register %s: %w", e.Key, ErrDuplicate)
		}
		batch[e.Key] = struct{}{}
	}
	for _, e := range entries {
		r.entries[e.Key] = e.Set
	}
	return nil
}

// Has reports whether key is registered. It does not count as a lookup.
func (r *Registry) Has(key types.Key) bool {
	if r.sealed.Load() {
		_, ok := r.entries[key]
		return ok
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Seal closes the registry for writes. Calling it more than once is a no-op.
func (r *Registry) Seal() {
	r.once.Do(func() {
		r.mu.Lock()
		r.sealed.Store(true)
		n := len(r.entries)
		perStrategy := lo.CountValuesBy(lo.Keys(r.entries), func(k types.Key) string { return k.Strategy })
		r.mu.Unlock()
		for name, count := range perStrategy {
			metrics.EntriesRegistered.WithLabelValues(name).Set(float64(count))
		}
		r.log.Info("registry_sealed", logger.Int("entries", n))
	})
}

// Sealed reports whether Seal has run.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Get returns a copy of the record pair for key, or ErrNotFound.
func (r *Registry) Get(key types.Key) (config.ParamSet, error) {
	var (
		set config.ParamSet
		ok  bool
	)
	if r.sealed.Load() {
		set, ok = r.entries[key]
	} else {
		r.mu.RLock()
		set, ok = r.entries[key]
		r.mu.RUnlock()
	}
	if !ok {
		metrics.Lookups.WithLabelValues(key.Strategy, "not_found").Inc()
		r.log.Warn("params_not_found", logger.Stringer("key", key))
		return config.ParamSet{}, fmt.Errorf("lookup %s: %w", key, ErrNotFound)
	}
	metrics.Lookups.WithLabelValues(key.Strategy, "hit").Inc()
	return set, nil
}

// Lookup returns the indicator and strategy defaults for the triple. Unknown
// combinations fail with ErrNotFound and zero-value records; nothing is
// synthesized.
func (r *Registry) Lookup(strategy, symbol string, tf types.Timeframe) (config.IndicatorParams, config.StrategyParams, error) {
	set, err := r.Get(types.Key{Strategy: strategy, Symbol: symbol, Timeframe: tf})
	if err != nil {
		return config.IndicatorParams{}, config.StrategyParams{}, err
	}
	return set.Indicator, set.Strategy, nil
}

// Keys returns all registered keys ordered by strategy, symbol and timeframe
// length. A non-empty strategy restricts the result to that strategy.
func (r *Registry) Keys(strategy string) []types.Key {
	r.mu.RLock()
	keys := lo.Keys(r.entries)
	r.mu.RUnlock()

	if strategy != "" {
		keys = lo.Filter(keys, func(k types.Key, _ int) bool { return k.Strategy == strategy })
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Strategy != b.Strategy {
			return a.Strategy < b.Strategy
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Timeframe.Duration() < b.Timeframe.Duration()
	})
	return keys
}

// Entries returns every row in Keys order without touching lookup metrics.
func (r *Registry) Entries() []Entry {
	keys := r.Keys("")
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(keys, func(k types.Key, _ int) Entry {
		return Entry{Key: k, Set: r.entries[k]}
	})
}

// Len returns the number of registered record pairs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
