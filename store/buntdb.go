package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/logger"
	"github.com/evdnx/gotsparams/metrics"
	"github.com/evdnx/gotsparams/registry"
	"github.com/evdnx/gotsparams/types"
)

const keyPrefix = "params:"

// BuntStore keeps a snapshot of registry tables in a BuntDB file.
type BuntStore struct {
	db  *buntdb.DB
	log logger.Logger
}

// FromMemory creates an in-memory store.
func FromMemory(log logger.Logger) (*BuntStore, error) {
	return Open(":memory:", log)
}

// Open opens or creates the BuntDB file at path.
func Open(path string, log logger.Logger) (*BuntStore, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}
	return &BuntStore{db: db, log: log}, nil
}

func storeKey(k types.Key) string {
	return keyPrefix + k.Strategy + ":" + k.Symbol + ":" + string(k.Timeframe)
}

func parseStoreKey(s string) (types.Key, error) {
	parts := strings.Split(strings.TrimPrefix(s, keyPrefix), ":")
	if len(parts) != 3 {
		return types.Key{}, fmt.Errorf("%w: bad store key %q", config.ErrMalformed, s)
	}
	return types.Key{Strategy: parts[0], Symbol: parts[1], Timeframe: types.Timeframe(parts[2])}, nil
}

// Save writes every entry of r in a single transaction, replacing entries
// stored under the same key.
func (s *BuntStore) Save(r *registry.Registry) (int, error) {
	entries := r.Entries()
	err := s.db.Update(func(tx *buntdb.Tx) error {
		for _, e := range entries {
			content, err := json.Marshal(e.Set)
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", e.Key, err)
			}
			if _, _, err := tx.Set(storeKey(e.Key), string(content), nil); err != nil {
				return fmt.Errorf("failed to store %s: %w", e.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("params_saved", logger.Int("records", len(entries)))
	return len(entries), nil
}

// LoadInto reads the snapshot, validates every record and only then
// registers them with reg as one batch. A corrupt record rejects the whole
// snapshot.
func (s *BuntStore) LoadInto(reg *registry.Registry) (int, error) {
	var rows []registry.Entry
	err := s.db.View(func(tx *buntdb.Tx) error {
		var iterErr error
		err := tx.AscendKeys(keyPrefix+"*", func(k, v string) bool {
			key, err := parseStoreKey(k)
			if err == nil {
				err = registry.CheckKey(key)
			}
			if err != nil {
				iterErr = err
				return false
			}
			var set config.ParamSet
			if err := json.Unmarshal([]byte(v), &set); err != nil {
				iterErr = fmt.Errorf("%w: %s: %v", config.ErrMalformed, k, err)
				return false
			}
			if err := set.Validate(); err != nil {
				iterErr = fmt.Errorf("%s: %w", k, err)
				return false
			}
			rows = append(rows, registry.Entry{Key: key, Set: set})
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over params: %w", err)
		}
		return iterErr
	})
	if err == nil {
		err = reg.RegisterBatch(rows)
	}
	if err != nil {
		metrics.LoadFailures.WithLabelValues("store").Inc()
		s.log.Error("params_load_failed", logger.String("source", "store"), logger.Err(err))
		return 0, err
	}
	s.log.Info("params_loaded", logger.String("source", "store"), logger.Int("records", len(rows)))
	return len(rows), nil
}

// Close closes the database.
func (s *BuntStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
