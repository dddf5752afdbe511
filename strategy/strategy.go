// Package strategy carries the compiled-in default parameter tables.
//
// Each strategy contributes a base ParamSet plus per-(symbol, timeframe)
// overrides; the tables are merged with config.WithDefaults and handed to a
// Registrar during start-up.
package strategy

import (
	"fmt"
	"sort"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/types"
)

// Registrar receives the built-in entries. *registry.Registry satisfies it.
type Registrar interface {
	Register(key types.Key, set config.ParamSet) error
}

// entry is one row of a compiled-in table.
type entry struct {
	symbol    string
	timeframe types.Timeframe
	overrides config.Overrides
}

// table is everything a strategy contributes.
type table struct {
	defaults func() config.ParamSet
	entries  []entry
	legacy   []config.LegacyBearsPowerParams
}

var tables = map[string]table{
	BearsPower: bearsPowerTable,
}

// Names lists the strategies with compiled-in tables.
func Names() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the base ParamSet of the named strategy.
func Defaults(name string) (config.ParamSet, bool) {
	t, ok := tables[name]
	if !ok {
		return config.ParamSet{}, false
	}
	return t.defaults(), true
}

// Register hands every compiled-in entry of the named strategy to r.
func Register(name string, r Registrar) error {
	t, ok := tables[name]
	if !ok {
		return fmt.Errorf("no built-in tables for strategy %q", name)
	}
	base := t.defaults()
	for _, e := range t.entries {
		key := types.Key{Strategy: name, Symbol: e.symbol, Timeframe: e.timeframe}
		if err := r.Register(key, config.WithDefaults(base, e.overrides)); err != nil {
			return err
		}
	}
	for _, l := range t.legacy {
		key, set, err := config.Normalize(name, base, l)
		if err != nil {
			return err
		}
		if err := r.Register(key, set); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll registers the tables of every known strategy.
func RegisterAll(r Registrar) error {
	for _, name := range Names() {
		if err := Register(name, r); err != nil {
			return err
		}
	}
	return nil
}
