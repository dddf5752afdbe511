package registry

import (
	"sync"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/strategy"
	"github.com/evdnx/gotsparams/types"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry holding the compiled-in tables.
// It is built and sealed on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := New(nil)
		// the compiled-in tables are fixed literals; failing here is a programming error
		if err := strategy.RegisterAll(r); err != nil {
			panic("registry: built-in tables: " + err.Error())
		}
		r.Seal()
		defaultReg = r
	})
	return defaultReg
}

// Lookup queries the default registry.
func Lookup(strategyName, symbol string, tf types.Timeframe) (config.IndicatorParams, config.StrategyParams, error) {
	return Default().Lookup(strategyName, symbol, tf)
}
