package config

import "github.com/evdnx/gotsparams/types"

// IndicatorOverrides lists the indicator fields a table entry sets on top of
// the strategy's base defaults. Nil keeps the base value.
type IndicatorOverrides struct {
	AppliedPrice *types.AppliedPrice `yaml:"applied_price"`
	Period       *int                `yaml:"period"`
	Shift        *int                `yaml:"shift"`
}

// StrategyOverrides is the StrategyParams counterpart of IndicatorOverrides.
type StrategyOverrides struct {
	LotSize           *float64 `yaml:"lot_size"`
	SignalOpenMethod  *int     `yaml:"signal_open_method"`
	SignalOpenFilter  *int     `yaml:"signal_open_filter"`
	SignalOpenLevel   *float64 `yaml:"signal_open_level"`
	SignalOpenBoost   *int     `yaml:"signal_open_boost"`
	SignalCloseMethod *int     `yaml:"signal_close_method"`
	SignalCloseLevel  *float64 `yaml:"signal_close_level"`
	PriceStopMethod   *int     `yaml:"price_stop_method"`
	PriceStopLevel    *float64 `yaml:"price_stop_level"`
	TickFilterMethod  *int     `yaml:"tick_filter_method"`
	MaxSpread         *float64 `yaml:"max_spread"`
}

// Overrides groups both override records of one table entry.
type Overrides struct {
	Indicator IndicatorOverrides `yaml:"indicator"`
	Strategy  StrategyOverrides  `yaml:"strategy"`
}

// WithDefaults returns base with every non-nil override applied. base is
// passed by value and never modified.
func WithDefaults(base ParamSet, o Overrides) ParamSet {
	merged := base

	ind := &merged.Indicator
	set(&ind.AppliedPrice, o.Indicator.AppliedPrice)
	set(&ind.Period, o.Indicator.Period)
	set(&ind.Shift, o.Indicator.Shift)

	stg := &merged.Strategy
	set(&stg.LotSize, o.Strategy.LotSize)
	set(&stg.SignalOpenMethod, o.Strategy.SignalOpenMethod)
	set(&stg.SignalOpenFilter, o.Strategy.SignalOpenFilter)
	set(&stg.SignalOpenLevel, o.Strategy.SignalOpenLevel)
	set(&stg.SignalOpenBoost, o.Strategy.SignalOpenBoost)
	set(&stg.SignalCloseMethod, o.Strategy.SignalCloseMethod)
	set(&stg.SignalCloseLevel, o.Strategy.SignalCloseLevel)
	set(&stg.PriceStopMethod, o.Strategy.PriceStopMethod)
	set(&stg.PriceStopLevel, o.Strategy.PriceStopLevel)
	set(&stg.TickFilterMethod, o.Strategy.TickFilterMethod)
	set(&stg.MaxSpread, o.Strategy.MaxSpread)

	return merged
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
