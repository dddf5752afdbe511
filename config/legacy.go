package config

import (
	"strings"

	"github.com/evdnx/gotsparams/types"
)

// LegacyBearsPowerParams is the older flat encoding of a Bears Power record:
// one struct keyed by symbol and timeframe with BearsPower_-prefixed fields.
// It is only read; Normalize turns it into the canonical ParamSet.
type LegacyBearsPowerParams struct {
	Symbol    string `yaml:"symbol"`
	Timeframe string `yaml:"tf"`

	Period               int     `yaml:"BearsPower_Period"`
	AppliedPrice         int     `yaml:"BearsPower_Applied_Price"`
	Shift                int     `yaml:"BearsPower_Shift"`
	TrailingStopMethod   int     `yaml:"BearsPower_TrailingStopMethod"`
	TrailingProfitMethod int     `yaml:"BearsPower_TrailingProfitMethod"`
	SignalOpenLevel      float64 `yaml:"BearsPower_SignalOpenLevel"`
	SignalBaseMethod     int     `yaml:"BearsPower_SignalBaseMethod"`
	SignalOpenMethod1    int     `yaml:"BearsPower_SignalOpenMethod1"`
	SignalOpenMethod2    int     `yaml:"BearsPower_SignalOpenMethod2"`
	SignalCloseLevel     float64 `yaml:"BearsPower_SignalCloseLevel"`
	SignalCloseMethod1   int     `yaml:"BearsPower_SignalCloseMethod1"`
	SignalCloseMethod2   int     `yaml:"BearsPower_SignalCloseMethod2"`
	MaxSpread            float64 `yaml:"BearsPower_MaxSpread"`
}

// Normalize maps a legacy record onto base. Fields the legacy shape does not
// carry (lot size, stop level, tick filter) keep their base values. The two
// legacy fields without a canonical slot must be zero, so no value is lost.
func Normalize(strategy string, base ParamSet, l LegacyBearsPowerParams) (types.Key, ParamSet, error) {
	tf, err := types.ParseTimeframe(trimPeriodPrefix(l.Timeframe))
	if err != nil {
		return types.Key{}, ParamSet{}, malformed("legacy record: %v", err)
	}
	if l.Symbol == "" {
		return types.Key{}, ParamSet{}, malformed("legacy record for %s has no symbol", tf)
	}
	if l.SignalCloseMethod2 != 0 {
		return types.Key{}, ParamSet{}, malformed("legacy %s %s: BearsPower_SignalCloseMethod2=%d has no canonical field",
			l.Symbol, tf, l.SignalCloseMethod2)
	}
	if l.TrailingProfitMethod != 0 {
		return types.Key{}, ParamSet{}, malformed("legacy %s %s: BearsPower_TrailingProfitMethod=%d has no canonical field",
			l.Symbol, tf, l.TrailingProfitMethod)
	}

	ps := base
	ps.Indicator = IndicatorParams{
		AppliedPrice: types.AppliedPrice(l.AppliedPrice),
		Period:       l.Period,
		Shift:        l.Shift,
	}
	ps.Strategy.SignalOpenMethod = l.SignalBaseMethod
	ps.Strategy.SignalOpenFilter = l.SignalOpenMethod1
	ps.Strategy.SignalOpenBoost = l.SignalOpenMethod2
	ps.Strategy.SignalOpenLevel = l.SignalOpenLevel
	ps.Strategy.SignalCloseMethod = l.SignalCloseMethod1
	ps.Strategy.SignalCloseLevel = l.SignalCloseLevel
	ps.Strategy.PriceStopMethod = l.TrailingStopMethod
	ps.Strategy.MaxSpread = l.MaxSpread

	key := types.Key{Strategy: strategy, Symbol: l.Symbol, Timeframe: tf}
	return key, ps, nil
}

// trimPeriodPrefix drops a PERIOD_ prefix in any case and leaves the rest
// as written, so "1m" stays a minute.
func trimPeriodPrefix(s string) string {
	const prefix = "PERIOD_"
	s = strings.TrimSpace(s)
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}
