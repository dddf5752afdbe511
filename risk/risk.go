package risk

import "github.com/evdnx/gotsparams/config"

// ResolveLotSize returns the configured lot size, or engineDefault when the
// record leaves it at the 0 sentinel.
func ResolveLotSize(p config.StrategyParams, engineDefault float64) float64 {
	if p.LotSize == 0 {
		return engineDefault
	}
	return p.LotSize
}

// SpreadAdmits reports whether an entry is allowed at the current spread
// (in points). MaxSpread 0 means no limit.
func SpreadAdmits(p config.StrategyParams, spread float64) bool {
	if p.MaxSpread == 0 {
		return true
	}
	return spread <= p.MaxSpread
}
