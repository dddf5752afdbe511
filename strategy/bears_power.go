package strategy

import (
	"github.com/samber/lo"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/types"
)

// BearsPower is the registry name of the Bears Power strategy.
const BearsPower = "BearsPower"

// BearsPowerDefaults is the base every BearsPower entry is layered on.
func BearsPowerDefaults() config.ParamSet {
	return config.ParamSet{
		Indicator: config.IndicatorParams{
			AppliedPrice: types.PriceClose,
			Period:       13,
			Shift:        0,
		},
		Strategy: config.StrategyParams{
			LotSize:          0,
			SignalOpenFilter: 1,
			PriceStopLevel:   1,
			TickFilterMethod: 1,
		},
	}
}

// Strategy settings shared by the EURUSD M15 and M30 tables.
var bearsPowerEURUSDStrategy = config.StrategyOverrides{
	LotSize:           lo.ToPtr(0.0),
	SignalOpenMethod:  lo.ToPtr(0),
	SignalOpenFilter:  lo.ToPtr(1),
	SignalOpenLevel:   lo.ToPtr(0.0),
	SignalOpenBoost:   lo.ToPtr(0),
	SignalCloseMethod: lo.ToPtr(0),
	SignalCloseLevel:  lo.ToPtr(0.0),
	PriceStopMethod:   lo.ToPtr(0),
	PriceStopLevel:    lo.ToPtr(1.0),
	TickFilterMethod:  lo.ToPtr(1),
	MaxSpread:         lo.ToPtr(0.0),
}

var bearsPowerTable = table{
	defaults: BearsPowerDefaults,
	entries: []entry{
		{
			symbol:    "EURUSD",
			timeframe: types.M15,
			overrides: config.Overrides{
				Indicator: config.IndicatorOverrides{
					AppliedPrice: lo.ToPtr(types.PriceOpen),
					Period:       lo.ToPtr(24),
					Shift:        lo.ToPtr(0),
				},
				Strategy: bearsPowerEURUSDStrategy,
			},
		},
		{
			symbol:    "EURUSD",
			timeframe: types.M30,
			overrides: config.Overrides{
				Indicator: config.IndicatorOverrides{
					AppliedPrice: lo.ToPtr(types.PriceClose),
					Period:       lo.ToPtr(8),
					Shift:        lo.ToPtr(0),
				},
				Strategy: bearsPowerEURUSDStrategy,
			},
		},
	},
	// EURUSD M1 only exists in the flat encoding.
	legacy: []config.LegacyBearsPowerParams{
		{
			Symbol:       "EURUSD",
			Timeframe:    "M1",
			Period:       13,
			AppliedPrice: 1,
			Shift:        0,
		},
	},
}
