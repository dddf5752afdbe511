package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/evdnx/gotsparams/types"
)

// ErrMalformed marks parameter values that violate the schema or the ranges
// below. It is only ever produced while loading external data.
var ErrMalformed = errors.New("malformed parameters")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// IndicatorParams holds the Bears Power indicator inputs for one
// (symbol, timeframe) pair.
type IndicatorParams struct {
	AppliedPrice types.AppliedPrice `json:"applied_price"`
	Period       int                `json:"period"`
	Shift        int                `json:"shift"`
}

// StrategyParams holds the strategy wrapper settings. The method codes are
// interpreted by the consuming engine only.
type StrategyParams struct {
	LotSize           float64 `json:"lot_size"` // 0 = engine default
	SignalOpenMethod  int     `json:"signal_open_method"`
	SignalOpenFilter  int     `json:"signal_open_filter"`
	SignalOpenLevel   float64 `json:"signal_open_level"`
	SignalOpenBoost   int     `json:"signal_open_boost"`
	SignalCloseMethod int     `json:"signal_close_method"`
	SignalCloseLevel  float64 `json:"signal_close_level"`
	PriceStopMethod   int     `json:"price_stop_method"`
	PriceStopLevel    float64 `json:"price_stop_level"`
	TickFilterMethod  int     `json:"tick_filter_method"`
	MaxSpread         float64 `json:"max_spread"` // points, 0 = no limit
}

// ParamSet is the record pair handed to the engine for one key.
type ParamSet struct {
	Indicator IndicatorParams `json:"indicator"`
	Strategy  StrategyParams  `json:"strategy"`
}

// Validate checks the indicator inputs and returns the first violation.
func (p *IndicatorParams) Validate() error {
	if !p.AppliedPrice.Valid() {
		return malformed("applied price code %d out of range", int(p.AppliedPrice))
	}
	if p.Period <= 0 {
		return malformed("period (%d) must be positive", p.Period)
	}
	if p.Shift < 0 {
		return malformed("shift (%d) cannot be negative", p.Shift)
	}
	return nil
}

// Validate checks the strategy settings and returns the first violation.
func (p *StrategyParams) Validate() error {
	if err := finite("lot_size", p.LotSize); err != nil {
		return err
	}
	if p.LotSize < 0 {
		return malformed("lot_size (%f) cannot be negative", p.LotSize)
	}
	codes := []struct {
		name string
		v    int
	}{
		{"signal_open_method", p.SignalOpenMethod},
		{"signal_open_filter", p.SignalOpenFilter},
		{"signal_open_boost", p.SignalOpenBoost},
		{"signal_close_method", p.SignalCloseMethod},
		{"price_stop_method", p.PriceStopMethod},
		{"tick_filter_method", p.TickFilterMethod},
	}
	for _, c := range codes {
		if c.v < 0 {
			return malformed("%s (%d) cannot be negative", c.name, c.v)
		}
	}
	levels := []struct {
		name string
		v    float64
	}{
		{"signal_open_level", p.SignalOpenLevel},
		{"signal_close_level", p.SignalCloseLevel},
		{"price_stop_level", p.PriceStopLevel},
		{"max_spread", p.MaxSpread},
	}
	for _, l := range levels {
		if err := finite(l.name, l.v); err != nil {
			return err
		}
	}
	if p.MaxSpread < 0 {
		return malformed("max_spread (%f) cannot be negative", p.MaxSpread)
	}
	return nil
}

// Validate checks both records.
func (s *ParamSet) Validate() error {
	if err := s.Indicator.Validate(); err != nil {
		return err
	}
	return s.Strategy.Validate()
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return malformed("%s must be a finite number", name)
	}
	return nil
}
