package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

// Timeframe is the bar aggregation period a parameter set applies to.
type Timeframe string

const (
	M1  Timeframe = "M1"
	M5  Timeframe = "M5"
	M15 Timeframe = "M15"
	M30 Timeframe = "M30"
	H1  Timeframe = "H1"
	H4  Timeframe = "H4"
	D1  Timeframe = "D1"
	W1  Timeframe = "W1"
	MN1 Timeframe = "MN1"
)

// Timeframes lists every supported timeframe, shortest first.
var Timeframes = []Timeframe{M1, M5, M15, M30, H1, H4, D1, W1, MN1}

var timeframeDurations = map[Timeframe]time.Duration{
	M1:  time.Minute,
	M5:  5 * time.Minute,
	M15: 15 * time.Minute,
	M30: 30 * time.Minute,
	H1:  time.Hour,
	H4:  4 * time.Hour,
	D1:  24 * time.Hour,
	W1:  7 * 24 * time.Hour,
	MN1: 30 * 24 * time.Hour,
}

func (tf Timeframe) String() string { return string(tf) }

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	_, ok := timeframeDurations[tf]
	return ok
}

// Duration returns the nominal bar length. MN1 is counted as 30 days.
func (tf Timeframe) Duration() time.Duration {
	return timeframeDurations[tf]
}

// ParseTimeframe accepts both the terminal notation ("M15", "h1") and the
// exchange notation ("15m", "1h", "1d", "1w").
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.TrimSpace(s)
	if tf := Timeframe(strings.ToUpper(s)); tf.Valid() {
		return tf, nil
	}
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	for _, tf := range Timeframes {
		if tf.Duration() == d {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unsupported timeframe %q (%s)", s, d)
}

// AppliedPrice selects the price series an indicator consumes. The numeric
// codes follow the terminal's ENUM_APPLIED_PRICE and are part of the contract
// with the consuming engine.
type AppliedPrice int

const (
	PriceClose    AppliedPrice = 1
	// PriceOpen is the code the EURUSD M15 table ships. Older parameter
	// sheets label that entry CLOSE-equivalent; the stored value is 2 either
	// way and only the display name differs.
	PriceOpen     AppliedPrice = 2
	PriceHigh     AppliedPrice = 3
	PriceLow      AppliedPrice = 4
	PriceMedian   AppliedPrice = 5
	PriceTypical  AppliedPrice = 6
	PriceWeighted AppliedPrice = 7
)

var appliedPriceNames = map[AppliedPrice]string{
	PriceClose:    "CLOSE",
	PriceOpen:     "OPEN",
	PriceHigh:     "HIGH",
	PriceLow:      "LOW",
	PriceMedian:   "MEDIAN",
	PriceTypical:  "TYPICAL",
	PriceWeighted: "WEIGHTED",
}

func (p AppliedPrice) String() string {
	if name, ok := appliedPriceNames[p]; ok {
		return name
	}
	return "AppliedPrice(" + strconv.Itoa(int(p)) + ")"
}

func (p AppliedPrice) Valid() bool {
	_, ok := appliedPriceNames[p]
	return ok
}

// ParseAppliedPrice accepts a numeric code or a name such as "close".
func ParseAppliedPrice(s string) (AppliedPrice, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if p := AppliedPrice(n); p.Valid() {
			return p, nil
		}
		return 0, fmt.Errorf("applied price code %d out of range", n)
	}
	name := strings.TrimPrefix(strings.ToUpper(s), "PRICE_")
	for p, n := range appliedPriceNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown applied price %q", s)
}

// Key identifies one parameter record pair.
type Key struct {
	Strategy  string
	Symbol    string
	Timeframe Timeframe
}

func (k Key) String() string {
	return k.Strategy + "/" + k.Symbol + "/" + string(k.Timeframe)
}
