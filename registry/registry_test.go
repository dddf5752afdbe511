package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/strategy"
	"github.com/evdnx/gotsparams/testutils"
	"github.com/evdnx/gotsparams/types"
)

func newBuiltin(t *testing.T) (*Registry, *testutils.MockLogger) {
	t.Helper()
	log := testutils.NewMockLogger()
	r := New(log)
	if err := strategy.RegisterAll(r); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	r.Seal()
	return r, log
}

var eurusdStrategy = config.StrategyParams{
	LotSize:           0,
	SignalOpenMethod:  0,
	SignalOpenFilter:  1,
	SignalOpenLevel:   0.0,
	SignalOpenBoost:   0,
	SignalCloseMethod: 0,
	SignalCloseLevel:  0,
	PriceStopMethod:   0,
	PriceStopLevel:    1,
	TickFilterMethod:  1,
	MaxSpread:         0,
}

func TestLookupEURUSDM15(t *testing.T) {
	r, _ := newBuiltin(t)
	ind, stg, err := r.Lookup(strategy.BearsPower, "EURUSD", types.M15)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if ind != (config.IndicatorParams{AppliedPrice: 2, Period: 24, Shift: 0}) {
		t.Fatalf("unexpected indicator params %+v", ind)
	}
	if stg != eurusdStrategy {
		t.Fatalf("unexpected strategy params %+v", stg)
	}
}

func TestLookupEURUSDM30(t *testing.T) {
	r, _ := newBuiltin(t)
	ind, stg, err := r.Lookup(strategy.BearsPower, "EURUSD", types.M30)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if ind != (config.IndicatorParams{AppliedPrice: 1, Period: 8, Shift: 0}) {
		t.Fatalf("unexpected indicator params %+v", ind)
	}
	if stg != eurusdStrategy {
		t.Fatalf("M30 strategy params should match M15, got %+v", stg)
	}
}

func TestLookupLegacyEURUSDM1(t *testing.T) {
	r, _ := newBuiltin(t)
	ind, stg, err := r.Lookup(strategy.BearsPower, "EURUSD", types.M1)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if ind != (config.IndicatorParams{AppliedPrice: 1, Period: 13, Shift: 0}) {
		t.Fatalf("unexpected indicator params %+v", ind)
	}
	if stg.SignalOpenLevel != 0 || stg.SignalCloseLevel != 0 || stg.MaxSpread != 0 {
		t.Fatalf("unexpected strategy params %+v", stg)
	}
}

func TestLookupNotFound(t *testing.T) {
	r, log := newBuiltin(t)
	misses := []types.Key{
		{Strategy: strategy.BearsPower, Symbol: "EURUSD", Timeframe: types.H1},
		{Strategy: strategy.BearsPower, Symbol: "GBPUSD", Timeframe: types.M15},
		{Strategy: "BullsPower", Symbol: "EURUSD", Timeframe: types.M15},
	}
	for _, k := range misses {
		ind, stg, err := r.Lookup(k.Strategy, k.Symbol, k.Timeframe)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %s, got %v", k, err)
		}
		if ind != (config.IndicatorParams{}) || stg != (config.StrategyParams{}) {
			t.Fatalf("expected zero records for %s", k)
		}
	}
	if log.Count("params_not_found") != len(misses) {
		t.Fatalf("expected %d params_not_found entries", len(misses))
	}
}

func TestLookupIsIdempotent(t *testing.T) {
	r, _ := newBuiltin(t)
	for _, k := range r.Keys("") {
		first, err := r.Get(k)
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		// mutating the returned copy must not leak into the table
		first.Indicator.Period = -1
		second, _ := r.Get(k)
		third, _ := r.Get(k)
		if second != third || second.Indicator.Period == -1 {
			t.Fatalf("lookups for %s are not value-identical", k)
		}
	}
}

func TestEveryEntryFullyPopulated(t *testing.T) {
	r, _ := newBuiltin(t)
	keys := r.Keys(strategy.BearsPower)
	if len(keys) != 3 {
		t.Fatalf("expected 3 BearsPower entries, got %d", len(keys))
	}
	for _, k := range keys {
		set, err := r.Get(k)
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		if err := set.Validate(); err != nil {
			t.Fatalf("%s: %v", k, err)
		}
	}
}

func TestKeysOrdered(t *testing.T) {
	r, _ := newBuiltin(t)
	keys := r.Keys("")
	want := []types.Timeframe{types.M1, types.M15, types.M30}
	for i, k := range keys {
		if k.Timeframe != want[i] {
			t.Fatalf("unexpected order: %v", keys)
		}
	}
	if got := r.Keys("unknown"); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestRegisterAfterSeal(t *testing.T) {
	r, _ := newBuiltin(t)
	err := r.Register(types.Key{Strategy: "X", Symbol: "EURUSD", Timeframe: types.H1}, config.ParamSet{})
	if !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("sealed registry changed size: %d", r.Len())
	}
}

func TestRegisterRejectsDuplicateAndBadKeys(t *testing.T) {
	r := New(nil)
	k := types.Key{Strategy: "X", Symbol: "EURUSD", Timeframe: types.H1}
	if err := r.Register(k, config.ParamSet{}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(k, config.ParamSet{}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	bad := []types.Key{
		{Strategy: "", Symbol: "EURUSD", Timeframe: types.H1},
		{Strategy: "X", Symbol: "", Timeframe: types.H1},
		{Strategy: "X", Symbol: "EURUSD", Timeframe: "H2"},
		{Strategy: "X", Symbol: "BRK:B", Timeframe: types.H1},
		{Strategy: "X:Y", Symbol: "EURUSD", Timeframe: types.H1},
	}
	for _, b := range bad {
		if err := r.Register(b, config.ParamSet{}); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %v, got %v", b, err)
		}
	}
}

func TestSealIsIdempotent(t *testing.T) {
	log := testutils.NewMockLogger()
	r := New(log)
	r.Seal()
	r.Seal()
	if !r.Sealed() {
		t.Fatal("registry should be sealed")
	}
	if log.Count("registry_sealed") != 1 {
		t.Fatalf("expected a single registry_sealed entry")
	}
}

func TestConcurrentLookups(t *testing.T) {
	r, _ := newBuiltin(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, _, err := r.Lookup(strategy.BearsPower, "EURUSD", types.M15); err != nil {
					t.Errorf("lookup failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultRegistry(t *testing.T) {
	if !Default().Sealed() {
		t.Fatal("default registry must be sealed")
	}
	if Default() != Default() {
		t.Fatal("default registry must be a singleton")
	}
	ind, _, err := Lookup(strategy.BearsPower, "EURUSD", types.M30)
	if err != nil || ind.Period != 8 {
		t.Fatalf("unexpected default lookup: %+v, %v", ind, err)
	}
}

func TestRegisterBatchIsAllOrNothing(t *testing.T) {
	r := New(nil)
	taken := types.Key{Strategy: "X", Symbol: "EURUSD", Timeframe: types.M30}
	if err := r.Register(taken, config.ParamSet{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	batch := []Entry{
		{Key: types.Key{Strategy: "X", Symbol: "EURUSD", Timeframe: types.H1}},
		{Key: types.Key{Strategy: "X", Symbol: "EURUSD", Timeframe: types.H4}},
		{Key: taken},
	}
	if err := r.RegisterBatch(batch); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if r.Len() != 1 || r.Has(batch[0].Key) {
		t.Fatalf("failed batch left entries behind: %v", r.Keys(""))
	}

	repeated := []Entry{batch[0], batch[0]}
	if err := r.RegisterBatch(repeated); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for a repeated key, got %v", err)
	}
	if err := r.RegisterBatch(batch[:2]); err != nil {
		t.Fatalf("clean batch failed: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", r.Len())
	}
}

func TestEntriesFollowKeyOrder(t *testing.T) {
	r, _ := newBuiltin(t)
	entries := r.Entries()
	keys := r.Keys("")
	if len(entries) != len(keys) {
		t.Fatalf("entries %d, keys %d", len(entries), len(keys))
	}
	for i, e := range entries {
		if e.Key != keys[i] {
			t.Fatalf("entry %d: %s, want %s", i, e.Key, keys[i])
		}
		want, err := r.Get(e.Key)
		if err != nil || want != e.Set {
			t.Fatalf("entry %s differs from Get: %+v vs %+v (%v)", e.Key, e.Set, want, err)
		}
	}
}

func TestConcurrentRegisterAndSeal(t *testing.T) {
	const writers, perWriter = 8, 50
	r := New(nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted = make(map[types.Key]bool)
	)
	start := make(chan struct{})
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			<-start
			for i := 0; i < perWriter; i++ {
				k := types.Key{Strategy: "X", Symbol: fmt.Sprintf("S%d_%d", w, i), Timeframe: types.H1}
				err := r.Register(k, config.ParamSet{})
				switch {
				case err == nil:
					mu.Lock()
					accepted[k] = true
					mu.Unlock()
				case errors.Is(err, ErrSealed):
				default:
					t.Errorf("register %s: %v", k, err)
				}
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		r.Seal()
	}()
	close(start)
	wg.Wait()

	if !r.Sealed() {
		t.Fatal("registry should be sealed")
	}
	if r.Len() != len(accepted) {
		t.Fatalf("registry holds %d entries, %d registrations succeeded", r.Len(), len(accepted))
	}
	for k := range accepted {
		if !r.Has(k) {
			t.Fatalf("accepted key %s missing", k)
		}
	}
	late := types.Key{Strategy: "X", Symbol: "LATE", Timeframe: types.H1}
	if err := r.Register(late, config.ParamSet{}); !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed after seal, got %v", err)
	}
}
