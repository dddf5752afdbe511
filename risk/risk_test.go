package risk

import (
	"testing"

	"github.com/evdnx/gotsparams/config"
)

func TestResolveLotSize(t *testing.T) {
	if got := ResolveLotSize(config.StrategyParams{}, 0.1); got != 0.1 {
		t.Fatalf("expected engine default 0.1, got %v", got)
	}
	if got := ResolveLotSize(config.StrategyParams{LotSize: 0.5}, 0.1); got != 0.5 {
		t.Fatalf("expected configured 0.5, got %v", got)
	}
}

func TestSpreadAdmits(t *testing.T) {
	unlimited := config.StrategyParams{MaxSpread: 0}
	if !SpreadAdmits(unlimited, 1e6) {
		t.Fatal("max spread 0 must admit any spread")
	}
	capped := config.StrategyParams{MaxSpread: 20}
	if !SpreadAdmits(capped, 20) {
		t.Fatal("spread equal to the cap must be admitted")
	}
	if SpreadAdmits(capped, 20.5) {
		t.Fatal("spread above the cap must be rejected")
	}
}
