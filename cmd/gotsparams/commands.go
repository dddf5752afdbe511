package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/evdnx/gotsparams/appconfig"
	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/loader"
	"github.com/evdnx/gotsparams/logger"
	"github.com/evdnx/gotsparams/registry"
	"github.com/evdnx/gotsparams/store"
	"github.com/evdnx/gotsparams/strategy"
	"github.com/evdnx/gotsparams/types"
)

var (
	lookupCommand = &cli.Command{
		Action: lookup,
		Name:   "lookup",
		Usage:  "print the parameter set for one strategy, symbol and timeframe",
		Flags: []cli.Flag{
			StrategyFlag,
			SymbolFlag,
			TimeframeFlag,
			JSONFlag,
		},
	}
	listCommand = &cli.Command{
		Action: list,
		Name:   "list",
		Usage:  "list registered keys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "only list keys of this strategy",
			},
		},
	}
	validateCommand = &cli.Command{
		Action:    validate,
		Name:      "validate",
		Usage:     "check YAML parameter tables without registering them",
		ArgsUsage: "<file|dir>...",
	}
	exportCommand = &cli.Command{
		Action: export,
		Name:   "export",
		Usage:  "write the registry to the snapshot store",
	}
)

type env struct {
	settings *appconfig.Settings
	log      logger.Logger
}

func setup(c *cli.Context) (*env, error) {
	settings, err := appconfig.Load(c.String(ConfigFlag.Name))
	if err != nil {
		return nil, err
	}
	log, err := logger.NewZapLogger(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	return &env{settings: settings, log: log}, nil
}

// build assembles and seals a registry from the configured sources.
func (e *env) build(fromStore bool) (*registry.Registry, error) {
	reg := registry.New(e.log)
	if fromStore {
		if _, err := os.Stat(e.settings.StorePath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("no snapshot at %s, run export first", e.settings.StorePath)
			}
			return nil, err
		}
		s, err := store.Open(e.settings.StorePath, e.log)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		if _, err := s.LoadInto(reg); err != nil {
			return nil, err
		}
		reg.Seal()
		return reg, nil
	}

	if e.settings.Builtin {
		if err := strategy.RegisterAll(reg); err != nil {
			return nil, err
		}
	}
	if e.settings.TablesDir != "" {
		if _, err := loader.New(e.log).LoadDir(e.settings.TablesDir, reg); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

func lookup(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	tf, err := types.ParseTimeframe(c.String(TimeframeFlag.Name))
	if err != nil {
		return err
	}
	reg, err := e.build(c.Bool(FromStoreFlag.Name))
	if err != nil {
		return err
	}

	key := types.Key{
		Strategy:  c.String(StrategyFlag.Name),
		Symbol:    c.String(SymbolFlag.Name),
		Timeframe: tf,
	}
	set, err := reg.Get(key)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	if c.Bool(JSONFlag.Name) {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}
	renderSet(c.App.Writer, set)
	return nil
}

func list(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	reg, err := e.build(c.Bool(FromStoreFlag.Name))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Strategy", "Symbol", "Timeframe", "Price", "Period", "Shift"})
	only := c.String("strategy")
	for _, row := range reg.Entries() {
		if only != "" && row.Key.Strategy != only {
			continue
		}
		ind := row.Set.Indicator
		table.Append([]string{
			row.Key.Strategy,
			row.Key.Symbol,
			string(row.Key.Timeframe),
			ind.AppliedPrice.String(),
			strconv.Itoa(ind.Period),
			strconv.Itoa(ind.Shift),
		})
	}
	table.Render()
	return nil
}

func validate(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("validate: at least one file or directory is required")
	}
	e, err := setup(c)
	if err != nil {
		return err
	}
	l := loader.New(e.log)

	// Registering into a scratch registry also reports keys that collide
	// with the compiled-in tables.
	reg := registry.New(e.log)
	if e.settings.Builtin {
		if err := strategy.RegisterAll(reg); err != nil {
			return err
		}
	}

	for _, path := range c.Args().Slice() {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		var records []loader.Record
		if info.IsDir() {
			records, err = l.ParseDir(path)
		} else {
			records, err = l.ParseFile(path)
		}
		if err != nil {
			return err
		}
		if err := l.Apply(records, reg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		_, _ = fmt.Fprintf(c.App.Writer, "%s: %d entries ok\n", path, len(records))
	}
	return nil
}

func export(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	reg, err := e.build(false)
	if err != nil {
		return err
	}
	s, err := store.Open(e.settings.StorePath, e.log)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Save(reg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.App.Writer, "exported %d entries to %s\n", n, e.settings.StorePath)
	return nil
}

func renderSet(w io.Writer, set config.ParamSet) {
	ind, st := set.Indicator, set.Strategy
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"applied_price", fmt.Sprintf("%d (%s)", int(ind.AppliedPrice), ind.AppliedPrice)},
		{"period", strconv.Itoa(ind.Period)},
		{"shift", strconv.Itoa(ind.Shift)},
		{"lot_size", f(st.LotSize)},
		{"signal_open_method", strconv.Itoa(st.SignalOpenMethod)},
		{"signal_open_filter", strconv.Itoa(st.SignalOpenFilter)},
		{"signal_open_level", f(st.SignalOpenLevel)},
		{"signal_open_boost", strconv.Itoa(st.SignalOpenBoost)},
		{"signal_close_method", strconv.Itoa(st.SignalCloseMethod)},
		{"signal_close_level", f(st.SignalCloseLevel)},
		{"price_stop_method", strconv.Itoa(st.PriceStopMethod)},
		{"price_stop_level", f(st.PriceStopLevel)},
		{"tick_filter_method", strconv.Itoa(st.TickFilterMethod)},
		{"max_spread", f(st.MaxSpread)},
	})
	table.Render()
}
