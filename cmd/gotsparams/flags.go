package main

import "github.com/urfave/cli/v2"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "",
		Usage:   "load configuration from `file`",
	}
	FromStoreFlag = &cli.BoolFlag{
		Name:  "from-store",
		Usage: "read parameters from the snapshot store instead of the tables",
	}

	StrategyFlag = &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Value:   "BearsPower",
		Usage:   "strategy `name`",
	}
	SymbolFlag = &cli.StringFlag{
		Name:     "symbol",
		Aliases:  []string{"y"},
		Required: true,
		Usage:    "instrument `symbol`, e.g. EURUSD",
	}
	TimeframeFlag = &cli.StringFlag{
		Name:     "timeframe",
		Aliases:  []string{"t"},
		Required: true,
		Usage:    "bar `timeframe`, e.g. M15 or 15m",
	}
	JSONFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print JSON instead of a table",
	}
)
