package utils

import "github.com/urfave/cli/v2"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.json",
		Usage:   "load configuration from `file`",
	}
	DebugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "log requests before sending them",
	}

	EndpointFlag = &cli.StringFlag{
		Name:    "endpoint",
		Aliases: []string{"p"},
		Value:   "balance",
		Usage:   "endpoint to probe, balance or collateral",
	}

	IntervalFlag = &cli.StringFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Value:   "",
		Usage:   "refresh `interval`, overrides the configuration",
	}

	HoursFlag = &cli.IntFlag{
		Name:  "hours",
		Value: 24,
		Usage: "look back `hours` hours",
	}
	StartTimeFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Value:   "",
		Usage:   "start `time`",
	}
	EndTimeFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Value:   "",
		Usage:   "end `time`",
	}
	CsvFlag = &cli.StringFlag{
		Name:  "csv",
		Value: "snapshots.csv",
		Usage: "export to csv `file`",
	}
)
