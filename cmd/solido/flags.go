// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger database",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the ledger database",
	}
	programIDFlag = cli.StringFlag{
		Name:  "program-id",
		Value: mainnetProgramID,
		Usage: "address the Solido program is deployed at",
	}
	instanceFlag = cli.StringFlag{
		Name:  "instance",
		Usage: "address of the Solido instance",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path of the YAML file describing the instance to create",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "dump the decoded instance record as is",
	}
	maintainerFlag = cli.StringFlag{
		Name:  "maintainer",
		Usage: "maintainer performing maintenance tasks",
	}
	maintainIntervalFlag = cli.DurationFlag{
		Name:  "maintain-interval",
		Value: 0,
		Usage: "interval between maintenance runs while serving, 0 disables maintenance",
	}
	epochIntervalFlag = cli.DurationFlag{
		Name:  "epoch-interval",
		Value: 0,
		Usage: "advance the local ledger one epoch per interval, 0 keeps the clock still",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8899",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.DurationFlag{
		Name:  "api-timeout",
		Value: 10 * time.Second,
		Usage: "API request timeout",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "log API requests slower than this, 0 disables",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on /metrics",
	}
	verbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Value: "info",
		Usage: "log verbosity (trace|debug|info|warn|error|crit)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
)
