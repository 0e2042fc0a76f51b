// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lido-solana/solido/api"
	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/metrics"
	"github.com/lido-solana/solido/state"
)

// mainnetProgramID is where Solido is deployed on mainnet-beta.
const mainnetProgramID = "CrX7kMhLC3cSsXJdT7JDgqrRVWGnUpX3gfEfxxU2NVLi"

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "solido")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "solido",
		Usage:   "Lido for Solana, on a local ledger",
		Flags: []cli.Flag{
			dataDirFlag,
			cacheFlag,
			programIDFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: initLogger,
		Commands: []cli.Command{
			{
				Name:   "addresses",
				Usage:  "print the derived addresses of an instance",
				Flags:  []cli.Flag{instanceFlag},
				Action: addressesAction,
			},
			{
				Name:   "bootstrap",
				Usage:  "create an instance described by a YAML file",
				Flags:  []cli.Flag{configFlag},
				Action: bootstrapAction,
			},
			{
				Name:   "show",
				Usage:  "print the state of an instance",
				Flags:  []cli.Flag{instanceFlag, rawFlag},
				Action: showAction,
			},
			{
				Name:   "maintain",
				Usage:  "perform maintenance until nothing is left to do",
				Flags:  []cli.Flag{instanceFlag, maintainerFlag},
				Action: maintainAction,
			},
			{
				Name:  "serve",
				Usage: "serve the read API, optionally driving epochs and maintenance",
				Flags: []cli.Flag{
					instanceFlag,
					maintainerFlag,
					maintainIntervalFlag,
					epochIntervalFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					pprofFlag,
					enableMetricsFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func addressesAction(ctx *cli.Context) error {
	programID, err := parseKey(programIDFlag.Name, ctx.GlobalString(programIDFlag.Name))
	if err != nil {
		return err
	}
	instance, err := parseKey(instanceFlag.Name, ctx.String(instanceFlag.Name))
	if err != nil {
		return err
	}
	addrs, err := client.DeriveAddresses(programID, instance)
	if err != nil {
		return err
	}
	printAddresses(addrs)
	return nil
}

func printAddresses(addrs *client.Addresses) {
	fmt.Printf(`    Instance        [ %v ]
    Reserve         [ %v ]
    Mint authority  [ %v ]
    Stake authority [ %v ]
`, addrs.Instance, addrs.Reserve, addrs.MintAuthority, addrs.StakeAuthority)
}

func bootstrapAction(ctx *cli.Context) error {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return errors.Errorf("--%s is required", configFlag.Name)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	existing, err := n.ledger.Account(cfg.Instance)
	if err != nil {
		return err
	}
	if existing.Lamports > 0 {
		return errors.Errorf("instance %s already exists", cfg.Instance)
	}

	c, err := bootstrap(n.ledger, n.program.ID(), cfg)
	if err != nil {
		return err
	}
	logger.Info("instance created", "instance", cfg.Instance, "validators", len(cfg.Validators))
	addrs := c.Addresses()
	printAddresses(&addrs)
	return nil
}

func openClient(ctx *cli.Context) (*node, *client.Client, error) {
	instance, err := parseKey(instanceFlag.Name, ctx.String(instanceFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	n, err := openNode(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := client.New(n.ledger, n.program.ID(), instance)
	if err != nil {
		n.Close()
		return nil, nil, err
	}
	return n, c, nil
}

func showAction(ctx *cli.Context) error {
	n, c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	l, err := c.Lido()
	if err != nil {
		return err
	}
	if ctx.Bool(rawFlag.Name) {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Dump(l)
		return nil
	}

	supply, err := c.Supply()
	if err != nil {
		return err
	}
	available, err := c.AvailableReserve()
	if err != nil {
		return err
	}
	clock, err := c.Clock()
	if err != nil {
		return err
	}
	addrs := c.Addresses()
	d := l.RewardDistribution

	fmt.Printf(`Solido instance %v
    Epoch           [ %v ]
    Manager         [ %v ]
    stSOL mint      [ %v ]
    stSOL supply    [ %v ]
    Exchange rate   [ %v ]
    Reserve         [ %v, %v available ]
    Rewards         [ insurance %d, treasury %d, validation %d, manager %d ]
    Maintainers     [ %d / %d ]
`,
		addrs.Instance,
		clock.Epoch,
		l.Manager,
		l.StSolMint,
		supply,
		l.ExchangeRate,
		addrs.Reserve, available,
		d.Insurance, d.Treasury, d.Validation, d.Manager,
		l.Maintainers.Len(), l.Maintainers.MaxEntries,
	)
	for _, m := range l.Maintainers.Entries {
		fmt.Printf("        %v\n", m.Address)
	}

	fmt.Printf("    Validators      [ %d / %d ]\n", l.Validators.Len(), l.Validators.MaxEntries)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "        VOTE ACCOUNT\tWEIGHT\tSTAKE\tACCOUNTS\tFEE CREDIT\tUPDATED")
	for _, v := range l.Validators.Entries {
		updated := "never"
		if v.LastUpdateEpoch != state.NeverUpdated {
			updated = strconv.FormatUint(v.LastUpdateEpoch, 10)
		}
		fmt.Fprintf(w, "        %v\t%d\t%v\t%d\t%v\t%s\n",
			v.VoteAccount, v.Weight, v.StakeAccountsBalance, v.StakeSeeds.Len(), v.FeeCredit, updated)
	}
	return w.Flush()
}

func maintainAction(ctx *cli.Context) error {
	maintainer, err := parseKey(maintainerFlag.Name, ctx.String(maintainerFlag.Name))
	if err != nil {
		return err
	}
	n, c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	done, err := maintain(n.ledger, c, maintainer, n.program.Config().MinimumStakeDeposit)
	for _, d := range done {
		fmt.Println(d)
	}
	if err != nil {
		return err
	}
	if len(done) == 0 {
		fmt.Println("nothing to do")
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger database..."); n.Close() }()

	var maintenance func() error
	if ctx.Duration(maintainIntervalFlag.Name) > 0 {
		maintainer, err := parseKey(maintainerFlag.Name, ctx.String(maintainerFlag.Name))
		if err != nil {
			return err
		}
		instance, err := parseKey(instanceFlag.Name, ctx.String(instanceFlag.Name))
		if err != nil {
			return err
		}
		c, err := client.New(n.ledger, n.program.ID(), instance)
		if err != nil {
			return err
		}
		maintenance = func() error {
			_, err := maintain(n.ledger, c, maintainer, n.program.Config().MinimumStakeDeposit)
			return err
		}
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	reqLogs := &atomic.Bool{}
	reqLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(n.ledger, n.program.ID(), api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		MinimumStakeDeposit:  n.program.Config().MinimumStakeDeposit,
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      reqLogs,
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	srv, listener, err := newAPIServer(ctx, handler)
	if err != nil {
		return err
	}

	exit := handleExitSignal()
	group, gctx := errgroup.WithContext(exit)

	group.Go(func() error {
		logger.Info("API server started", "url", "http://"+listener.Addr().String()+"/")
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping API server...")
		return srv.Shutdown(context.Background())
	})

	if interval := ctx.Duration(epochIntervalFlag.Name); interval > 0 {
		group.Go(func() error {
			return every(gctx, interval, "advance epoch", n.ledger.AdvanceEpoch)
		})
	}

	if maintenance != nil {
		group.Go(func() error {
			return every(gctx, ctx.Duration(maintainIntervalFlag.Name), "maintain", maintenance)
		})
	}

	return group.Wait()
}
