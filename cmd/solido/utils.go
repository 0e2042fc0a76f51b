// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/lvldb"
	"github.com/lido-solana/solido/processor"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) error {
	level, err := log.LevelFromString(ctx.GlobalString(verbosityFlag.Name))
	if err != nil {
		return errors.WithMessage(err, verbosityFlag.Name)
	}
	json := ctx.GlobalBool(jsonLogsFlag.Name)
	color := !json && os.Getenv("TERM") != "dumb" &&
		(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, level, json, color)))
	return nil
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.lido.solido")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "org.lido.solido")
	default:
		return filepath.Join(home, ".org.lido.solido")
	}
}

// parseKey parses the base58 value of the named flag.
func parseKey(name, value string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, errors.Errorf("--%s is required", name)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, errors.WithMessagef(err, "--%s", name)
	}
	return key, nil
}

// node is a ledger on disk hosting the program.
type node struct {
	db      *lvldb.LevelDB
	ledger  *ledger.Ledger
	program *processor.Program
}

func openNode(ctx *cli.Context) (*node, error) {
	programID, err := parseKey(programIDFlag.Name, ctx.GlobalString(programIDFlag.Name))
	if err != nil {
		return nil, err
	}
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	cacheMB := ctx.GlobalInt(cacheFlag.Name)
	db, err := lvldb.Open(filepath.Join(dataDir, "ledger.db"), lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open ledger database")
	}
	program := processor.New(programID, processor.DefaultConfig())
	l, err := ledger.New(db, ledger.DefaultOptions(), program)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &node{db: db, ledger: l, program: program}, nil
}

func (n *node) Close() {
	if err := n.db.Close(); err != nil {
		log.Root().Warn("failed to close ledger database", "err", err)
	}
}

// handleExitSignal returns a context cancelled on the first interrupt.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func newAPIServer(ctx *cli.Context, handler http.Handler) (*http.Server, net.Listener, error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Duration(apiTimeoutFlag.Name); timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timed out")
	}
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}, listener, nil
}
