// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/token"
)

// maxTasksPerRun bounds one maintenance run, in case a task keeps coming
// back.
const maxTasksPerRun = 256

// maintain performs maintenance tasks until none is left. It returns the
// descriptions of the tasks it performed.
func maintain(l *ledger.Ledger, c *client.Client, maintainer solana.PublicKey, minStake token.Lamports) ([]string, error) {
	var done []string
	for range maxTasksPerRun {
		task, err := c.NextTask(maintainer, minStake)
		if err != nil {
			return done, err
		}
		if task == nil {
			return done, nil
		}
		if err := l.Execute(ledger.NewTransaction([]solana.PublicKey{maintainer}, task.Instruction)); err != nil {
			return done, errors.WithMessage(err, task.Description)
		}
		logger.Info("performed maintenance", "task", task.Description)
		done = append(done, task.Description)
	}
	return done, errors.Errorf("still busy after %d tasks", maxTasksPerRun)
}

// every calls fn each interval until ctx is done. Errors of fn are logged,
// not returned.
func every(ctx context.Context, interval time.Duration, what string, fn func() error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := fn(); err != nil {
				logger.Warn("failed to "+what, "err", err)
			}
		}
	}
}
