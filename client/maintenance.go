// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// Task is one maintenance step with a human description.
type Task struct {
	Description string
	Instruction solana.Instruction
}

// NextTask returns the most urgent maintenance step, or nil if the instance
// needs none. Steps come in this order: refresh the exchange rate, update
// validator balances, merge stake accounts, stake the reserve.
// minStake is the smallest stake deposit the program accepts.
func (c *Client) NextTask(maintainer solana.PublicKey, minStake token.Lamports) (*Task, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	clock, err := c.Clock()
	if err != nil {
		return nil, err
	}

	if l.ExchangeRate.ComputedInEpoch != clock.Epoch {
		ix, err := c.UpdateExchangeRate()
		if err != nil {
			return nil, err
		}
		return &Task{Description: fmt.Sprintf("update exchange rate for epoch %d", clock.Epoch), Instruction: ix}, nil
	}

	for i := range l.Validators.Entries {
		v := &l.Validators.Entries[i]
		stale, err := c.stale(v, clock.Epoch)
		if err != nil {
			return nil, err
		}
		if !stale {
			continue
		}
		ix, err := c.UpdateValidatorBalance(v.VoteAccount)
		if err != nil {
			return nil, err
		}
		return &Task{Description: fmt.Sprintf("update balance of validator %s", v.VoteAccount), Instruction: ix}, nil
	}

	for i := range l.Validators.Entries {
		v := &l.Validators.Entries[i]
		ok, err := c.mergeable(v, clock.Epoch)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ix, err := c.MergeStake(v.VoteAccount)
		if err != nil {
			return nil, err
		}
		return &Task{Description: fmt.Sprintf("merge stake of validator %s", v.VoteAccount), Instruction: ix}, nil
	}

	return c.stakeTask(l, maintainer, minStake)
}

// stale reports whether v's balance may have changed since it was last
// updated. Stake only earns at epoch boundaries, so a validator that was never
// updated is stale once its oldest stake account was activated before epoch.
func (c *Client) stale(v *state.Validator, epoch uint64) (bool, error) {
	if v.LastUpdateEpoch != state.NeverUpdated {
		return v.LastUpdateEpoch != epoch, nil
	}
	if v.StakeSeeds.IsEmpty() {
		return false, nil
	}
	keys, err := c.StakeAccounts(v)
	if err != nil {
		return false, err
	}
	oldest, err := c.StakeState(keys[0])
	if err != nil {
		return false, err
	}
	return oldest.ActivationEpoch < epoch, nil
}

// mergeable reports whether the two oldest stake accounts of v can be merged.
// Accounts activated in the current epoch are left alone until the next one,
// when the validator's balance has been reconciled.
func (c *Client) mergeable(v *state.Validator, epoch uint64) (bool, error) {
	if v.StakeSeeds.Len() < 2 {
		return false, nil
	}
	keys, err := c.StakeAccounts(v)
	if err != nil {
		return false, err
	}
	from, err := c.StakeState(keys[0])
	if err != nil {
		return false, err
	}
	to, err := c.StakeState(keys[1])
	if err != nil {
		return false, err
	}
	return from.Kind == stake.Delegated && to.Kind == stake.Delegated &&
		from.Voter.Equals(v.VoteAccount) && to.Voter.Equals(v.VoteAccount) &&
		from.ActivationEpoch == to.ActivationEpoch && from.ActivationEpoch < epoch, nil
}

func (c *Client) stakeTask(l *state.Lido, maintainer solana.PublicKey, minStake token.Lamports) (*Task, error) {
	rent, err := c.Rent()
	if err != nil {
		return nil, err
	}
	available, err := c.AvailableReserve()
	if err != nil {
		return nil, err
	}
	i, gap := state.StakeTarget(l.Validators.Entries, available)
	if i < 0 {
		return nil, nil
	}
	v := l.Validators.Entries[i]
	if v.StakeSeeds.Len() >= instruction.MaxValidatorStakeAccounts {
		return nil, nil
	}
	amount := min(gap, available)
	if amount < minStake || amount < rent.MinimumBalance(stake.StateSize) {
		return nil, nil
	}
	ix, err := c.StakeDeposit(maintainer, v.VoteAccount, amount)
	if err != nil {
		return nil, err
	}
	return &Task{Description: fmt.Sprintf("stake %s with validator %s", amount, v.VoteAccount), Instruction: ix}, nil
}
