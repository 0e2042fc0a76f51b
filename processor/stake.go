// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/reverts"
)

func (h *handler) stakeDeposit(args *instruction.StakeDeposit) error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckMaintainer(h.get(instruction.Maintainer)); err != nil {
		return err
	}
	reserveInfo, authorityInfo := h.get(instruction.Reserve), h.get(instruction.StakeAuthority)
	if err := l.CheckReserve(h.program.id, h.instance(), reserveInfo); err != nil {
		return err
	}
	if err := l.CheckStakeAuthority(h.program.id, h.instance(), authorityInfo); err != nil {
		return err
	}
	v, err := h.validator(l)
	if err != nil {
		return err
	}
	rent, err := h.rent()
	if err != nil {
		return err
	}

	if args.Amount < h.program.config.MinimumStakeDeposit {
		return reverts.Newf(reverts.InvalidAmount, "stake deposit of %s is below the minimum %s", args.Amount, h.program.config.MinimumStakeDeposit)
	}
	if minimum := rent.MinimumBalance(stake.StateSize); args.Amount < minimum {
		return reverts.Newf(reverts.InvalidAmount, "stake deposit of %s cannot fund a stake account (%s)", args.Amount, minimum)
	}
	if v.StakeSeeds.Len() >= h.program.config.MaxValidatorStakeAccounts {
		return reverts.Newf(reverts.CapacityExceeded, "validator %s has %d stake accounts", v.VoteAccount, v.StakeSeeds.Len())
	}
	if available := availableReserve(reserveInfo, rent); args.Amount > available {
		return reverts.Newf(reverts.InsufficientFunds, "reserve holds %s, stake deposit needs %s", available, args.Amount)
	}
	seed := v.StakeSeeds.End
	stakeInfo := h.get(instruction.StakeAccountEnd)
	if err := h.checkStakeAccount(v, seed, stakeInfo); err != nil {
		return err
	}
	stakeAddr, err := pda.FindStakeAccount(h.program.id, h.instance(), v.VoteAccount, seed)
	if err != nil {
		return err
	}
	balance, err := v.StakeAccountsBalance.Add(args.Amount)
	if err != nil {
		return err
	}

	logger.Debug("staking", "validator", v.VoteAccount, "seed", seed, "amount", args.Amount)
	stakeSeeds := append(pda.StakeAccountSeeds(h.instance(), v.VoteAccount, seed), []byte{stakeAddr.Bump})
	create := system.CreateAccount(reserveInfo.Key, stakeInfo.Key, system.CreateAccountArgs{
		Lamports: args.Amount,
		Space:    stake.StateSize,
		Owner:    stake.ProgramID,
	})
	if err := h.invoke(create, h.signerSeeds(pda.ReserveAccount, l.ReserveBump), stakeSeeds); err != nil {
		return err
	}
	if err := h.invoke(stake.Initialize(stakeInfo.Key, authorityInfo.Key, authorityInfo.Key)); err != nil {
		return err
	}
	delegate := stake.DelegateStake(stakeInfo.Key, v.VoteAccount, authorityInfo.Key)
	if err := h.invoke(delegate, h.signerSeeds(pda.StakeAuthority, l.StakeAuthorityBump)); err != nil {
		return err
	}

	v.StakeSeeds.End++
	v.StakeAccountsBalance = balance
	logger.Info("staked", "validator", v.VoteAccount, "seed", seed, "amount", args.Amount)
	return h.store(l)
}

func (h *handler) mergeStake() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	reserveInfo, authorityInfo := h.get(instruction.Reserve), h.get(instruction.StakeAuthority)
	if err := l.CheckReserve(h.program.id, h.instance(), reserveInfo); err != nil {
		return err
	}
	if err := l.CheckStakeAuthority(h.program.id, h.instance(), authorityInfo); err != nil {
		return err
	}
	v, err := h.validator(l)
	if err != nil {
		return err
	}
	if v.StakeSeeds.Len() < 2 {
		return reverts.Newf(reverts.MergeIneligible, "validator %s has %d stake accounts", v.VoteAccount, v.StakeSeeds.Len())
	}
	from, to := h.get(instruction.FromStake), h.get(instruction.ToStake)
	if err := h.checkStakeAccount(v, v.StakeSeeds.Begin, from); err != nil {
		return err
	}
	if err := h.checkStakeAccount(v, v.StakeSeeds.Begin+1, to); err != nil {
		return err
	}
	fromState, err := stake.Read(from)
	if err != nil {
		return err
	}
	toState, err := stake.Read(to)
	if err != nil {
		return err
	}
	for _, s := range []*stake.State{fromState, toState} {
		if s.Kind != stake.Delegated || !s.Voter.Equals(v.VoteAccount) {
			return reverts.Newf(reverts.MergeIneligible, "stake of %s is not delegated to it", v.VoteAccount)
		}
	}
	if fromState.ActivationEpoch != toState.ActivationEpoch {
		return reverts.Newf(reverts.MergeIneligible, "activation epochs %d and %d differ", fromState.ActivationEpoch, toState.ActivationEpoch)
	}

	authoritySeeds := h.signerSeeds(pda.StakeAuthority, l.StakeAuthorityBump)
	logger.Debug("merging stake", "validator", v.VoteAccount, "from", from.Key, "to", to.Key)
	if err := h.invoke(stake.Merge(to.Key, from.Key, authorityInfo.Key), authoritySeeds); err != nil {
		return err
	}

	// Everything above the delegation and its rent reserve goes back to the reserve.
	merged, err := stake.Read(to)
	if err != nil {
		return err
	}
	locked, err := merged.Stake.Add(merged.RentExemptReserve)
	if err != nil {
		return err
	}
	if to.Lamports > locked {
		excess := to.Lamports - locked
		if v.StakeAccountsBalance, err = v.StakeAccountsBalance.Sub(excess); err != nil {
			return err
		}
		if err := h.invoke(stake.Withdraw(to.Key, reserveInfo.Key, authorityInfo.Key, excess), authoritySeeds); err != nil {
			return err
		}
		logger.Debug("returned merge excess", "validator", v.VoteAccount, "amount", excess)
	}

	v.StakeSeeds.Begin++
	logger.Info("merged stake", "validator", v.VoteAccount, "seeds", v.StakeSeeds)
	return h.store(l)
}
