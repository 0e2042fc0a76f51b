// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// Deposit pays amount from user into the reserve and mints stSOL to recipient.
func (c *Client) Deposit(user, recipient solana.PublicKey, amount token.Lamports) (solana.Instruction, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	return instruction.NewDeposit(c.programID, instruction.DepositMeta{
		Lido:          c.addrs.Instance,
		User:          user,
		Recipient:     recipient,
		StSolMint:     l.StSolMint,
		Reserve:       c.addrs.Reserve,
		MintAuthority: c.addrs.MintAuthority,
	}, instruction.Deposit{Amount: amount})
}

// Withdraw burns amount stSOL from source, owned by user, and pays its value to recipient.
func (c *Client) Withdraw(user, source, recipient solana.PublicKey, amount token.StLamports) (solana.Instruction, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	return instruction.NewWithdraw(c.programID, instruction.WithdrawMeta{
		Lido:      c.addrs.Instance,
		User:      user,
		Source:    source,
		StSolMint: l.StSolMint,
		Reserve:   c.addrs.Reserve,
		Recipient: recipient,
	}, instruction.Withdraw{Amount: amount})
}

// StakeDeposit moves amount from the reserve into the next stake account of vote.
func (c *Client) StakeDeposit(maintainer, vote solana.PublicKey, amount token.Lamports) (solana.Instruction, error) {
	v, err := c.Validator(vote)
	if err != nil {
		return nil, err
	}
	end, err := pda.FindStakeAccount(c.programID, c.addrs.Instance, vote, v.StakeSeeds.End)
	if err != nil {
		return nil, err
	}
	return instruction.NewStakeDeposit(c.programID, instruction.StakeDepositMeta{
		Lido:                 c.addrs.Instance,
		Maintainer:           maintainer,
		Reserve:              c.addrs.Reserve,
		ValidatorVoteAccount: vote,
		StakeAccountEnd:      end.Key,
		StakeAuthority:       c.addrs.StakeAuthority,
	}, instruction.StakeDeposit{Amount: amount})
}

func (c *Client) UpdateExchangeRate() (solana.Instruction, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	return instruction.NewUpdateExchangeRate(c.programID, instruction.UpdateExchangeRateMeta{
		Lido:      c.addrs.Instance,
		Reserve:   c.addrs.Reserve,
		StSolMint: l.StSolMint,
	})
}

// UpdateValidatorBalance lists every open stake account of vote.
func (c *Client) UpdateValidatorBalance(vote solana.PublicKey) (solana.Instruction, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	v, err := l.Validators.Get(vote)
	if err != nil {
		return nil, err
	}
	stakeAccounts, err := c.StakeAccounts(v)
	if err != nil {
		return nil, err
	}
	return instruction.NewUpdateValidatorBalance(c.programID, instruction.UpdateValidatorBalanceMeta{
		Lido:                 c.addrs.Instance,
		ValidatorVoteAccount: vote,
		StSolMint:            l.StSolMint,
		MintAuthority:        c.addrs.MintAuthority,
		InsuranceAccount:     l.FeeRecipients.Insurance,
		TreasuryAccount:      l.FeeRecipients.Treasury,
		ManagerFeeAccount:    l.FeeRecipients.Manager,
		StakeAccounts:        stakeAccounts,
	})
}

func (c *Client) ClaimValidatorFees(vote solana.PublicKey) (solana.Instruction, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	v, err := l.Validators.Get(vote)
	if err != nil {
		return nil, err
	}
	return instruction.NewClaimValidatorFees(c.programID, instruction.ClaimValidatorFeesMeta{
		Lido:                 c.addrs.Instance,
		ValidatorVoteAccount: vote,
		StSolMint:            l.StSolMint,
		MintAuthority:        c.addrs.MintAuthority,
		ValidatorFeeAccount:  v.FeeAddress,
	})
}

// MergeStake merges the two oldest stake accounts of vote.
func (c *Client) MergeStake(vote solana.PublicKey) (solana.Instruction, error) {
	v, err := c.Validator(vote)
	if err != nil {
		return nil, err
	}
	if v.StakeSeeds.Len() < 2 {
		return nil, reverts.Newf(reverts.MergeIneligible, "validator %s has %d stake accounts", vote, v.StakeSeeds.Len())
	}
	from, err := pda.FindStakeAccount(c.programID, c.addrs.Instance, vote, v.StakeSeeds.Begin)
	if err != nil {
		return nil, err
	}
	to, err := pda.FindStakeAccount(c.programID, c.addrs.Instance, vote, v.StakeSeeds.Begin+1)
	if err != nil {
		return nil, err
	}
	return instruction.NewMergeStake(c.programID, instruction.MergeStakeMeta{
		Lido:                 c.addrs.Instance,
		ValidatorVoteAccount: vote,
		FromStake:            from.Key,
		ToStake:              to.Key,
		StakeAuthority:       c.addrs.StakeAuthority,
		Reserve:              c.addrs.Reserve,
	})
}

func (c *Client) ChangeRewardDistribution(manager solana.PublicKey, d state.RewardDistribution, to state.FeeRecipients) (solana.Instruction, error) {
	return instruction.NewChangeRewardDistribution(c.programID, instruction.ChangeRewardDistributionMeta{
		Lido:              c.addrs.Instance,
		Manager:           manager,
		InsuranceAccount:  to.Insurance,
		TreasuryAccount:   to.Treasury,
		ManagerFeeAccount: to.Manager,
	}, instruction.ChangeRewardDistribution{RewardDistribution: d})
}

func (c *Client) AddValidator(manager, vote, feeAccount solana.PublicKey, weight uint32) (solana.Instruction, error) {
	return instruction.NewAddValidator(c.programID, instruction.AddValidatorMeta{
		Lido:                 c.addrs.Instance,
		Manager:              manager,
		ValidatorVoteAccount: vote,
		ValidatorFeeAccount:  feeAccount,
	}, instruction.AddValidator{Weight: weight})
}

func (c *Client) RemoveValidator(manager, vote solana.PublicKey) (solana.Instruction, error) {
	return instruction.NewRemoveValidator(c.programID, instruction.RemoveValidatorMeta{
		Lido:                 c.addrs.Instance,
		Manager:              manager,
		ValidatorVoteAccount: vote,
	})
}

func (c *Client) AddMaintainer(manager, maintainer solana.PublicKey) (solana.Instruction, error) {
	return instruction.NewAddMaintainer(c.programID, instruction.MaintainerMeta{
		Lido:       c.addrs.Instance,
		Manager:    manager,
		Maintainer: maintainer,
	})
}

func (c *Client) RemoveMaintainer(manager, maintainer solana.PublicKey) (solana.Instruction, error) {
	return instruction.NewRemoveMaintainer(c.programID, instruction.MaintainerMeta{
		Lido:       c.addrs.Instance,
		Manager:    manager,
		Maintainer: maintainer,
	})
}
