// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/accounts"
)

func build(programID solana.PublicKey, p Payload, keys accounts.Keys, rest ...solana.PublicKey) (*solana.GenericInstruction, error) {
	metas, err := Contract(p.Kind()).Metas(keys, rest...)
	if err != nil {
		return nil, errors.WithMessage(err, p.Kind().String())
	}
	data, err := Encode(p)
	if err != nil {
		return nil, errors.Wrap(err, p.Kind().String())
	}
	return solana.NewInstruction(programID, metas, data), nil
}

type InitializeMeta struct {
	Lido              solana.PublicKey
	Manager           solana.PublicKey
	StSolMint         solana.PublicKey
	InsuranceAccount  solana.PublicKey
	TreasuryAccount   solana.PublicKey
	ManagerFeeAccount solana.PublicKey
	Reserve           solana.PublicKey
}

func NewInitialize(programID solana.PublicKey, m InitializeMeta, args Initialize) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:              m.Lido,
		Manager:           m.Manager,
		StSolMint:         m.StSolMint,
		InsuranceAccount:  m.InsuranceAccount,
		TreasuryAccount:   m.TreasuryAccount,
		ManagerFeeAccount: m.ManagerFeeAccount,
		Reserve:           m.Reserve,
	})
}

type DepositMeta struct {
	Lido          solana.PublicKey
	User          solana.PublicKey
	Recipient     solana.PublicKey
	StSolMint     solana.PublicKey
	Reserve       solana.PublicKey
	MintAuthority solana.PublicKey
}

func NewDeposit(programID solana.PublicKey, m DepositMeta, args Deposit) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:          m.Lido,
		User:          m.User,
		Recipient:     m.Recipient,
		StSolMint:     m.StSolMint,
		Reserve:       m.Reserve,
		MintAuthority: m.MintAuthority,
	})
}

type StakeDepositMeta struct {
	Lido                 solana.PublicKey
	Maintainer           solana.PublicKey
	Reserve              solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
	StakeAccountEnd      solana.PublicKey
	StakeAuthority       solana.PublicKey
}

func NewStakeDeposit(programID solana.PublicKey, m StakeDepositMeta, args StakeDeposit) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:                 m.Lido,
		Maintainer:           m.Maintainer,
		Reserve:              m.Reserve,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
		StakeAccountEnd:      m.StakeAccountEnd,
		StakeAuthority:       m.StakeAuthority,
	})
}

type UpdateExchangeRateMeta struct {
	Lido      solana.PublicKey
	Reserve   solana.PublicKey
	StSolMint solana.PublicKey
}

func NewUpdateExchangeRate(programID solana.PublicKey, m UpdateExchangeRateMeta) (*solana.GenericInstruction, error) {
	return build(programID, UpdateExchangeRate{}, accounts.Keys{
		Lido:      m.Lido,
		Reserve:   m.Reserve,
		StSolMint: m.StSolMint,
	})
}

type UpdateValidatorBalanceMeta struct {
	Lido                 solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
	StSolMint            solana.PublicKey
	MintAuthority        solana.PublicKey
	InsuranceAccount     solana.PublicKey
	TreasuryAccount      solana.PublicKey
	ManagerFeeAccount    solana.PublicKey
	// StakeAccounts are the validator's stake accounts, in seed order.
	StakeAccounts []solana.PublicKey
}

func NewUpdateValidatorBalance(programID solana.PublicKey, m UpdateValidatorBalanceMeta) (*solana.GenericInstruction, error) {
	return build(programID, UpdateValidatorBalance{}, accounts.Keys{
		Lido:                 m.Lido,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
		StSolMint:            m.StSolMint,
		MintAuthority:        m.MintAuthority,
		InsuranceAccount:     m.InsuranceAccount,
		TreasuryAccount:      m.TreasuryAccount,
		ManagerFeeAccount:    m.ManagerFeeAccount,
	}, m.StakeAccounts...)
}

type WithdrawMeta struct {
	Lido      solana.PublicKey
	User      solana.PublicKey
	Source    solana.PublicKey
	StSolMint solana.PublicKey
	Reserve   solana.PublicKey
	Recipient solana.PublicKey
}

func NewWithdraw(programID solana.PublicKey, m WithdrawMeta, args Withdraw) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:      m.Lido,
		User:      m.User,
		Source:    m.Source,
		StSolMint: m.StSolMint,
		Reserve:   m.Reserve,
		Recipient: m.Recipient,
	})
}

type ClaimValidatorFeesMeta struct {
	Lido                 solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
	StSolMint            solana.PublicKey
	MintAuthority        solana.PublicKey
	ValidatorFeeAccount  solana.PublicKey
}

func NewClaimValidatorFees(programID solana.PublicKey, m ClaimValidatorFeesMeta) (*solana.GenericInstruction, error) {
	return build(programID, ClaimValidatorFees{}, accounts.Keys{
		Lido:                 m.Lido,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
		StSolMint:            m.StSolMint,
		MintAuthority:        m.MintAuthority,
		ValidatorFeeAccount:  m.ValidatorFeeAccount,
	})
}

type ChangeRewardDistributionMeta struct {
	Lido              solana.PublicKey
	Manager           solana.PublicKey
	InsuranceAccount  solana.PublicKey
	TreasuryAccount   solana.PublicKey
	ManagerFeeAccount solana.PublicKey
}

func NewChangeRewardDistribution(programID solana.PublicKey, m ChangeRewardDistributionMeta, args ChangeRewardDistribution) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:              m.Lido,
		Manager:           m.Manager,
		InsuranceAccount:  m.InsuranceAccount,
		TreasuryAccount:   m.TreasuryAccount,
		ManagerFeeAccount: m.ManagerFeeAccount,
	})
}

type AddValidatorMeta struct {
	Lido                 solana.PublicKey
	Manager              solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
	ValidatorFeeAccount  solana.PublicKey
}

func NewAddValidator(programID solana.PublicKey, m AddValidatorMeta, args AddValidator) (*solana.GenericInstruction, error) {
	return build(programID, args, accounts.Keys{
		Lido:                 m.Lido,
		Manager:              m.Manager,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
		ValidatorFeeAccount:  m.ValidatorFeeAccount,
	})
}

type RemoveValidatorMeta struct {
	Lido                 solana.PublicKey
	Manager              solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
}

func NewRemoveValidator(programID solana.PublicKey, m RemoveValidatorMeta) (*solana.GenericInstruction, error) {
	return build(programID, RemoveValidator{}, accounts.Keys{
		Lido:                 m.Lido,
		Manager:              m.Manager,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
	})
}

type MaintainerMeta struct {
	Lido       solana.PublicKey
	Manager    solana.PublicKey
	Maintainer solana.PublicKey
}

func NewAddMaintainer(programID solana.PublicKey, m MaintainerMeta) (*solana.GenericInstruction, error) {
	return build(programID, AddMaintainer{}, accounts.Keys{Lido: m.Lido, Manager: m.Manager, Maintainer: m.Maintainer})
}

func NewRemoveMaintainer(programID solana.PublicKey, m MaintainerMeta) (*solana.GenericInstruction, error) {
	return build(programID, RemoveMaintainer{}, accounts.Keys{Lido: m.Lido, Manager: m.Manager, Maintainer: m.Maintainer})
}

type MergeStakeMeta struct {
	Lido                 solana.PublicKey
	ValidatorVoteAccount solana.PublicKey
	FromStake            solana.PublicKey
	ToStake              solana.PublicKey
	StakeAuthority       solana.PublicKey
	Reserve              solana.PublicKey
}

func NewMergeStake(programID solana.PublicKey, m MergeStakeMeta) (*solana.GenericInstruction, error) {
	return build(programID, MergeStake{}, accounts.Keys{
		Lido:                 m.Lido,
		ValidatorVoteAccount: m.ValidatorVoteAccount,
		FromStake:            m.FromStake,
		ToStake:              m.ToStake,
		StakeAuthority:       m.StakeAuthority,
		Reserve:              m.Reserve,
	})
}
