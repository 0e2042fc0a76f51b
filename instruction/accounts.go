// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/native/sysvar"
	nativetoken "github.com/lido-solana/solido/native/token"
)

// MaxValidatorStakeAccounts bounds the stake accounts one validator may have
// open, and so the accounts UpdateValidatorBalance has to list.
const MaxValidatorStakeAccounts = 32

// Role names.
const (
	Lido                 = "lido"
	Manager              = "manager"
	Maintainer           = "maintainer"
	User                 = "user"
	Recipient            = "recipient"
	Source               = "source"
	StSolMint            = "st_sol_mint"
	Reserve              = "reserve"
	MintAuthority        = "mint_authority"
	StakeAuthority       = "stake_authority"
	InsuranceAccount     = "insurance_account"
	TreasuryAccount      = "treasury_account"
	ManagerFeeAccount    = "manager_fee_account"
	ValidatorVoteAccount = "validator_vote_account"
	ValidatorFeeAccount  = "validator_fee_account"
	StakeAccountEnd      = "stake_account_end"
	StakeAccounts        = "stake_accounts"
	FromStake            = "from_stake"
	ToStake              = "to_stake"
	SysvarClock          = "sysvar_clock"
	SysvarRent           = "sysvar_rent"
	StakeHistory         = "stake_history"
	StakeConfig          = "stake_config"
	SystemProgram        = "system_program"
	TokenProgram         = "token_program"
	StakeProgram         = "stake_program"
)

func constant(name string, key solana.PublicKey) accounts.Role {
	return accounts.Role{Name: name, Const: &key}
}

var (
	clock         = constant(SysvarClock, sysvar.ClockID)
	rent          = constant(SysvarRent, sysvar.RentID)
	stakeHistory  = constant(StakeHistory, sysvar.StakeHistoryID)
	stakeConfig   = constant(StakeConfig, stake.ConfigID)
	systemProgram = constant(SystemProgram, system.ProgramID)
	tokenProgram  = constant(TokenProgram, nativetoken.ProgramID)
	stakeProgram  = constant(StakeProgram, stake.ProgramID)
)

var contracts = map[Kind]*accounts.Contract{
	KindInitialize: accounts.MustContract(KindInitialize.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager},
		accounts.Role{Name: StSolMint},
		accounts.Role{Name: InsuranceAccount},
		accounts.Role{Name: TreasuryAccount},
		accounts.Role{Name: ManagerFeeAccount},
		accounts.Role{Name: Reserve},
		clock,
		rent,
	),
	KindDeposit: accounts.MustContract(KindDeposit.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: User, Signer: true, Writable: true},
		accounts.Role{Name: Recipient, Writable: true},
		accounts.Role{Name: StSolMint, Writable: true},
		accounts.Role{Name: Reserve, Writable: true},
		accounts.Role{Name: MintAuthority},
		clock,
		systemProgram,
		tokenProgram,
	),
	KindStakeDeposit: accounts.MustContract(KindStakeDeposit.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Maintainer, Signer: true},
		accounts.Role{Name: Reserve, Writable: true},
		accounts.Role{Name: ValidatorVoteAccount},
		accounts.Role{Name: StakeAccountEnd, Writable: true},
		accounts.Role{Name: StakeAuthority},
		clock,
		rent,
		stakeHistory,
		stakeConfig,
		systemProgram,
		stakeProgram,
	),
	KindUpdateExchangeRate: accounts.MustContract(KindUpdateExchangeRate.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Reserve},
		accounts.Role{Name: StSolMint},
		clock,
		rent,
	),
	KindUpdateValidatorBalance: accounts.MustContract(KindUpdateValidatorBalance.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: ValidatorVoteAccount},
		accounts.Role{Name: StSolMint, Writable: true},
		accounts.Role{Name: MintAuthority},
		accounts.Role{Name: InsuranceAccount, Writable: true},
		accounts.Role{Name: TreasuryAccount, Writable: true},
		accounts.Role{Name: ManagerFeeAccount, Writable: true},
		clock,
		tokenProgram,
		accounts.Role{Name: StakeAccounts, Variadic: true, MaxRest: MaxValidatorStakeAccounts},
	),
	KindWithdraw: accounts.MustContract(KindWithdraw.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: User, Signer: true},
		accounts.Role{Name: Source, Writable: true},
		accounts.Role{Name: StSolMint, Writable: true},
		accounts.Role{Name: Reserve, Writable: true},
		accounts.Role{Name: Recipient, Writable: true},
		clock,
		rent,
		systemProgram,
		tokenProgram,
	),
	KindClaimValidatorFees: accounts.MustContract(KindClaimValidatorFees.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: ValidatorVoteAccount},
		accounts.Role{Name: StSolMint, Writable: true},
		accounts.Role{Name: MintAuthority},
		accounts.Role{Name: ValidatorFeeAccount, Writable: true},
		tokenProgram,
	),
	KindChangeRewardDistribution: accounts.MustContract(KindChangeRewardDistribution.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager, Signer: true},
		accounts.Role{Name: InsuranceAccount},
		accounts.Role{Name: TreasuryAccount},
		accounts.Role{Name: ManagerFeeAccount},
	),
	KindAddValidator: accounts.MustContract(KindAddValidator.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager, Signer: true},
		accounts.Role{Name: ValidatorVoteAccount},
		accounts.Role{Name: ValidatorFeeAccount},
	),
	KindRemoveValidator: accounts.MustContract(KindRemoveValidator.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager, Signer: true},
		accounts.Role{Name: ValidatorVoteAccount},
	),
	KindAddMaintainer: accounts.MustContract(KindAddMaintainer.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager, Signer: true},
		accounts.Role{Name: Maintainer},
	),
	KindRemoveMaintainer: accounts.MustContract(KindRemoveMaintainer.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: Manager, Signer: true},
		accounts.Role{Name: Maintainer},
	),
	KindMergeStake: accounts.MustContract(KindMergeStake.String(),
		accounts.Role{Name: Lido, Writable: true},
		accounts.Role{Name: ValidatorVoteAccount},
		accounts.Role{Name: FromStake, Writable: true},
		accounts.Role{Name: ToStake, Writable: true},
		accounts.Role{Name: StakeAuthority},
		accounts.Role{Name: Reserve, Writable: true},
		clock,
		stakeHistory,
		stakeProgram,
	),
}

// Contract returns the account contract of an operation.
func Contract(k Kind) *accounts.Contract {
	c, ok := contracts[k]
	if !ok {
		panic("instruction: no contract for " + k.String())
	}
	return c
}
