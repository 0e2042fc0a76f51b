// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/native/sysvar"
	nativetoken "github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/state"
)

// StSolDecimals matches SOL, so one stSOL is 1e9 stLamports.
const StSolDecimals = 9

// CreateMint returns the instructions that create and initialize a mint at
// mint, funded by payer. Both payer and mint sign.
func CreateMint(payer, mint, authority solana.PublicKey, rent sysvar.Rent) []solana.Instruction {
	return []solana.Instruction{
		system.CreateAccount(payer, mint, system.CreateAccountArgs{
			Lamports: rent.MinimumBalance(nativetoken.MintSize),
			Space:    uint64(nativetoken.MintSize),
			Owner:    nativetoken.ProgramID,
		}),
		nativetoken.InitializeMint(mint, authority, StSolDecimals),
	}
}

// CreateTokenAccount returns the instructions that create and initialize a
// token account of mint owned by owner. Both payer and account sign.
func CreateTokenAccount(payer, account, mint, owner solana.PublicKey, rent sysvar.Rent) []solana.Instruction {
	return []solana.Instruction{
		system.CreateAccount(payer, account, system.CreateAccountArgs{
			Lamports: rent.MinimumBalance(nativetoken.AccountSize),
			Space:    uint64(nativetoken.AccountSize),
			Owner:    nativetoken.ProgramID,
		}),
		nativetoken.InitializeAccount(account, mint, owner),
	}
}

// InstanceConfig describes a new instance.
type InstanceConfig struct {
	Manager            solana.PublicKey
	StSolMint          solana.PublicKey
	FeeRecipients      state.FeeRecipients
	RewardDistribution state.RewardDistribution
	MaxValidators      uint32
	MaxMaintainers     uint32
}

// CreateInstance returns the instructions that allocate the instance account,
// fund the reserve and initialize the instance. The mint must already exist
// with the derived mint authority. Both payer and instance sign.
func CreateInstance(programID, payer, instance solana.PublicKey, cfg InstanceConfig, rent sysvar.Rent) ([]solana.Instruction, error) {
	addrs, err := DeriveAddresses(programID, instance)
	if err != nil {
		return nil, err
	}
	size := state.Size(cfg.MaxValidators, cfg.MaxMaintainers)
	initialize, err := instruction.NewInitialize(programID, instruction.InitializeMeta{
		Lido:              instance,
		Manager:           cfg.Manager,
		StSolMint:         cfg.StSolMint,
		InsuranceAccount:  cfg.FeeRecipients.Insurance,
		TreasuryAccount:   cfg.FeeRecipients.Treasury,
		ManagerFeeAccount: cfg.FeeRecipients.Manager,
		Reserve:           addrs.Reserve,
	}, instruction.Initialize{
		RewardDistribution: cfg.RewardDistribution,
		MaxValidators:      cfg.MaxValidators,
		MaxMaintainers:     cfg.MaxMaintainers,
	})
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{
		system.CreateAccount(payer, instance, system.CreateAccountArgs{
			Lamports: rent.MinimumBalance(size),
			Space:    uint64(size),
			Owner:    programID,
		}),
		system.Transfer(payer, addrs.Reserve, rent.MinimumBalance(0)),
		initialize,
	}, nil
}
