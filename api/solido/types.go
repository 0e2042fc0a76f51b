// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solido

import (
	"encoding/base64"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

type ExchangeRate struct {
	ComputedInEpoch uint64 `json:"computedInEpoch"`
	SolBalance      uint64 `json:"solBalance"`
	StSolSupply     uint64 `json:"stSolSupply"`
	Defined         bool   `json:"defined"`
	Text            string `json:"text"`
}

func convertExchangeRate(r token.ExchangeRate) *ExchangeRate {
	return &ExchangeRate{
		ComputedInEpoch: r.ComputedInEpoch,
		SolBalance:      uint64(r.SolBalance),
		StSolSupply:     uint64(r.StSolSupply),
		Defined:         r.IsDefined(),
		Text:            r.String(),
	}
}

type RewardDistribution struct {
	Insurance  uint32 `json:"insurance"`
	Treasury   uint32 `json:"treasury"`
	Validation uint32 `json:"validation"`
	Manager    uint32 `json:"manager"`
}

type FeeRecipients struct {
	Insurance solana.PublicKey `json:"insurance"`
	Treasury  solana.PublicKey `json:"treasury"`
	Manager   solana.PublicKey `json:"manager"`
}

type Reserve struct {
	Address   solana.PublicKey `json:"address"`
	Balance   uint64           `json:"balance"`
	Available uint64           `json:"available"`
}

// Summary is the overview of an instance.
type Summary struct {
	Instance           solana.PublicKey   `json:"instance"`
	Manager            solana.PublicKey   `json:"manager"`
	StSolMint          solana.PublicKey   `json:"stSolMint"`
	StSolSupply        uint64             `json:"stSolSupply"`
	Epoch              uint64             `json:"epoch"`
	ExchangeRate       *ExchangeRate      `json:"exchangeRate"`
	RewardDistribution RewardDistribution `json:"rewardDistribution"`
	FeeRecipients      FeeRecipients      `json:"feeRecipients"`
	Reserve            Reserve            `json:"reserve"`
	StakeBalance       uint64             `json:"stakeBalance"`
	Validators         int                `json:"validators"`
	MaxValidators      uint32             `json:"maxValidators"`
	Maintainers        int                `json:"maintainers"`
	MaxMaintainers     uint32             `json:"maxMaintainers"`
}

type SeedRange struct {
	Begin uint64 `json:"begin"`
	End   uint64 `json:"end"`
}

type Validator struct {
	VoteAccount          solana.PublicKey   `json:"voteAccount"`
	FeeAddress           solana.PublicKey   `json:"feeAddress"`
	Weight               uint32             `json:"weight"`
	StakeSeeds           SeedRange          `json:"stakeSeeds"`
	StakeAccounts        []solana.PublicKey `json:"stakeAccounts"`
	StakeAccountsBalance uint64             `json:"stakeAccountsBalance"`
	StakeTarget          uint64             `json:"stakeTarget"`
	FeeCredit            uint64             `json:"feeCredit"`
	// LastUpdateEpoch is null until the balance is first updated.
	LastUpdateEpoch *uint64 `json:"lastUpdateEpoch"`
}

func convertValidator(v *state.Validator, keys []solana.PublicKey, target token.Lamports) *Validator {
	var updated *uint64
	if v.LastUpdateEpoch != state.NeverUpdated {
		epoch := v.LastUpdateEpoch
		updated = &epoch
	}
	return &Validator{
		VoteAccount:          v.VoteAccount,
		FeeAddress:           v.FeeAddress,
		Weight:               v.Weight,
		StakeSeeds:           SeedRange{v.StakeSeeds.Begin, v.StakeSeeds.End},
		StakeAccounts:        keys,
		StakeAccountsBalance: uint64(v.StakeAccountsBalance),
		StakeTarget:          uint64(target),
		FeeCredit:            uint64(v.FeeCredit),
		LastUpdateEpoch:      updated,
	}
}

type AccountMeta struct {
	PublicKey  solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

type Instruction struct {
	ProgramID solana.PublicKey `json:"programId"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      string           `json:"data"`
}

// Task is a maintenance step, with the unsigned instruction that performs it.
type Task struct {
	Description string       `json:"description"`
	Instruction *Instruction `json:"instruction"`
}

func convertTask(task *client.Task) (*Task, error) {
	data, err := task.Instruction.Data()
	if err != nil {
		return nil, err
	}
	ix := &Instruction{
		ProgramID: task.Instruction.ProgramID(),
		Data:      base64.StdEncoding.EncodeToString(data),
	}
	for _, m := range task.Instruction.Accounts() {
		ix.Accounts = append(ix.Accounts, AccountMeta{m.PublicKey, m.IsSigner, m.IsWritable})
	}
	return &Task{Description: task.Description, Instruction: ix}, nil
}
