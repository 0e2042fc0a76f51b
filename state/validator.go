// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/token"
)

// SeedRange is the half-open range [Begin, End) of stake account seeds a
// validator currently uses.
type SeedRange struct {
	Begin uint64
	End   uint64
}

func (r SeedRange) Len() uint64   { return r.End - r.Begin }
func (r SeedRange) IsEmpty() bool { return r.Begin == r.End }

// Validator is a vote account the pool delegates to.
type Validator struct {
	VoteAccount solana.PublicKey
	// FeeAddress is the stSOL account validation fees are minted into.
	FeeAddress solana.PublicKey
	Weight     uint32
	StakeSeeds SeedRange
	// StakeAccountsBalance is the balance of the stake accounts as last
	// observed by the program.
	StakeAccountsBalance token.Lamports
	// FeeCredit is validation fee earned but not yet minted.
	FeeCredit token.StLamports
	// LastUpdateEpoch is the epoch of the last balance update, NeverUpdated
	// until the first one.
	LastUpdateEpoch uint64
}

// NeverUpdated is the LastUpdateEpoch of a validator whose balance was never
// updated.
const NeverUpdated = math.MaxUint64

func (v Validator) Pubkey() solana.PublicKey { return v.VoteAccount }

// Maintainer is an operator allowed to move reserve funds into stake.
type Maintainer struct {
	Address solana.PublicKey
}

func (m Maintainer) Pubkey() solana.PublicKey { return m.Address }

type (
	Validators  = AccountList[Validator]
	Maintainers = AccountList[Maintainer]
)

// StakeTargets splits total over the validators proportionally to their
// weights. The floor remainder goes to the first validators with non-zero
// weight, one lamport each, so the targets add up to total exactly. If every
// weight is zero, every target is zero.
func StakeTargets(validators []Validator, total token.Lamports) []token.Lamports {
	targets := make([]token.Lamports, len(validators))
	var weights uint64
	for _, v := range validators {
		weights += uint64(v.Weight)
	}
	if weights == 0 {
		return targets
	}
	assigned := token.Lamports(0)
	for i, v := range validators {
		// cannot overflow: weight / weights <= 1
		targets[i], _ = total.MulRatio(token.Rational{Numerator: uint64(v.Weight), Denominator: weights})
		assigned += targets[i]
	}
	for i := 0; assigned < total; i = (i + 1) % len(validators) {
		if validators[i].Weight > 0 {
			targets[i]++
			assigned++
		}
	}
	return targets
}

// StakeTarget picks the validator that is furthest below its target, given
// the reserve amount about to be staked. It returns -1 if no validator has
// weight.
func StakeTarget(validators []Validator, undelegated token.Lamports) (int, token.Lamports) {
	total := undelegated
	for _, v := range validators {
		total += v.StakeAccountsBalance
	}
	targets := StakeTargets(validators, total)
	best, bestGap := -1, token.Lamports(0)
	for i, v := range validators {
		if v.Weight == 0 || targets[i] <= v.StakeAccountsBalance {
			continue
		}
		if gap := targets[i] - v.StakeAccountsBalance; best < 0 || gap > bestGap {
			best, bestGap = i, gap
		}
	}
	return best, bestGap
}
