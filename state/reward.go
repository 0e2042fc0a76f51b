// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

// RewardDistribution gives each fee recipient an integer part of the rewards.
// A recipient's share is its part divided by the sum of all parts.
type RewardDistribution struct {
	Insurance  uint32
	Treasury   uint32
	Validation uint32
	Manager    uint32
}

// Fees is the stSOL minted to each recipient for one reward.
type Fees struct {
	Insurance  token.StLamports
	Treasury   token.StLamports
	Validation token.StLamports
	Manager    token.StLamports
}

// Total is the sum of all fees.
func (f Fees) Total() (token.StLamports, error) {
	return token.SumStLamports(f.Insurance, f.Treasury, f.Validation, f.Manager)
}

func (d RewardDistribution) Sum() uint64 {
	return uint64(d.Insurance) + uint64(d.Treasury) + uint64(d.Validation) + uint64(d.Manager)
}

// Validate rejects a distribution that cannot split anything.
func (d RewardDistribution) Validate() error {
	if d.Sum() == 0 {
		return reverts.Newf(reverts.InvalidRewardDistribution, "all parts are zero")
	}
	return nil
}

// Split divides amount by the parts, rounding each share down. What rounding
// leaves over goes to the last recipient, in the order insurance, treasury,
// validation, manager, that has a non-zero part, so the shares always add up
// to amount.
func (d RewardDistribution) Split(amount token.StLamports) (Fees, error) {
	if err := d.Validate(); err != nil {
		return Fees{}, err
	}
	parts := [4]uint32{d.Insurance, d.Treasury, d.Validation, d.Manager}
	var shares [4]token.StLamports
	var assigned token.StLamports
	last := 0
	for i, p := range parts {
		share, err := amount.MulRatio(token.Rational{Numerator: uint64(p), Denominator: d.Sum()})
		if err != nil {
			return Fees{}, err
		}
		shares[i] = share
		assigned += share // shares are floors of amount's fractions
		if p > 0 {
			last = i
		}
	}
	shares[last] += amount - assigned
	return Fees{
		Insurance:  shares[0],
		Treasury:   shares[1],
		Validation: shares[2],
		Manager:    shares[3],
	}, nil
}

// FeeRecipients are the stSOL token accounts fees are minted into.
type FeeRecipients struct {
	Insurance solana.PublicKey
	Treasury  solana.PublicKey
	Manager   solana.PublicKey
}
