// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"fmt"

	"github.com/lido-solana/solido/reverts"
)

// ExchangeRate is the SOL value backing the stSOL supply, as observed in
// ComputedInEpoch. Conversions round down in both directions so that the
// rounding dust always stays in the pool.
type ExchangeRate struct {
	ComputedInEpoch uint64
	SolBalance      Lamports
	StSolSupply     StLamports
}

// IsDefined reports whether conversions are possible, that is, whether a
// deposit has established the rate.
func (r ExchangeRate) IsDefined() bool {
	return r.SolBalance != 0 && r.StSolSupply != 0
}

// ExchangeSol returns how much stSOL amount is worth.
func (r ExchangeRate) ExchangeSol(amount Lamports) (StLamports, error) {
	if !r.IsDefined() {
		return 0, reverts.ErrInvalidUnitConversion
	}
	v, err := mulRatio(uint64(amount), Rational{
		Numerator:   uint64(r.StSolSupply),
		Denominator: uint64(r.SolBalance),
	})
	return StLamports(v), err
}

// ExchangeStSol returns how much SOL amount is worth.
func (r ExchangeRate) ExchangeStSol(amount StLamports) (Lamports, error) {
	if !r.IsDefined() {
		return 0, reverts.ErrInvalidUnitConversion
	}
	v, err := mulRatio(uint64(amount), Rational{
		Numerator:   uint64(r.SolBalance),
		Denominator: uint64(r.StSolSupply),
	})
	return Lamports(v), err
}

func (r ExchangeRate) String() string {
	return fmt.Sprintf("%s / %s (epoch %d)", r.SolBalance, r.StSolSupply, r.ComputedInEpoch)
}
