// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the two value units of the pool: Lamports, the
// native stake unit, and StLamports, the unit of the stSOL receipt token.
// The types do not convert into each other implicitly; the only bridge is an
// ExchangeRate. All arithmetic is checked and reverts instead of wrapping.
package token

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/lido-solana/solido/reverts"
)

// Decimals is the number of decimals both units are displayed with.
const Decimals = 9

// Lamports is an amount of native SOL, in its smallest unit.
type Lamports uint64

// StLamports is an amount of stSOL, in its smallest unit.
type StLamports uint64

// Rational is a non-negative fraction. A zero denominator is representable
// but every multiplication by it reverts with InvalidUnitConversion.
type Rational struct {
	Numerator   uint64
	Denominator uint64
}

// mulRatio computes floor(amount * r) in 256-bit precision.
func mulRatio(amount uint64, r Rational) (uint64, error) {
	if r.Denominator == 0 {
		return 0, reverts.ErrInvalidUnitConversion
	}
	x := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(r.Numerator))
	x.Div(x, uint256.NewInt(r.Denominator))
	if !x.IsUint64() {
		return 0, reverts.Newf(reverts.ArithmeticOverflow, "%d * %d / %d does not fit in 64 bits", amount, r.Numerator, r.Denominator)
	}
	return x.Uint64(), nil
}

func add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, reverts.Newf(reverts.ArithmeticOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

func sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, reverts.Newf(reverts.ArithmeticUnderflow, "%d - %d", a, b)
	}
	return a - b, nil
}

func format(amount uint64, unit string) string {
	return fmt.Sprintf("%d.%09d %s", amount/1e9, amount%1e9, unit)
}

func (l Lamports) Add(other Lamports) (Lamports, error) {
	v, err := add(uint64(l), uint64(other))
	return Lamports(v), err
}

func (l Lamports) Sub(other Lamports) (Lamports, error) {
	v, err := sub(uint64(l), uint64(other))
	return Lamports(v), err
}

// MulRatio returns floor(l * r).
func (l Lamports) MulRatio(r Rational) (Lamports, error) {
	v, err := mulRatio(uint64(l), r)
	return Lamports(v), err
}

func (l Lamports) String() string {
	return format(uint64(l), "SOL")
}

func (s StLamports) Add(other StLamports) (StLamports, error) {
	v, err := add(uint64(s), uint64(other))
	return StLamports(v), err
}

func (s StLamports) Sub(other StLamports) (StLamports, error) {
	v, err := sub(uint64(s), uint64(other))
	return StLamports(v), err
}

// MulRatio returns floor(s * r).
func (s StLamports) MulRatio(r Rational) (StLamports, error) {
	v, err := mulRatio(uint64(s), r)
	return StLamports(v), err
}

func (s StLamports) String() string {
	return format(uint64(s), "stSOL")
}

// SumLamports adds up amounts, reverting on overflow.
func SumLamports(amounts ...Lamports) (Lamports, error) {
	var total Lamports
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// SumStLamports adds up amounts, reverting on overflow.
func SumStLamports(amounts ...StLamports) (StLamports, error) {
	var total StLamports
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return 0, err
		}
	}
	return total, nil
}
