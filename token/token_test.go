// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/reverts"
)

func TestLamports_CheckedArithmetic(t *testing.T) {
	sum, err := Lamports(40).Add(2)
	require.NoError(t, err)
	assert.Equal(t, Lamports(42), sum)

	_, err = Lamports(math.MaxUint64).Add(1)
	assert.True(t, errors.Is(err, reverts.ErrArithmeticOverflow))

	diff, err := Lamports(42).Sub(2)
	require.NoError(t, err)
	assert.Equal(t, Lamports(40), diff)

	_, err = Lamports(1).Sub(2)
	assert.True(t, errors.Is(err, reverts.ErrArithmeticUnderflow))

	_, err = StLamports(0).Sub(1)
	assert.True(t, errors.Is(err, reverts.ErrArithmeticUnderflow))
}

func TestMulRatio(t *testing.T) {
	tests := []struct {
		name    string
		amount  Lamports
		ratio   Rational
		want    Lamports
		wantErr error
	}{
		{"identity", 1000, Rational{1, 1}, 1000, nil},
		{"floors", 10, Rational{1, 3}, 3, nil},
		{"wide intermediate", math.MaxUint64, Rational{math.MaxUint64, math.MaxUint64}, math.MaxUint64, nil},
		{"result overflows", math.MaxUint64, Rational{2, 1}, 0, reverts.ErrArithmeticOverflow},
		{"zero denominator", 10, Rational{1, 0}, 0, reverts.ErrInvalidUnitConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.amount.MulRatio(tt.ratio)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExchangeRate_Undefined(t *testing.T) {
	rate := ExchangeRate{ComputedInEpoch: 3}
	assert.False(t, rate.IsDefined())

	_, err := rate.ExchangeSol(100)
	assert.True(t, errors.Is(err, reverts.ErrInvalidUnitConversion))
	_, err = rate.ExchangeStSol(100)
	assert.True(t, errors.Is(err, reverts.ErrInvalidUnitConversion))

	// Donations into an empty pool do not make the rate usable.
	rate.SolBalance = 5
	_, err = rate.ExchangeSol(100)
	assert.True(t, errors.Is(err, reverts.ErrInvalidUnitConversion))
}

func TestExchangeRate_RoundsDown(t *testing.T) {
	rate := ExchangeRate{SolBalance: 3, StSolSupply: 2}

	st, err := rate.ExchangeSol(10)
	require.NoError(t, err)
	assert.Equal(t, StLamports(6), st) // 10 * 2 / 3 = 6.66

	sol, err := rate.ExchangeStSol(st)
	require.NoError(t, err)
	assert.Equal(t, Lamports(9), sol) // 6 * 3 / 2 = 9
}

func TestExchangeRate_RoundTripNeverGains(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 2000 {
		var sol, st, amount uint32
		f.Fuzz(&sol)
		f.Fuzz(&st)
		f.Fuzz(&amount)
		if sol == 0 || st == 0 {
			continue
		}
		rate := ExchangeRate{SolBalance: Lamports(sol), StSolSupply: StLamports(st)}

		minted, err := rate.ExchangeSol(Lamports(amount))
		require.NoError(t, err)
		back, err := rate.ExchangeStSol(minted)
		require.NoError(t, err)
		assert.LessOrEqual(t, uint64(back), uint64(amount), "rate %v amount %d", rate, amount)
	}
}

func TestSum(t *testing.T) {
	total, err := SumLamports(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Lamports(6), total)

	_, err = SumStLamports(math.MaxUint64, 1)
	assert.True(t, errors.Is(err, reverts.ErrArithmeticOverflow))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.500000000 SOL", Lamports(1_500_000_000).String())
	assert.Equal(t, "0.000000001 stSOL", StLamports(1).String())
}
