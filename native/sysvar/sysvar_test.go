// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sysvar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

func TestRent_MinimumBalance(t *testing.T) {
	assert.Equal(t, token.Lamports(890_880), DefaultRent.MinimumBalance(0))
	assert.Equal(t, token.Lamports(2_282_880), DefaultRent.MinimumBalance(200))
	assert.True(t, DefaultRent.IsExempt(890_880, 0))
	assert.False(t, DefaultRent.IsExempt(890_879, 0))
}

func TestReadClock(t *testing.T) {
	clock := Clock{Slot: 100, Epoch: 7, UnixTimestamp: 1_700_000_000}
	got, err := ReadClock(&accounts.Info{Key: ClockID, Data: clock.Encode()})
	require.NoError(t, err)
	assert.Equal(t, clock, *got)

	_, err = ReadClock(&accounts.Info{Key: RentID, Data: clock.Encode()})
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))

	_, err = ReadClock(&accounts.Info{Key: ClockID, Data: []byte{1, 2}})
	assert.True(t, errors.Is(err, reverts.ErrInvalidAccountData))
}

func TestReadRent(t *testing.T) {
	rent := DefaultRent
	got, err := ReadRent(&accounts.Info{Key: RentID, Data: rent.Encode()})
	require.NoError(t, err)
	assert.Equal(t, rent, *got)
}
