// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/native/sysvar"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
)

func key(name string) solana.PublicKey {
	h := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(h[:])
}

func TestKind_Discriminants(t *testing.T) {
	assert.Equal(t, Kind(0), KindInitialize)
	assert.Equal(t, Kind(12), KindMergeStake)
	assert.Len(t, Kinds(), 13)
	assert.Equal(t, "UpdateValidatorBalance", KindUpdateValidatorBalance.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	for _, k := range Kinds() {
		assert.NotNil(t, Contract(k), k.String())
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(Deposit{Amount: 1_000_000})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, data)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, &Deposit{Amount: 1_000_000}, p)

	args := Initialize{
		RewardDistribution: state.RewardDistribution{Insurance: 1, Treasury: 2, Validation: 3, Manager: 4},
		MaxValidators:      10,
		MaxMaintainers:     3,
	}
	data, err = Encode(args)
	require.NoError(t, err)
	p, err = Decode(data)
	require.NoError(t, err)
	assert.Equal(t, &args, p)

	data, err = Encode(MergeStake{})
	require.NoError(t, err)
	assert.Equal(t, []byte{12}, data)
}

func TestDecode_Rejects(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":    nil,
		"unknown":  {13},
		"short":    {1, 0, 0},
		"trailing": {3, 0},
	} {
		_, err := Decode(data)
		assert.True(t, errors.Is(err, reverts.ErrInvalidInstruction), name)
	}
}

func infosFor(ix *solana.GenericInstruction) []*accounts.Info {
	infos := make([]*accounts.Info, len(ix.AccountValues))
	for i, m := range ix.AccountValues {
		infos[i] = &accounts.Info{Key: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable}
	}
	return infos
}

func TestBuilders_MatchContracts(t *testing.T) {
	program := key("program")
	ix, err := NewUpdateValidatorBalance(program, UpdateValidatorBalanceMeta{
		Lido:                 key("lido"),
		ValidatorVoteAccount: key("vote"),
		StSolMint:            key("mint"),
		MintAuthority:        key("mint authority"),
		InsuranceAccount:     key("insurance"),
		TreasuryAccount:      key("treasury"),
		ManagerFeeAccount:    key("manager fee"),
		StakeAccounts:        []solana.PublicKey{key("s0"), key("s1")},
	})
	require.NoError(t, err)
	assert.Equal(t, program, ix.ProgramID())

	b, err := Contract(KindUpdateValidatorBalance).Parse(infosFor(ix))
	require.NoError(t, err)
	assert.Equal(t, key("vote"), b.Get(ValidatorVoteAccount).Key)
	assert.Equal(t, sysvar.ClockID, b.Get(SysvarClock).Key)
	require.Len(t, b.Rest(), 2)
	assert.Equal(t, key("s1"), b.Rest()[1].Key)

	ix, err = NewAddMaintainer(program, MaintainerMeta{Lido: key("lido"), Manager: key("manager"), Maintainer: key("bot")})
	require.NoError(t, err)
	infos := infosFor(ix)
	require.Len(t, infos, 3)
	assert.True(t, infos[1].IsSigner)

	// a manager that did not sign is refused before any handler runs
	infos[1].IsSigner = false
	_, err = Contract(KindAddMaintainer).Parse(infos)
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))
}

func TestBuilders_StakeAccountBound(t *testing.T) {
	stakes := make([]solana.PublicKey, MaxValidatorStakeAccounts+1)
	for i := range stakes {
		stakes[i] = key(string(rune('a' + i)))
	}
	_, err := NewUpdateValidatorBalance(key("program"), UpdateValidatorBalanceMeta{StakeAccounts: stakes})
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))

	_, err = NewUpdateValidatorBalance(key("program"), UpdateValidatorBalanceMeta{StakeAccounts: stakes[:MaxValidatorStakeAccounts]})
	assert.NoError(t, err)
}
