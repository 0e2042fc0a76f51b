// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/reverts"
)

func key(name string) solana.PublicKey {
	h := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(h[:])
}

var program = key("program")

func testContract() *Contract {
	return MustContract("test",
		Role{Name: "authority", Signer: true},
		Role{Name: "target", Writable: true},
		Role{Name: "program", Const: &program},
	)
}

func infosFor(metas solana.AccountMetaSlice) []*Info {
	infos := make([]*Info, len(metas))
	for i, m := range metas {
		infos[i] = &Info{Key: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable}
	}
	return infos
}

func TestContract_MetasParseRoundTrip(t *testing.T) {
	c := testContract()
	metas, err := c.Metas(Keys{"authority": key("a"), "target": key("t")})
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, program, metas[2].PublicKey)

	b, err := c.Parse(infosFor(metas))
	require.NoError(t, err)
	assert.Equal(t, key("a"), b.Get("authority").Key)
	assert.Equal(t, key("t"), b.Get("target").Key)
	assert.Empty(t, b.Rest())
}

func TestContract_FlagGrid(t *testing.T) {
	c := testContract()
	metas, err := c.Metas(Keys{"authority": key("a"), "target": key("t")})
	require.NoError(t, err)

	// Flip every flag of every position: each single deviation must be refused.
	for pos := range metas {
		for _, flip := range []string{"signer", "writable"} {
			infos := infosFor(metas)
			switch flip {
			case "signer":
				infos[pos].IsSigner = !infos[pos].IsSigner
			case "writable":
				infos[pos].IsWritable = !infos[pos].IsWritable
			}
			_, err := c.Parse(infos)
			assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch), "pos %d flip %s: %v", pos, flip, err)
		}
	}
}

func TestContract_ParseRejects(t *testing.T) {
	c := testContract()
	metas, err := c.Metas(Keys{"authority": key("a"), "target": key("t")})
	require.NoError(t, err)

	t.Run("short", func(t *testing.T) {
		_, err := c.Parse(infosFor(metas)[:2])
		assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))
	})
	t.Run("wrong constant", func(t *testing.T) {
		infos := infosFor(metas)
		infos[2].Key = key("impostor")
		_, err := c.Parse(infos)
		assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))
	})
	t.Run("trailing", func(t *testing.T) {
		infos := append(infosFor(metas), &Info{Key: key("extra")})
		_, err := c.Parse(infos)
		assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))
	})
}

func TestContract_Variadic(t *testing.T) {
	c := MustContract("variadic",
		Role{Name: "owner", Signer: true},
		Role{Name: "pairs", Writable: true, Variadic: true, Stride: 2, MaxRest: 4},
	)

	_, err := c.Metas(Keys{"owner": key("o")}, key("1"))
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch))

	metas, err := c.Metas(Keys{"owner": key("o")}, key("1"), key("2"))
	require.NoError(t, err)
	b, err := c.Parse(infosFor(metas))
	require.NoError(t, err)
	assert.Len(t, b.Rest(), 2)

	// no trailing accounts is a valid multiple
	metas, err = c.Metas(Keys{"owner": key("o")})
	require.NoError(t, err)
	_, err = c.Parse(infosFor(metas))
	assert.NoError(t, err)

	infos := infosFor(metas)
	for i := range 6 {
		infos = append(infos, &Info{Key: key(string(rune('a' + i))), IsWritable: true})
	}
	_, err = c.Parse(infos)
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch), "more than MaxRest")

	infos = infosFor(metas)
	infos = append(infos, &Info{Key: key("x"), IsWritable: true}, &Info{Key: key("y")})
	_, err = c.Parse(infos)
	assert.True(t, errors.Is(err, reverts.ErrAuthorizationMismatch), "read-only trailing account")
}

func TestNewContract_BadDeclarations(t *testing.T) {
	_, err := NewContract("dup", Role{Name: "a"}, Role{Name: "a"})
	assert.Error(t, err)

	_, err = NewContract("order", Role{Name: "rest", Variadic: true}, Role{Name: "a"})
	assert.Error(t, err)

	_, err = NewContract("noname", Role{})
	assert.Error(t, err)

	c := MustContract("missing", Role{Name: "a"})
	_, err = c.Metas(Keys{})
	assert.Error(t, err)
	assert.Panics(t, func() { (&Bound{}).Get("a") })
}
