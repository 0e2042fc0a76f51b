// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"strings"
	"testing"
	"text/template"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/lvldb"
	"github.com/lido-solana/solido/processor"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/token"
)

const configTemplate = `
payer: {{key "payer"}}
instance: {{key "instance"}}
manager: {{key "manager"}}
stSolMint: {{key "mint"}}
maxValidators: 4
maxMaintainers: 2
rewardDistribution:
  insurance: 1
  treasury: 1
  validation: 1
  manager: 1
feeRecipients:
  insurance: {{key "insurance"}}
  treasury: {{key "treasury"}}
  manager: {{key "manager fee"}}
maintainers:
  - {{key "maintainer"}}
validators:
  - vote: {{key "vote 1"}}
    feeAccount: {{key "fee 1"}}
    weight: 1
  - vote: {{key "vote 2"}}
    feeAccount: {{key "fee 2"}}
    feeOwner: {{key "operator 2"}}
    weight: 1
`

func key(name string) solana.PublicKey { return datagen.NamedKey(name) }

func testConfig(t *testing.T) string {
	tmpl := template.Must(template.New("config").Funcs(template.FuncMap{
		"key": func(name string) string { return key(name).String() },
	}).Parse(configTemplate))
	var b strings.Builder
	require.NoError(t, tmpl.Execute(&b, nil))
	return b.String()
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(testConfig(t)))
	require.NoError(t, err)
	assert.Equal(t, key("instance"), cfg.Instance)
	assert.Equal(t, key("treasury"), cfg.FeeRecipients.Treasury)
	assert.Equal(t, uint32(4), cfg.MaxValidators)
	assert.Equal(t, []solana.PublicKey{key("maintainer")}, cfg.Maintainers)
	require.Len(t, cfg.Validators, 2)
	assert.Equal(t, key("operator 2"), cfg.Validators[1].FeeOwner)
	assert.True(t, cfg.Validators[0].FeeOwner.IsZero())
	assert.Equal(t, token.Lamports(1_000*1_000_000_000), cfg.PayerLamports)

	_, err = parseConfig(strings.NewReader("instance: " + key("instance").String()))
	assert.Error(t, err, "payer is missing")

	_, err = parseConfig(strings.NewReader(testConfig(t) + "surprise: 1\n"))
	assert.Error(t, err, "unknown fields are refused")

	_, err = parseConfig(strings.NewReader("payer: not-base58\n"))
	assert.Error(t, err)
}

func TestBootstrapAndMaintain(t *testing.T) {
	const sol = token.Lamports(1_000_000_000)
	cfg, err := parseConfig(strings.NewReader(testConfig(t)))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	programID := key("program")
	program := processor.New(programID, processor.DefaultConfig())
	l, err := ledger.New(db, ledger.DefaultOptions(), program)
	require.NoError(t, err)

	c, err := bootstrap(l, programID, cfg)
	require.NoError(t, err)

	lido, err := c.Lido()
	require.NoError(t, err)
	assert.Equal(t, key("manager"), lido.Manager)
	assert.Equal(t, 2, lido.Validators.Len())
	assert.True(t, lido.Maintainers.Contains(key("maintainer")))

	// a second run finds everything in place already
	_, err = bootstrap(l, programID, cfg)
	assert.Error(t, err)

	user, stSol := key("user"), key("user stSOL")
	require.NoError(t, l.Airdrop(user, 20*sol))
	require.NoError(t, l.Execute(ledger.NewTransaction([]solana.PublicKey{user, stSol},
		client.CreateTokenAccount(user, stSol, cfg.StSolMint, user, l.Rent())...)))
	ix, err := c.Deposit(user, stSol, 10*sol)
	require.NoError(t, err)
	require.NoError(t, l.Execute(ledger.NewTransaction([]solana.PublicKey{user}, ix)))

	minStake := program.Config().MinimumStakeDeposit
	done, err := maintain(l, c, key("maintainer"), minStake)
	require.NoError(t, err)
	require.Len(t, done, 2)
	for _, d := range done {
		assert.Contains(t, d, "stake")
	}
	for _, vote := range []solana.PublicKey{key("vote 1"), key("vote 2")} {
		v, err := c.Validator(vote)
		require.NoError(t, err)
		assert.Equal(t, 5*sol, v.StakeAccountsBalance)
	}

	require.NoError(t, l.AdvanceEpoch())
	done, err = maintain(l, c, key("maintainer"), minStake)
	require.NoError(t, err)
	assert.Len(t, done, 3)

	done, err = maintain(l, c, key("maintainer"), minStake)
	require.NoError(t, err)
	assert.Empty(t, done)

	_, err = maintain(l, c, key("stranger"), minStake)
	assert.NoError(t, err, "nothing to do, so nobody is asked to sign")
}
