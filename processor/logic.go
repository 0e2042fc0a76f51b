// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/sysvar"
	nativetoken "github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// handler carries what every operation needs: the program, the ledger, and
// the parsed accounts.
type handler struct {
	program  *Program
	ctx      runtime.Context
	accounts *accounts.Bound
	infos    []*accounts.Info
}

func (h *handler) get(role string) *accounts.Info {
	return h.accounts.Get(role)
}

func (h *handler) instance() solana.PublicKey {
	return h.get(instruction.Lido).Key
}

func (h *handler) load() (*state.Lido, error) {
	return state.Load(h.program.id, h.get(instruction.Lido))
}

func (h *handler) store(l *state.Lido) error {
	return l.Serialize(h.get(instruction.Lido).Data)
}

func (h *handler) clock() (*sysvar.Clock, error) {
	return sysvar.ReadClock(h.get(instruction.SysvarClock))
}

func (h *handler) rent() (*sysvar.Rent, error) {
	return sysvar.ReadRent(h.get(instruction.SysvarRent))
}

func (h *handler) invoke(ix solana.Instruction, signerSeeds ...[][]byte) error {
	return h.ctx.Invoke(ix, h.infos, signerSeeds...)
}

func (h *handler) validator(l *state.Lido) (*state.Validator, error) {
	return l.Validators.Get(h.get(instruction.ValidatorVoteAccount).Key)
}

// checkRateFresh fails unless the exchange rate was computed in the current epoch.
func checkRateFresh(l *state.Lido, clock *sysvar.Clock) error {
	if l.ExchangeRate.ComputedInEpoch != clock.Epoch {
		return reverts.Newf(reverts.StaleRate, "rate computed in epoch %d, now %d", l.ExchangeRate.ComputedInEpoch, clock.Epoch)
	}
	return nil
}

// availableReserve is the part of the reserve that can leave it without
// making it rent-liable.
func availableReserve(reserve *accounts.Info, rent *sysvar.Rent) token.Lamports {
	minimum := rent.MinimumBalance(0)
	if reserve.Lamports < minimum {
		return 0
	}
	return reserve.Lamports - minimum
}

func (h *handler) signerSeeds(seed []byte, bump uint8) [][]byte {
	return pda.SignerSeeds(h.instance(), seed, bump)
}

// mintStSol mints amount to a token account, signing as the mint authority.
func (h *handler) mintStSol(l *state.Lido, to solana.PublicKey, amount token.StLamports, reason string) error {
	if amount == 0 {
		return nil
	}
	ix := nativetoken.MintTo(l.StSolMint, to, h.get(instruction.MintAuthority).Key, uint64(amount))
	if err := h.invoke(ix, h.signerSeeds(pda.MintAuthority, l.MintAuthorityBump)); err != nil {
		return err
	}
	metricMintedStSol().AddWithLabel(int64(amount), map[string]string{"reason": reason})
	return nil
}

// checkStSolAccount verifies that info is a token account of the stSOL mint.
func checkStSolAccount(mint solana.PublicKey, info *accounts.Info) error {
	account, err := nativetoken.ReadAccount(info)
	if err != nil {
		return reverts.Newf(reverts.InvalidFeeRecipient, "%s: %v", info.Key, err)
	}
	if !account.Mint.Equals(mint) {
		return reverts.Newf(reverts.InvalidFeeRecipient, "%s holds %s, not stSOL", info.Key, account.Mint)
	}
	return nil
}

// checkStakeAccounts verifies that infos are exactly the stake accounts of v,
// in seed order.
func (h *handler) checkStakeAccounts(v *state.Validator, infos []*accounts.Info) error {
	if uint64(len(infos)) != v.StakeSeeds.Len() {
		return reverts.Newf(reverts.AuthorizationMismatch, "%d stake accounts given, validator has %d", len(infos), v.StakeSeeds.Len())
	}
	for i, info := range infos {
		seed := v.StakeSeeds.Begin + uint64(i)
		if err := h.checkStakeAccount(v, seed, info); err != nil {
			return err
		}
	}
	return nil
}

func (h *handler) checkStakeAccount(v *state.Validator, seed uint64, info *accounts.Info) error {
	want, err := pda.FindStakeAccount(h.program.id, h.instance(), v.VoteAccount, seed)
	if err != nil {
		return reverts.Newf(reverts.InvalidAccountData, "stake account %d: %v", seed, err)
	}
	if !info.Key.Equals(want.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "stake account %d is %s, want %s", seed, info.Key, want.Key)
	}
	return nil
}

func observeRate(rate token.ExchangeRate) {
	metricExchangeRate().SetWithLabel(int64(rate.SolBalance), map[string]string{"part": "sol_balance"})
	metricExchangeRate().SetWithLabel(int64(rate.StSolSupply), map[string]string{"part": "st_sol_supply"})
}
