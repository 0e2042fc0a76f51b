// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/native/system"
	nativetoken "github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

func (h *handler) initialize(args *instruction.Initialize) error {
	lidoInfo := h.get(instruction.Lido)
	logger.Debug("initializing", "instance", lidoInfo.Key, "maxValidators", args.MaxValidators, "maxMaintainers", args.MaxMaintainers)

	if !lidoInfo.Owner.Equals(h.program.id) {
		return reverts.Newf(reverts.InvalidOwner, "instance %s is owned by %s", lidoInfo.Key, lidoInfo.Owner)
	}
	if state.IsInitialized(lidoInfo.Data) {
		return reverts.Newf(reverts.AlreadyInitialized, "instance %s", lidoInfo.Key)
	}
	if size := state.Size(args.MaxValidators, args.MaxMaintainers); len(lidoInfo.Data) < size {
		return reverts.Newf(reverts.InvalidAccountData, "instance has %d bytes, needs %d", len(lidoInfo.Data), size)
	}
	if err := args.RewardDistribution.Validate(); err != nil {
		return err
	}
	rent, err := h.rent()
	if err != nil {
		return err
	}
	if !rent.IsExempt(lidoInfo.Lamports, len(lidoInfo.Data)) {
		return reverts.Newf(reverts.InsufficientFunds, "instance %s is not rent exempt", lidoInfo.Key)
	}
	clock, err := h.clock()
	if err != nil {
		return err
	}

	reserve, err := pda.Find(h.program.id, lidoInfo.Key, pda.ReserveAccount)
	if err != nil {
		return err
	}
	if reserveInfo := h.get(instruction.Reserve); !reserveInfo.Key.Equals(reserve.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "reserve is %s, want %s", reserveInfo.Key, reserve.Key)
	} else if !rent.IsExempt(reserveInfo.Lamports, 0) {
		return reverts.Newf(reverts.InsufficientFunds, "reserve %s is not rent exempt", reserveInfo.Key)
	}
	mintAuthority, err := pda.Find(h.program.id, lidoInfo.Key, pda.MintAuthority)
	if err != nil {
		return err
	}
	stakeAuthority, err := pda.Find(h.program.id, lidoInfo.Key, pda.StakeAuthority)
	if err != nil {
		return err
	}

	mintInfo := h.get(instruction.StSolMint)
	mint, err := nativetoken.ReadMint(mintInfo)
	if err != nil {
		return err
	}
	if !mint.MintAuthority.Equals(mintAuthority.Key) {
		return reverts.Newf(reverts.InvalidMint, "mint authority of %s is %s, want %s", mintInfo.Key, mint.MintAuthority, mintAuthority.Key)
	}
	if mint.Supply != 0 {
		return reverts.Newf(reverts.InvalidMint, "mint %s already has supply %d", mintInfo.Key, mint.Supply)
	}
	insurance, treasury, managerFee := h.get(instruction.InsuranceAccount), h.get(instruction.TreasuryAccount), h.get(instruction.ManagerFeeAccount)
	for _, info := range []*accounts.Info{insurance, treasury, managerFee} {
		if err := checkStSolAccount(mintInfo.Key, info); err != nil {
			return err
		}
	}

	l := state.New(args.MaxValidators, args.MaxMaintainers)
	l.Manager = h.get(instruction.Manager).Key
	l.StSolMint = mintInfo.Key
	l.ExchangeRate = token.ExchangeRate{ComputedInEpoch: clock.Epoch}
	l.ReserveBump = reserve.Bump
	l.MintAuthorityBump = mintAuthority.Bump
	l.StakeAuthorityBump = stakeAuthority.Bump
	l.RewardDistribution = args.RewardDistribution
	l.FeeRecipients = state.FeeRecipients{Insurance: insurance.Key, Treasury: treasury.Key, Manager: managerFee.Key}
	if err := h.store(l); err != nil {
		return err
	}
	logger.Info("initialized", "instance", lidoInfo.Key, "manager", l.Manager, "mint", l.StSolMint)
	return nil
}

func (h *handler) deposit(args *instruction.Deposit) error {
	l, err := h.load()
	if err != nil {
		return err
	}
	mintInfo, reserveInfo := h.get(instruction.StSolMint), h.get(instruction.Reserve)
	if err := l.CheckMint(mintInfo); err != nil {
		return err
	}
	if err := l.CheckReserve(h.program.id, h.instance(), reserveInfo); err != nil {
		return err
	}
	if err := l.CheckMintAuthority(h.program.id, h.instance(), h.get(instruction.MintAuthority)); err != nil {
		return err
	}
	if args.Amount == 0 {
		return reverts.Newf(reverts.InvalidAmount, "deposit of zero")
	}
	clock, err := h.clock()
	if err != nil {
		return err
	}
	if err := checkRateFresh(l, clock); err != nil {
		return err
	}
	mint, err := nativetoken.ReadMint(mintInfo)
	if err != nil {
		return err
	}

	var minted token.StLamports
	bootstrap := !l.ExchangeRate.IsDefined() && mint.Supply == 0
	if bootstrap {
		// The first deposit sets the rate at one to one.
		minted = token.StLamports(args.Amount)
		l.ExchangeRate.SolBalance = args.Amount
		l.ExchangeRate.StSolSupply = minted
	} else if minted, err = l.ExchangeRate.ExchangeSol(args.Amount); err != nil {
		return err
	}
	if minted == 0 {
		return reverts.Newf(reverts.InvalidAmount, "deposit of %s is worth no stSOL", args.Amount)
	}

	user, recipient := h.get(instruction.User), h.get(instruction.Recipient)
	logger.Debug("depositing", "user", user.Key, "amount", args.Amount, "minted", minted)
	if err := h.invoke(system.Transfer(user.Key, reserveInfo.Key, args.Amount)); err != nil {
		return err
	}
	if err := h.mintStSol(l, recipient.Key, minted, "deposit"); err != nil {
		return err
	}
	if bootstrap {
		observeRate(l.ExchangeRate)
		return h.store(l)
	}
	return nil
}

func (h *handler) withdraw(args *instruction.Withdraw) error {
	l, err := h.load()
	if err != nil {
		return err
	}
	mintInfo, reserveInfo := h.get(instruction.StSolMint), h.get(instruction.Reserve)
	if err := l.CheckMint(mintInfo); err != nil {
		return err
	}
	if err := l.CheckReserve(h.program.id, h.instance(), reserveInfo); err != nil {
		return err
	}
	if args.Amount == 0 {
		return reverts.Newf(reverts.InvalidAmount, "withdrawal of zero")
	}
	clock, err := h.clock()
	if err != nil {
		return err
	}
	if err := checkRateFresh(l, clock); err != nil {
		return err
	}
	rent, err := h.rent()
	if err != nil {
		return err
	}
	value, err := l.ExchangeRate.ExchangeStSol(args.Amount)
	if err != nil {
		return err
	}
	if value == 0 {
		return reverts.Newf(reverts.InvalidAmount, "%s is worth no SOL", args.Amount)
	}
	if available := availableReserve(reserveInfo, rent); value > available {
		return reverts.Newf(reverts.InsufficientFunds, "reserve can pay %s, withdrawal needs %s", available, value)
	}

	user, source, recipient := h.get(instruction.User), h.get(instruction.Source), h.get(instruction.Recipient)
	logger.Debug("withdrawing", "user", user.Key, "amount", args.Amount, "value", value)
	if err := h.invoke(nativetoken.Burn(source.Key, mintInfo.Key, user.Key, uint64(args.Amount))); err != nil {
		return err
	}
	return h.invoke(system.Transfer(reserveInfo.Key, recipient.Key, value), h.signerSeeds(pda.ReserveAccount, l.ReserveBump))
}

func (h *handler) updateExchangeRate() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	mintInfo, reserveInfo := h.get(instruction.StSolMint), h.get(instruction.Reserve)
	if err := l.CheckMint(mintInfo); err != nil {
		return err
	}
	if err := l.CheckReserve(h.program.id, h.instance(), reserveInfo); err != nil {
		return err
	}
	clock, err := h.clock()
	if err != nil {
		return err
	}
	if l.ExchangeRate.ComputedInEpoch == clock.Epoch {
		return reverts.Newf(reverts.AlreadyUpdated, "exchange rate of epoch %d", clock.Epoch)
	}
	rent, err := h.rent()
	if err != nil {
		return err
	}
	mint, err := nativetoken.ReadMint(mintInfo)
	if err != nil {
		return err
	}

	staked, err := l.StakeBalance()
	if err != nil {
		return err
	}
	solBalance, err := availableReserve(reserveInfo, rent).Add(staked)
	if err != nil {
		return err
	}
	credit, err := l.FeeCredit()
	if err != nil {
		return err
	}
	supply, err := token.StLamports(mint.Supply).Add(credit)
	if err != nil {
		return err
	}

	l.ExchangeRate = token.ExchangeRate{
		ComputedInEpoch: clock.Epoch,
		SolBalance:      solBalance,
		StSolSupply:     supply,
	}
	observeRate(l.ExchangeRate)
	logger.Info("updated exchange rate", "rate", l.ExchangeRate)
	return h.store(l)
}

func (h *handler) updateValidatorBalance() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckMint(h.get(instruction.StSolMint)); err != nil {
		return err
	}
	if err := l.CheckMintAuthority(h.program.id, h.instance(), h.get(instruction.MintAuthority)); err != nil {
		return err
	}
	insurance, treasury, managerFee := h.get(instruction.InsuranceAccount), h.get(instruction.TreasuryAccount), h.get(instruction.ManagerFeeAccount)
	if err := l.CheckFeeRecipients(insurance, treasury, managerFee); err != nil {
		return err
	}
	v, err := h.validator(l)
	if err != nil {
		return err
	}
	clock, err := h.clock()
	if err != nil {
		return err
	}
	if err := checkRateFresh(l, clock); err != nil {
		return err
	}
	if v.LastUpdateEpoch == clock.Epoch {
		return reverts.Newf(reverts.AlreadyUpdated, "validator %s in epoch %d", v.VoteAccount, clock.Epoch)
	}
	stakeInfos := h.accounts.Rest()
	if err := h.checkStakeAccounts(v, stakeInfos); err != nil {
		return err
	}

	var observed token.Lamports
	for _, info := range stakeInfos {
		if !info.Owner.Equals(stake.ProgramID) {
			return reverts.Newf(reverts.InvalidOwner, "stake account %s is owned by %s", info.Key, info.Owner)
		}
		if observed, err = observed.Add(info.Lamports); err != nil {
			return err
		}
	}

	var fees state.Fees
	if observed > v.StakeAccountsBalance {
		reward, err := l.ExchangeRate.ExchangeSol(observed - v.StakeAccountsBalance)
		if err != nil {
			return err
		}
		if fees, err = l.RewardDistribution.Split(reward); err != nil {
			return err
		}
		if v.FeeCredit, err = v.FeeCredit.Add(fees.Validation); err != nil {
			return err
		}
	}
	logger.Debug("updating validator balance", "validator", v.VoteAccount, "observed", observed, "recorded", v.StakeAccountsBalance, "fees", fees)
	v.StakeAccountsBalance = observed
	v.LastUpdateEpoch = clock.Epoch

	for _, m := range []struct {
		to     *accounts.Info
		amount token.StLamports
		reason string
	}{
		{insurance, fees.Insurance, "insurance"},
		{treasury, fees.Treasury, "treasury"},
		{managerFee, fees.Manager, "manager"},
	} {
		if err := h.mintStSol(l, m.to.Key, m.amount, m.reason); err != nil {
			return err
		}
	}
	return h.store(l)
}
