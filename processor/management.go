// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
)

func (h *handler) claimValidatorFees() error {
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
	v, err := h.validator(l)
	if err != nil {
		return err
	}
	feeInfo := h.get(instruction.ValidatorFeeAccount)
	if !feeInfo.Key.Equals(v.FeeAddress) {
		return reverts.Newf(reverts.InvalidFeeRecipient, "fees of %s go to %s, not %s", v.VoteAccount, v.FeeAddress, feeInfo.Key)
	}
	if v.FeeCredit == 0 {
		return nil
	}

	credit := v.FeeCredit
	v.FeeCredit = 0
	if err := h.mintStSol(l, feeInfo.Key, credit, "validation"); err != nil {
		return err
	}
	logger.Info("claimed validator fees", "validator", v.VoteAccount, "amount", credit)
	return h.store(l)
}

func (h *handler) changeRewardDistribution(args *instruction.ChangeRewardDistribution) error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckManager(h.get(instruction.Manager)); err != nil {
		return err
	}
	if err := args.RewardDistribution.Validate(); err != nil {
		return err
	}
	insurance, treasury, managerFee := h.get(instruction.InsuranceAccount), h.get(instruction.TreasuryAccount), h.get(instruction.ManagerFeeAccount)
	for _, info := range []*accounts.Info{insurance, treasury, managerFee} {
		if err := checkStSolAccount(l.StSolMint, info); err != nil {
			return err
		}
	}

	l.RewardDistribution = args.RewardDistribution
	l.FeeRecipients = state.FeeRecipients{Insurance: insurance.Key, Treasury: treasury.Key, Manager: managerFee.Key}
	logger.Info("changed reward distribution", "distribution", l.RewardDistribution)
	return h.store(l)
}

func (h *handler) addValidator(args *instruction.AddValidator) error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckManager(h.get(instruction.Manager)); err != nil {
		return err
	}
	vote, feeInfo := h.get(instruction.ValidatorVoteAccount), h.get(instruction.ValidatorFeeAccount)
	if !vote.Owner.Equals(stake.VoteProgramID) {
		return reverts.Newf(reverts.InvalidVoteAccount, "%s is owned by %s", vote.Key, vote.Owner)
	}
	if err := checkStSolAccount(l.StSolMint, feeInfo); err != nil {
		return err
	}

	logger.Debug("adding validator", "validator", vote.Key, "weight", args.Weight)
	if err := l.Validators.Add(state.Validator{
		VoteAccount:     vote.Key,
		FeeAddress:      feeInfo.Key,
		Weight:          args.Weight,
		LastUpdateEpoch: state.NeverUpdated,
	}); err != nil {
		logger.Info("adding validator failed", "validator", vote.Key, "error", err)
		return err
	}
	logger.Info("added validator", "validator", vote.Key)
	return h.store(l)
}

func (h *handler) removeValidator() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckManager(h.get(instruction.Manager)); err != nil {
		return err
	}
	v, err := h.validator(l)
	if err != nil {
		return err
	}
	if !v.StakeSeeds.IsEmpty() || v.StakeAccountsBalance != 0 {
		return reverts.Newf(reverts.ValidatorHasStakeAccounts, "validator %s has seeds %v and balance %s", v.VoteAccount, v.StakeSeeds, v.StakeAccountsBalance)
	}
	if v.FeeCredit > 0 {
		return reverts.Newf(reverts.ValidatorHasUnclaimedFees, "validator %s has %s unclaimed", v.VoteAccount, v.FeeCredit)
	}
	if _, err := l.Validators.Remove(v.VoteAccount); err != nil {
		return err
	}
	logger.Info("removed validator", "validator", v.VoteAccount)
	return h.store(l)
}

func (h *handler) addMaintainer() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckManager(h.get(instruction.Manager)); err != nil {
		return err
	}
	key := h.get(instruction.Maintainer).Key
	logger.Debug("adding maintainer", "maintainer", key)
	if err := l.Maintainers.Add(state.Maintainer{Address: key}); err != nil {
		logger.Info("adding maintainer failed", "maintainer", key, "error", err)
		return err
	}
	logger.Info("added maintainer", "maintainer", key)
	return h.store(l)
}

func (h *handler) removeMaintainer() error {
	l, err := h.load()
	if err != nil {
		return err
	}
	if err := l.CheckManager(h.get(instruction.Manager)); err != nil {
		return err
	}
	key := h.get(instruction.Maintainer).Key
	if _, err := l.Maintainers.Remove(key); err != nil {
		return err
	}
	logger.Info("removed maintainer", "maintainer", key)
	return h.store(l)
}
