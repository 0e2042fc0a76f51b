// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/native/sysvar"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/token"
)

var logger = log.WithContext("pkg", "stake")

const (
	initializeIx uint32 = 0
	delegateIx   uint32 = 2
	withdrawIx   uint32 = 4
	deactivateIx uint32 = 5
	mergeIx      uint32 = 7
)

type InitializeArgs struct {
	Staker     solana.PublicKey
	Withdrawer solana.PublicKey
}

type WithdrawArgs struct {
	Lamports token.Lamports
}

var (
	rentID         = sysvar.RentID
	clockID        = sysvar.ClockID
	stakeHistoryID = sysvar.StakeHistoryID
	configID       = ConfigID

	initializeContract = accounts.MustContract("stake.Initialize",
		accounts.Role{Name: "stake", Writable: true},
		accounts.Role{Name: "rent", Const: &rentID},
	)
	delegateContract = accounts.MustContract("stake.DelegateStake",
		accounts.Role{Name: "stake", Writable: true},
		accounts.Role{Name: "vote"},
		accounts.Role{Name: "clock", Const: &clockID},
		accounts.Role{Name: "stake_history", Const: &stakeHistoryID},
		accounts.Role{Name: "config", Const: &configID},
		accounts.Role{Name: "staker", Signer: true},
	)
	withdrawContract = accounts.MustContract("stake.Withdraw",
		accounts.Role{Name: "stake", Writable: true},
		accounts.Role{Name: "to", Writable: true},
		accounts.Role{Name: "clock", Const: &clockID},
		accounts.Role{Name: "stake_history", Const: &stakeHistoryID},
		accounts.Role{Name: "withdrawer", Signer: true},
	)
	deactivateContract = accounts.MustContract("stake.Deactivate",
		accounts.Role{Name: "stake", Writable: true},
		accounts.Role{Name: "clock", Const: &clockID},
		accounts.Role{Name: "staker", Signer: true},
	)
	mergeContract = accounts.MustContract("stake.Merge",
		accounts.Role{Name: "destination", Writable: true},
		accounts.Role{Name: "source", Writable: true},
		accounts.Role{Name: "clock", Const: &clockID},
		accounts.Role{Name: "stake_history", Const: &stakeHistoryID},
		accounts.Role{Name: "staker", Signer: true},
	)
)

func instruction(c *accounts.Contract, keys accounts.Keys, kind uint32, args any) *solana.GenericInstruction {
	metas, err := c.Metas(keys)
	if err != nil {
		panic(err)
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, kind)
	if args != nil {
		if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
			panic(err)
		}
	}
	return solana.NewInstruction(ProgramID, metas, buf.Bytes())
}

func Initialize(stake, staker, withdrawer solana.PublicKey) *solana.GenericInstruction {
	return instruction(initializeContract, accounts.Keys{"stake": stake}, initializeIx,
		InitializeArgs{Staker: staker, Withdrawer: withdrawer})
}

func DelegateStake(stake, vote, staker solana.PublicKey) *solana.GenericInstruction {
	return instruction(delegateContract, accounts.Keys{"stake": stake, "vote": vote, "staker": staker}, delegateIx, nil)
}

func Withdraw(stake, to, withdrawer solana.PublicKey, amount token.Lamports) *solana.GenericInstruction {
	return instruction(withdrawContract, accounts.Keys{"stake": stake, "to": to, "withdrawer": withdrawer}, withdrawIx,
		WithdrawArgs{Lamports: amount})
}

func Deactivate(stake, staker solana.PublicKey) *solana.GenericInstruction {
	return instruction(deactivateContract, accounts.Keys{"stake": stake, "staker": staker}, deactivateIx, nil)
}

// Merge moves source, lamports and stake, into destination and closes source.
func Merge(destination, source, staker solana.PublicKey) *solana.GenericInstruction {
	return instruction(mergeContract, accounts.Keys{"destination": destination, "source": source, "staker": staker}, mergeIx, nil)
}

// Program is the stake program.
type Program struct{}

func (Program) ID() solana.PublicKey { return ProgramID }

func (Program) Process(_ runtime.Context, infos []*accounts.Info, data []byte) error {
	if len(data) < 4 {
		return reverts.ErrInvalidInstruction
	}
	kind, payload := binary.LittleEndian.Uint32(data), data[4:]
	switch kind {
	case initializeIx:
		var args InitializeArgs
		if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "stake initialize: %v", err)
		}
		b, err := initializeContract.Parse(infos)
		if err != nil {
			return err
		}
		return initialize(b.Get("stake"), b.Get("rent"), args)
	case delegateIx:
		b, err := delegateContract.Parse(infos)
		if err != nil {
			return err
		}
		return delegate(b.Get("stake"), b.Get("vote"), b.Get("clock"), b.Get("staker"))
	case withdrawIx:
		var args WithdrawArgs
		if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "stake withdraw: %v", err)
		}
		b, err := withdrawContract.Parse(infos)
		if err != nil {
			return err
		}
		return withdraw(b.Get("stake"), b.Get("to"), b.Get("clock"), b.Get("withdrawer"), args.Lamports)
	case deactivateIx:
		b, err := deactivateContract.Parse(infos)
		if err != nil {
			return err
		}
		return deactivate(b.Get("stake"), b.Get("clock"), b.Get("staker"))
	case mergeIx:
		b, err := mergeContract.Parse(infos)
		if err != nil {
			return err
		}
		return merge(b.Get("destination"), b.Get("source"), b.Get("clock"), b.Get("staker"))
	default:
		return reverts.Newf(reverts.InvalidInstruction, "stake instruction %d", kind)
	}
}

func initialize(info, rentInfo *accounts.Info, args InitializeArgs) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Uninitialized {
		return reverts.Newf(reverts.AlreadyInitialized, "stake account %s", info.Key)
	}
	rent, err := sysvar.ReadRent(rentInfo)
	if err != nil {
		return err
	}
	reserve := rent.MinimumBalance(len(info.Data))
	if info.Lamports < reserve {
		return reverts.Newf(reverts.InsufficientFunds, "stake account %s is not rent exempt", info.Key)
	}
	write(info, &State{
		Kind:              Initialized,
		RentExemptReserve: reserve,
		Staker:            args.Staker,
		Withdrawer:        args.Withdrawer,
		DeactivationEpoch: NotDeactivated,
	})
	return nil
}

func delegate(info, vote, clockInfo, staker *accounts.Info) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Initialized {
		return reverts.Newf(reverts.InvalidAccountData, "stake account %s cannot be delegated", info.Key)
	}
	if !s.Staker.Equals(staker.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the staker of %s", staker.Key, info.Key)
	}
	if !vote.Owner.Equals(VoteProgramID) {
		return reverts.Newf(reverts.InvalidVoteAccount, "%s is not a vote account", vote.Key)
	}
	clock, err := sysvar.ReadClock(clockInfo)
	if err != nil {
		return err
	}
	amount, err := info.Lamports.Sub(s.RentExemptReserve)
	if err != nil {
		return err
	}
	s.Kind = Delegated
	s.Voter = vote.Key
	s.Stake = amount
	s.ActivationEpoch = clock.Epoch
	s.DeactivationEpoch = NotDeactivated
	write(info, s)
	logger.Debug("delegated", "stake", info.Key, "vote", vote.Key, "amount", amount, "epoch", clock.Epoch)
	return nil
}

func deactivate(info, clockInfo, staker *accounts.Info) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Delegated || s.DeactivationEpoch != NotDeactivated {
		return reverts.Newf(reverts.InvalidAccountData, "stake account %s is not active", info.Key)
	}
	if !s.Staker.Equals(staker.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the staker of %s", staker.Key, info.Key)
	}
	clock, err := sysvar.ReadClock(clockInfo)
	if err != nil {
		return err
	}
	s.DeactivationEpoch = clock.Epoch
	write(info, s)
	return nil
}

func withdraw(info, to, clockInfo, withdrawer *accounts.Info, amount token.Lamports) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Uninitialized && !s.Withdrawer.Equals(withdrawer.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the withdrawer of %s", withdrawer.Key, info.Key)
	}
	clock, err := sysvar.ReadClock(clockInfo)
	if err != nil {
		return err
	}

	var locked token.Lamports
	switch {
	case s.Kind == Delegated && !s.IsDeactivatedAt(clock.Epoch):
		if locked, err = s.Stake.Add(s.RentExemptReserve); err != nil {
			return err
		}
	case s.Kind != Uninitialized && amount != info.Lamports:
		// partial withdrawals keep the account rent exempt
		locked = s.RentExemptReserve
	}
	free, err := info.Lamports.Sub(locked)
	if err != nil || amount > free {
		return reverts.Newf(reverts.InsufficientFunds, "stake account %s can release %d, asked %d", info.Key, free, amount)
	}
	credited, err := to.Lamports.Add(amount)
	if err != nil {
		return err
	}
	info.Lamports -= amount
	to.Lamports = credited
	if info.Lamports == 0 {
		write(info, &State{})
	}
	return nil
}

func merge(dest, source, clockInfo, staker *accounts.Info) error {
	if dest.Key.Equals(source.Key) {
		return reverts.Newf(reverts.MergeIneligible, "cannot merge %s into itself", dest.Key)
	}
	d, err := Read(dest)
	if err != nil {
		return err
	}
	s, err := Read(source)
	if err != nil {
		return err
	}
	clock, err := sysvar.ReadClock(clockInfo)
	if err != nil {
		return err
	}
	if d.Kind != Delegated || s.Kind != Delegated ||
		d.DeactivationEpoch != NotDeactivated || s.DeactivationEpoch != NotDeactivated {
		return reverts.Newf(reverts.MergeIneligible, "%s and %s are not both delegated", dest.Key, source.Key)
	}
	if !d.Voter.Equals(s.Voter) || !d.Staker.Equals(s.Staker) || !d.Withdrawer.Equals(s.Withdrawer) {
		return reverts.Newf(reverts.MergeIneligible, "%s and %s have different delegations", dest.Key, source.Key)
	}
	bothActive := d.IsActiveAt(clock.Epoch) && s.IsActiveAt(clock.Epoch)
	if d.ActivationEpoch != s.ActivationEpoch && !bothActive {
		return reverts.Newf(reverts.MergeIneligible, "activation epochs %d and %d differ", d.ActivationEpoch, s.ActivationEpoch)
	}
	if !d.Staker.Equals(staker.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the staker of %s", staker.Key, dest.Key)
	}

	if d.Stake, err = d.Stake.Add(s.Stake); err != nil {
		return err
	}
	if dest.Lamports, err = dest.Lamports.Add(source.Lamports); err != nil {
		return err
	}
	source.Lamports = 0
	write(dest, d)
	write(source, &State{})
	logger.Debug("merged", "source", source.Key, "destination", dest.Key, "stake", d.Stake)
	return nil
}
