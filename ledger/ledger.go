// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger hosts programs over a persistent account store. It executes
// transactions atomically, enforces account privileges for every instruction
// and cross-program call, and models epochs and staking rewards.
package ledger

import (
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/kv"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/native/sysvar"
	nativetoken "github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/stackedmap"
	"github.com/lido-solana/solido/token"
)

var logger = log.WithContext("pkg", "ledger")

// Options configures a ledger.
type Options struct {
	SlotsPerEpoch uint64
	Rent          sysvar.Rent
	// CacheSize is the number of decoded accounts kept in memory.
	CacheSize int
}

// DefaultOptions returns mainnet-like settings.
func DefaultOptions() Options {
	return Options{
		SlotsPerEpoch: 432_000,
		Rent:          sysvar.DefaultRent,
		CacheSize:     4096,
	}
}

// Ledger is a single-writer account ledger. All methods are safe for
// concurrent use.
type Ledger struct {
	mu       sync.Mutex
	opts     Options
	accounts *accountStore
	programs map[solana.PublicKey]runtime.Program
	clock    sysvar.Clock
}

// New opens a ledger on store, hosting the system, token and stake programs
// plus the given ones. An empty store is initialized with the sysvars.
func New(store kv.Store, opts Options, programs ...runtime.Program) (*Ledger, error) {
	as, err := newAccountStore(store, opts.CacheSize)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		opts:     opts,
		accounts: as,
		programs: make(map[solana.PublicKey]runtime.Program),
	}

	genesis := make(map[solana.PublicKey]*Account)
	for _, p := range append([]runtime.Program{system.Program{}, nativetoken.Program{}, stake.Program{}}, programs...) {
		l.programs[p.ID()] = p
		genesis[p.ID()] = &Account{Lamports: 1, Owner: NativeLoaderID, Executable: true}
	}

	clockAccount, err := as.get(sysvar.ClockID)
	if err != nil {
		return nil, err
	}
	if clockAccount == nil {
		rent := opts.Rent
		sysvars := map[solana.PublicKey][]byte{
			sysvar.ClockID:        (&sysvar.Clock{}).Encode(),
			sysvar.RentID:         rent.Encode(),
			sysvar.StakeHistoryID: nil,
			stake.ConfigID:        nil,
		}
		for key, data := range sysvars {
			genesis[key] = &Account{Lamports: rent.MinimumBalance(len(data)), Data: data, Owner: sysvar.ProgramID}
		}
		logger.Info("initialized ledger", "rent", rent.LamportsPerByteYear, "slotsPerEpoch", opts.SlotsPerEpoch)
	} else {
		clock, err := sysvar.ReadClock(clockAccount.info(sysvar.ClockID, false, false))
		if err != nil {
			return nil, errors.WithMessage(err, "load clock")
		}
		l.clock = *clock
		logger.Info("opened ledger", "epoch", clock.Epoch, "slot", clock.Slot)
	}
	if err := as.commit(genesis); err != nil {
		return nil, err
	}
	return l, nil
}

// Clock returns the current cluster time.
func (l *Ledger) Clock() sysvar.Clock {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock
}

// Rent returns the rent schedule.
func (l *Ledger) Rent() sysvar.Rent {
	return l.opts.Rent
}

// Account returns the committed state of key.
func (l *Ledger) Account(key solana.PublicKey) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.committed(key)
}

func (l *Ledger) committed(key solana.PublicKey) (*Account, error) {
	a, err := l.accounts.get(key)
	if err != nil || a != nil {
		return a, err
	}
	return emptyAccount(), nil
}

// Accounts walks all funded accounts in address order until fn returns false.
func (l *Ledger) Accounts(fn func(key solana.PublicKey, a *Account) bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts.iterate(fn)
}

// SetAccount overwrites an account outside of any program. It exists for
// bootstrapping and tests.
func (l *Ledger) SetAccount(key solana.PublicKey, a *Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts.commit(map[solana.PublicKey]*Account{key: a.Copy()})
}

// Airdrop credits amount to key.
func (l *Ledger) Airdrop(key solana.PublicKey, amount token.Lamports) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.committed(key)
	if err != nil {
		return err
	}
	if a.Lamports, err = a.Lamports.Add(amount); err != nil {
		return err
	}
	return l.accounts.commit(map[solana.PublicKey]*Account{key: a})
}

// AdvanceEpoch moves the clock to the first slot of the next epoch.
func (l *Ledger) AdvanceEpoch() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.clock
	next.Epoch++
	next.LeaderScheduleEpoch = next.Epoch + 1
	next.Slot = next.Epoch * l.opts.SlotsPerEpoch
	next.EpochStartTimestamp = time.Now().Unix()
	next.UnixTimestamp = next.EpochStartTimestamp

	a, err := l.committed(sysvar.ClockID)
	if err != nil {
		return err
	}
	a.Data = next.Encode()
	if err := l.accounts.commit(map[solana.PublicKey]*Account{sysvar.ClockID: a}); err != nil {
		return err
	}
	l.clock = next
	metricEpoch().SetWithLabel(int64(next.Epoch), map[string]string{"kind": "epoch"})
	metricEpoch().SetWithLabel(int64(next.Slot), map[string]string{"kind": "slot"})
	logger.Debug("advanced epoch", "epoch", next.Epoch, "slot", next.Slot)
	return nil
}

// Reward pays an epoch reward into a delegated stake account.
func (l *Ledger) Reward(key solana.PublicKey, amount token.Lamports) error {
	return l.updateStake(key, func(info *accounts.Info) error { return stake.Accrue(info, amount) })
}

// Slash burns part of the stake delegated by a stake account.
func (l *Ledger) Slash(key solana.PublicKey, amount token.Lamports) error {
	return l.updateStake(key, func(info *accounts.Info) error { return stake.Slash(info, amount) })
}

func (l *Ledger) updateStake(key solana.PublicKey, fn func(*accounts.Info) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.committed(key)
	if err != nil {
		return err
	}
	info := a.info(key, false, true)
	if err := fn(info); err != nil {
		return err
	}
	return l.accounts.commit(map[solana.PublicKey]*Account{key: fromInfo(info)})
}

// Execute runs the instructions of tx in order. Either all of them succeed
// and their writes are committed together, or nothing is.
func (l *Ledger) Execute(tx *Transaction) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "revert"
		}
		metricTxCount().AddWithLabel(1, map[string]string{"result": result})
		metricTxDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"result": result})
	}()

	overlay := stackedmap.New(func(key solana.PublicKey) (*Account, bool, error) {
		a, err := l.accounts.get(key)
		return a, a != nil, err
	})
	// each instruction writes to its own level on top of the ones before it
	for i, ix := range tx.Instructions {
		lvl := overlay.Push()
		if err := l.execute(overlay, tx, ix); err != nil {
			overlay.PopTo(lvl)
			logger.Debug("transaction failed", "instruction", i, "program", ix.ProgramID(), "levels", overlay.Depth(), "error", err)
			return errors.WithMessagef(err, "instruction %d", i)
		}
	}

	changes := make(map[solana.PublicKey]*Account)
	overlay.Journal(func(key solana.PublicKey, a *Account) bool {
		changes[key] = a
		return true
	})
	return l.accounts.commit(changes)
}

func (l *Ledger) execute(overlay *stackedmap.StackedMap[solana.PublicKey, *Account], tx *Transaction, ix solana.Instruction) error {
	program, ok := l.programs[ix.ProgramID()]
	if !ok {
		return reverts.Newf(reverts.InvalidInstruction, "unknown program %s", ix.ProgramID())
	}
	data, err := ix.Data()
	if err != nil {
		return reverts.Newf(reverts.InvalidInstruction, "instruction data: %v", err)
	}

	metas := ix.Accounts()
	infos := make([]*accounts.Info, len(metas))
	for i, m := range metas {
		if _, dup := runtime.Lookup(infos[:i], m.PublicKey); dup {
			return reverts.Newf(reverts.AuthorizationMismatch, "account %s appears twice", m.PublicKey)
		}
		if m.IsSigner && !tx.signedBy(m.PublicKey) {
			return reverts.Newf(reverts.AuthorizationMismatch, "%s did not sign", m.PublicKey)
		}
		a, found, err := overlay.Get(m.PublicKey)
		if err != nil {
			return err
		}
		if !found {
			a = emptyAccount()
		}
		if m.IsWritable && a.Executable {
			return reverts.Newf(reverts.AuthorizationMismatch, "program account %s is read-only", m.PublicKey)
		}
		infos[i] = a.info(m.PublicKey, m.IsSigner, m.IsWritable)
	}

	frame := newFrame(l, program.ID(), 0, infos)
	if err := program.Process(frame, infos, data); err != nil {
		return err
	}
	if err := frame.verify(); err != nil {
		return err
	}
	for _, info := range infos {
		if info.IsWritable {
			overlay.Put(info.Key, fromInfo(info))
		}
	}
	return nil
}
