// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/token"
)

// maxInvokeDepth bounds nested cross-program calls.
const maxInvokeDepth = 4

type snapshot struct {
	lamports   token.Lamports
	data       []byte
	owner      solana.PublicKey
	executable bool
}

func takeSnapshot(infos []*accounts.Info) []snapshot {
	snaps := make([]snapshot, len(infos))
	for i, info := range infos {
		snaps[i] = snapshot{info.Lamports, bytes.Clone(info.Data), info.Owner, info.Executable}
	}
	return snaps
}

// frame is one program invocation. It implements runtime.Context.
type frame struct {
	ledger  *Ledger
	program solana.PublicKey
	depth   int
	infos   []*accounts.Info
	before  []snapshot
}

var _ runtime.Context = (*frame)(nil)

func newFrame(l *Ledger, program solana.PublicKey, depth int, infos []*accounts.Info) *frame {
	return &frame{ledger: l, program: program, depth: depth, infos: infos, before: takeSnapshot(infos)}
}

func (f *frame) ProgramID() solana.PublicKey { return f.program }

// verify checks what the program did to its accounts since the frame started
// or since its last call out. Only the owner may change data or owner, or
// debit an account; read-only accounts stay untouched; lamports are neither
// created nor destroyed.
func (f *frame) verify() error {
	var pre, post token.Lamports
	for i, info := range f.infos {
		b := f.before[i]
		dataChanged := !bytes.Equal(b.data, info.Data)
		ownerChanged := !b.owner.Equals(info.Owner)
		switch {
		case info.Executable != b.executable:
			return reverts.Newf(reverts.AuthorizationMismatch, "%s changed the executable flag of %s", f.program, info.Key)
		case !info.IsWritable && (dataChanged || ownerChanged || info.Lamports != b.lamports):
			return reverts.Newf(reverts.AuthorizationMismatch, "%s modified read-only account %s", f.program, info.Key)
		case b.owner.Equals(f.program):
		case dataChanged || ownerChanged:
			return reverts.Newf(reverts.InvalidOwner, "%s modified %s, owned by %s", f.program, info.Key, b.owner)
		case info.Lamports < b.lamports:
			return reverts.Newf(reverts.InvalidOwner, "%s debited %s, owned by %s", f.program, info.Key, b.owner)
		}
		var err error
		if pre, err = pre.Add(b.lamports); err != nil {
			return err
		}
		if post, err = post.Add(info.Lamports); err != nil {
			return err
		}
	}
	if pre != post {
		return reverts.Newf(reverts.InvalidAccountData, "%s changed the total balance from %s to %s", f.program, pre, post)
	}
	return nil
}

// Invoke runs ix as a nested call. The callee sees copies of the caller's
// accounts with the privileges ix asks for, which must not exceed the
// caller's own: writable only if writable for the caller, signer only if
// the caller signed or signerSeeds derive the address from the caller.
func (f *frame) Invoke(ix solana.Instruction, infos []*accounts.Info, signerSeeds ...[][]byte) error {
	if f.depth+1 >= maxInvokeDepth {
		return reverts.Newf(reverts.InvalidInstruction, "call depth %d exceeded", maxInvokeDepth)
	}
	program, ok := f.ledger.programs[ix.ProgramID()]
	if !ok {
		return reverts.Newf(reverts.InvalidInstruction, "unknown program %s", ix.ProgramID())
	}
	if _, ok := runtime.Lookup(infos, ix.ProgramID()); !ok {
		return reverts.Newf(reverts.AuthorizationMismatch, "program %s was not passed to %s", ix.ProgramID(), f.program)
	}
	data, err := ix.Data()
	if err != nil {
		return reverts.Newf(reverts.InvalidInstruction, "instruction data: %v", err)
	}

	derived := make([]solana.PublicKey, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := solana.CreateProgramAddress(seeds, f.program)
		if err != nil {
			return reverts.Newf(reverts.AuthorizationMismatch, "signer seeds: %v", err)
		}
		derived = append(derived, addr)
	}
	isDerived := func(key solana.PublicKey) bool {
		for _, d := range derived {
			if d.Equals(key) {
				return true
			}
		}
		return false
	}

	metas := ix.Accounts()
	callers := make([]*accounts.Info, len(metas))
	callee := make([]*accounts.Info, len(metas))
	for i, m := range metas {
		caller, ok := runtime.Lookup(infos, m.PublicKey)
		if !ok {
			return reverts.Newf(reverts.AuthorizationMismatch, "account %s was not passed to %s", m.PublicKey, f.program)
		}
		if _, dup := runtime.Lookup(callee[:i], m.PublicKey); dup {
			return reverts.Newf(reverts.AuthorizationMismatch, "account %s appears twice", m.PublicKey)
		}
		if m.IsWritable && !caller.IsWritable {
			return reverts.Newf(reverts.AuthorizationMismatch, "%s cannot grant write access to %s", f.program, m.PublicKey)
		}
		if m.IsSigner && !caller.IsSigner && !isDerived(m.PublicKey) {
			return reverts.Newf(reverts.AuthorizationMismatch, "%s cannot sign for %s", f.program, m.PublicKey)
		}
		cpy := *caller
		cpy.IsSigner, cpy.IsWritable = m.IsSigner, m.IsWritable
		cpy.Data = bytes.Clone(caller.Data)
		callers[i], callee[i] = caller, &cpy
	}

	// the caller answers for its own writes before handing the accounts over
	if err := f.verify(); err != nil {
		return err
	}
	metricInvokes().AddWithLabel(1, map[string]string{"program": program.ID().String()})
	inner := newFrame(f.ledger, program.ID(), f.depth+1, callee)
	if err := program.Process(inner, callee, data); err != nil {
		return err
	}
	if err := inner.verify(); err != nil {
		return err
	}
	for i, info := range callee {
		callers[i].Lamports = info.Lamports
		callers[i].Data = info.Data
		callers[i].Owner = info.Owner
	}
	f.before = takeSnapshot(f.infos)
	return nil
}
