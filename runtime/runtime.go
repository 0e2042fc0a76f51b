// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime is the boundary between programs and the ledger that runs
// them. Programs see accounts and opaque instruction data; the ledger decides
// what is committed.
package runtime

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
)

// Program processes instructions addressed to its ID.
type Program interface {
	ID() solana.PublicKey
	// Process runs one instruction. Writes go straight into the infos; the
	// ledger discards them if Process returns an error.
	Process(ctx Context, infos []*accounts.Info, data []byte) error
}

// Context is what a running program may ask of the ledger.
type Context interface {
	// ProgramID is the program currently executing.
	ProgramID() solana.PublicKey
	// Invoke runs ix on behalf of the current program. Infos must contain
	// every account ix references; signerSeeds, without the program id, make
	// the matching derived addresses signers of ix.
	Invoke(ix solana.Instruction, infos []*accounts.Info, signerSeeds ...[][]byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc struct {
	ProgramID solana.PublicKey
	Fn        func(ctx Context, infos []*accounts.Info, data []byte) error
}

func (p ProgramFunc) ID() solana.PublicKey { return p.ProgramID }

func (p ProgramFunc) Process(ctx Context, infos []*accounts.Info, data []byte) error {
	return p.Fn(ctx, infos, data)
}

// Lookup finds the info for key among infos.
func Lookup(infos []*accounts.Info, key solana.PublicKey) (*accounts.Info, bool) {
	for _, info := range infos {
		if info.Key.Equals(key) {
			return info, true
		}
	}
	return nil, false
}
