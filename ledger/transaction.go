// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/gagliardetto/solana-go"
)

// Transaction is a list of instructions executed atomically. Signers are the
// addresses that authorized it; verifying signatures is up to whoever
// submits the transaction.
type Transaction struct {
	Instructions []solana.Instruction
	Signers      []solana.PublicKey
}

// NewTransaction creates a transaction of ixs, authorized by signers.
func NewTransaction(signers []solana.PublicKey, ixs ...solana.Instruction) *Transaction {
	return &Transaction{Instructions: ixs, Signers: signers}
}

func (tx *Transaction) signedBy(key solana.PublicKey) bool {
	for _, s := range tx.Signers {
		if s.Equals(key) {
			return true
		}
	}
	return false
}
