// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random test data.
package datagen

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

// RandomKey returns a random address. It may lie on the curve.
func RandomKey() (k solana.PublicKey) {
	rand.Read(k[:])
	return
}

// NamedKey returns a stable address for a human name, so test failures read well.
func NamedKey(name string) solana.PublicKey {
	h := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(h[:])
}
