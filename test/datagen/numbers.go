// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	mathrand "math/rand/v2"

	"github.com/lido-solana/solido/token"
)

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandLamports returns an amount in [lo, hi).
func RandLamports(lo, hi token.Lamports) token.Lamports {
	return lo + mathrand.N(hi-lo) //#nosec G404
}
