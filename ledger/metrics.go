// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/lido-solana/solido/metrics"

var (
	metricTxCount    = metrics.LazyLoadCounterVec("ledger_tx_count", []string{"result"})
	metricTxDuration = metrics.LazyLoadHistogramVec("ledger_tx_duration_us", []string{"result"}, metrics.BucketHTTPReqs)
	metricInvokes    = metrics.LazyLoadCounterVec("ledger_invoke_count", []string{"program"})
	metricEpoch      = metrics.LazyLoadGaugeVec("ledger_epoch", []string{"kind"})
)
