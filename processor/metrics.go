// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import "github.com/lido-solana/solido/metrics"

var (
	metricInstructionCount    = metrics.LazyLoadCounterVec("instruction_count", []string{"kind", "result"})
	metricRevertCount         = metrics.LazyLoadCounterVec("instruction_revert_count", []string{"code"})
	metricInstructionDuration = metrics.LazyLoadHistogramVec("instruction_duration_us", []string{"kind"}, metrics.BucketHTTPReqs)
	metricMintedStSol         = metrics.LazyLoadCounterVec("minted_st_lamports", []string{"reason"})
	metricExchangeRate        = metrics.LazyLoadGaugeVec("exchange_rate", []string{"part"})
)
