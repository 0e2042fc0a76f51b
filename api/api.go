// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/lido-solana/solido/api/accounts"
	"github.com/lido-solana/solido/api/middleware"
	"github.com/lido-solana/solido/api/solido"
	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/metrics"
	"github.com/lido-solana/solido/token"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	MinimumStakeDeposit  token.Lamports
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(reader client.Reader, programID solana.PublicKey, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(reader).
		Mount(router, "/accounts")
	solido.New(reader, programID, opts.MinimumStakeDeposit).
		Mount(router, "/solido")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").Handler(h)
		}
		router.Use(middleware.MetricsMiddleware)
	}

	if opts.EnableReqLogger == nil {
		opts.EnableReqLogger = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)
	return handler
}
