// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/api/accounts"
	"github.com/lido-solana/solido/metrics"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/test/testsolido"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func httpGet(t *testing.T, url string, header ...string) ([]byte, *http.Response) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res
}

func newServer(t *testing.T, opts Options) (*testsolido.Solido, *httptest.Server) {
	s, err := testsolido.New(testsolido.DefaultOptions())
	require.NoError(t, err)
	ts := httptest.NewServer(New(s.Ledger, s.ProgramID, opts))
	t.Cleanup(ts.Close)
	return s, ts
}

func TestAccounts(t *testing.T) {
	s, ts := newServer(t, Options{AllowedOrigins: "*"})

	body, res := httpGet(t, ts.URL+"/accounts/"+s.Instance.String())
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, s.Instance, acc.Address)
	assert.Equal(t, s.ProgramID, acc.Owner)
	data, err := base64.StdEncoding.DecodeString(acc.Data)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	body, res = httpGet(t, ts.URL+"/accounts/"+datagen.NamedKey("empty").String())
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Zero(t, acc.Lamports)

	_, res = httpGet(t, ts.URL+"/accounts/0x00")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCORS(t *testing.T) {
	s, ts := newServer(t, Options{AllowedOrigins: "https://example.org"})
	url := ts.URL + "/solido/" + s.Instance.String() + "/exchange-rate"

	_, res := httpGet(t, url, "Origin", "https://example.org")
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))

	_, res = httpGet(t, url, "Origin", "https://elsewhere.org")
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware(t *testing.T) {
	s, ts := newServer(t, Options{AllowedOrigins: "*", EnableMetrics: true})

	httpGet(t, ts.URL+"/solido/"+s.Instance.String())
	httpGet(t, ts.URL+"/solido/"+s.Instance.String())
	httpGet(t, ts.URL+"/solido/"+datagen.NamedKey("none").String())

	body, res := httpGet(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	text := string(body)
	assert.True(t, strings.Contains(text,
		`solido_api_request_count{code="200",method="GET",name="GET /solido/{instance}"} 2`), text)
	assert.True(t, strings.Contains(text,
		`solido_api_request_count{code="404",method="GET",name="GET /solido/{instance}"} 1`), text)
}
