// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"encoding/base64"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"github.com/lido-solana/solido/api/restutil"
	"github.com/lido-solana/solido/client"
)

// Account is the JSON view of a ledger account.
type Account struct {
	Address    solana.PublicKey `json:"address"`
	Lamports   uint64           `json:"lamports"`
	Owner      solana.PublicKey `json:"owner"`
	Executable bool             `json:"executable"`
	Data       string           `json:"data"`
}

type Accounts struct {
	reader client.Reader
}

func New(reader client.Reader) *Accounts {
	return &Accounts{reader}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	key, err := restutil.PublicKeyVar(req, "address")
	if err != nil {
		return err
	}
	acc, err := a.reader.Account(key)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Account{
		Address:    key,
		Lamports:   uint64(acc.Lamports),
		Owner:      acc.Owner,
		Executable: acc.Executable,
		Data:       base64.StdEncoding.EncodeToString(acc.Data),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAccount))
}
