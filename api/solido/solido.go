// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solido

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/api/restutil"
	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

type Solido struct {
	reader    client.Reader
	programID solana.PublicKey
	minStake  token.Lamports
}

// New serves the instances of programID found through reader. minStake is
// the smallest stake deposit the program accepts, used to plan maintenance.
func New(reader client.Reader, programID solana.PublicKey, minStake token.Lamports) *Solido {
	return &Solido{reader, programID, minStake}
}

// load resolves the instance in the path and reads its record.
func (s *Solido) load(req *http.Request) (*client.Client, *state.Lido, error) {
	instance, err := restutil.PublicKeyVar(req, "instance")
	if err != nil {
		return nil, nil, err
	}
	c, err := client.New(s.reader, s.programID, instance)
	if err != nil {
		return nil, nil, err
	}
	l, err := c.Lido()
	if err != nil {
		return nil, nil, err
	}
	return c, l, nil
}

func (s *Solido) handleGetSolido(w http.ResponseWriter, req *http.Request) error {
	c, l, err := s.load(req)
	if err != nil {
		return err
	}
	addrs := c.Addresses()
	supply, err := c.Supply()
	if err != nil {
		return err
	}
	clock, err := c.Clock()
	if err != nil {
		return err
	}
	balance, err := c.Balance(addrs.Reserve)
	if err != nil {
		return err
	}
	available, err := c.AvailableReserve()
	if err != nil {
		return err
	}
	staked, err := l.StakeBalance()
	if err != nil {
		return err
	}

	d, r := l.RewardDistribution, l.FeeRecipients
	return restutil.WriteJSON(w, &Summary{
		Instance:           addrs.Instance,
		Manager:            l.Manager,
		StSolMint:          l.StSolMint,
		StSolSupply:        uint64(supply),
		Epoch:              clock.Epoch,
		ExchangeRate:       convertExchangeRate(l.ExchangeRate),
		RewardDistribution: RewardDistribution{d.Insurance, d.Treasury, d.Validation, d.Manager},
		FeeRecipients:      FeeRecipients{r.Insurance, r.Treasury, r.Manager},
		Reserve:            Reserve{addrs.Reserve, uint64(balance), uint64(available)},
		StakeBalance:       uint64(staked),
		Validators:         l.Validators.Len(),
		MaxValidators:      l.Validators.MaxEntries,
		Maintainers:        l.Maintainers.Len(),
		MaxMaintainers:     l.Maintainers.MaxEntries,
	})
}

func (s *Solido) handleGetExchangeRate(w http.ResponseWriter, req *http.Request) error {
	_, l, err := s.load(req)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertExchangeRate(l.ExchangeRate))
}

// validators lists the validators of l with their stake accounts, next to the
// stake each would hold if the pool were spread by weight.
func validators(c *client.Client, l *state.Lido) ([]*Validator, error) {
	available, err := c.AvailableReserve()
	if err != nil {
		return nil, err
	}
	staked, err := l.StakeBalance()
	if err != nil {
		return nil, err
	}
	total, err := staked.Add(available)
	if err != nil {
		return nil, err
	}
	targets := state.StakeTargets(l.Validators.Entries, total)

	views := make([]*Validator, 0, l.Validators.Len())
	for i := range l.Validators.Entries {
		v := &l.Validators.Entries[i]
		keys, err := c.StakeAccounts(v)
		if err != nil {
			return nil, err
		}
		views = append(views, convertValidator(v, keys, targets[i]))
	}
	return views, nil
}

func (s *Solido) handleGetValidators(w http.ResponseWriter, req *http.Request) error {
	c, l, err := s.load(req)
	if err != nil {
		return err
	}
	views, err := validators(c, l)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, views)
}

func (s *Solido) handleGetValidator(w http.ResponseWriter, req *http.Request) error {
	vote, err := restutil.PublicKeyVar(req, "vote")
	if err != nil {
		return err
	}
	c, l, err := s.load(req)
	if err != nil {
		return err
	}
	views, err := validators(c, l)
	if err != nil {
		return err
	}
	for _, v := range views {
		if v.VoteAccount == vote {
			return restutil.WriteJSON(w, v)
		}
	}
	return restutil.NotFound(errors.Errorf("validator %s not found", vote))
}

func (s *Solido) handleGetMaintainers(w http.ResponseWriter, req *http.Request) error {
	_, l, err := s.load(req)
	if err != nil {
		return err
	}
	maintainers := make([]solana.PublicKey, 0, l.Maintainers.Len())
	for _, m := range l.Maintainers.Entries {
		maintainers = append(maintainers, m.Address)
	}
	return restutil.WriteJSON(w, maintainers)
}

func (s *Solido) handleGetAddresses(w http.ResponseWriter, req *http.Request) error {
	instance, err := restutil.PublicKeyVar(req, "instance")
	if err != nil {
		return err
	}
	addrs, err := client.DeriveAddresses(s.programID, instance)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, addrs)
}

func (s *Solido) handleGetNextTask(w http.ResponseWriter, req *http.Request) error {
	maintainer, err := solana.PublicKeyFromBase58(req.URL.Query().Get("maintainer"))
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "maintainer"))
	}
	c, _, err := s.load(req)
	if err != nil {
		return err
	}
	task, err := c.NextTask(maintainer, s.minStake)
	if err != nil {
		return err
	}
	if task == nil {
		return restutil.WriteJSON(w, nil)
	}
	view, err := convertTask(task)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, view)
}

func (s *Solido) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{instance}").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSolido))
	sub.Path("/{instance}/exchange-rate").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/exchange-rate").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetExchangeRate))
	sub.Path("/{instance}/validators").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/validators").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetValidators))
	sub.Path("/{instance}/validators/{vote}").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/validators/{vote}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetValidator))
	sub.Path("/{instance}/maintainers").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/maintainers").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetMaintainers))
	sub.Path("/{instance}/addresses").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/addresses").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAddresses))
	sub.Path("/{instance}/next-task").
		Methods(http.MethodGet).
		Name("GET /solido/{instance}/next-task").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetNextTask))
}
