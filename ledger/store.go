// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/cache"
	"github.com/lido-solana/solido/kv"
)

const accountBucket = kv.Bucket("a")

// accountStore persists accounts, snappy-compressed RLP under their address.
// Reads go through an LRU of decoded accounts; a nil entry caches absence.
type accountStore struct {
	store kv.Store
	cache *cache.LRU[solana.PublicKey, *Account]
}

func newAccountStore(store kv.Store, cacheSize int) (*accountStore, error) {
	c, err := cache.NewLRU[solana.PublicKey, *Account](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "account cache")
	}
	return &accountStore{store: accountBucket.NewStore(store), cache: c}, nil
}

// get returns a copy of the committed account, or nil if there is none.
func (s *accountStore) get(key solana.PublicKey) (*Account, error) {
	a, err := s.cache.GetOrLoad(key, func(key solana.PublicKey) (*Account, error) {
		enc, err := s.store.Get(key[:])
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrapf(err, "read account %s", key)
		}
		return decodeAccount(enc)
	})
	if err != nil || a == nil {
		return nil, err
	}
	return a.Copy(), nil
}

// commit writes changes in one batch. Accounts left without lamports are
// deleted.
func (s *accountStore) commit(changes map[solana.PublicKey]*Account) error {
	bulk := s.store.Bulk()
	for key, a := range changes {
		if a.Lamports == 0 {
			if err := bulk.Delete(key[:]); err != nil {
				return err
			}
			continue
		}
		enc, err := encodeAccount(a)
		if err != nil {
			return err
		}
		if err := bulk.Put(key[:], enc); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit accounts")
	}
	for key, a := range changes {
		if a.Lamports == 0 {
			s.cache.Add(key, nil)
		} else {
			s.cache.Add(key, a.Copy())
		}
	}
	return nil
}

// iterate walks all committed accounts in address order.
func (s *accountStore) iterate(fn func(key solana.PublicKey, a *Account) bool) error {
	iter := s.store.Iterate(kv.Range{})
	defer iter.Release()
	for iter.Next() {
		a, err := decodeAccount(iter.Value())
		if err != nil {
			return err
		}
		if !fn(solana.PublicKeyFromBytes(iter.Key()), a) {
			break
		}
	}
	return iter.Error()
}
