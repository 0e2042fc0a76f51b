// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/reverts"
)

// Entry is an element of an AccountList, identified by an address.
type Entry interface {
	Pubkey() solana.PublicKey
}

// AccountList is a registry with a capacity fixed at creation. The capacity
// is part of the record so that the account size never has to change.
type AccountList[T Entry] struct {
	Entries    []T
	MaxEntries uint32
}

// NewAccountList returns an empty list that holds at most maxEntries.
func NewAccountList[T Entry](maxEntries uint32) AccountList[T] {
	return AccountList[T]{Entries: []T{}, MaxEntries: maxEntries}
}

func (l *AccountList[T]) Len() int { return len(l.Entries) }

func (l *AccountList[T]) index(key solana.PublicKey) int {
	for i := range l.Entries {
		if l.Entries[i].Pubkey().Equals(key) {
			return i
		}
	}
	return -1
}

// Add appends entry.
func (l *AccountList[T]) Add(entry T) error {
	if uint32(len(l.Entries)) >= l.MaxEntries {
		return reverts.Newf(reverts.CapacityExceeded, "list holds at most %d entries", l.MaxEntries)
	}
	if l.index(entry.Pubkey()) >= 0 {
		return reverts.Newf(reverts.DuplicateEntry, "%s", entry.Pubkey())
	}
	l.Entries = append(l.Entries, entry)
	return nil
}

// Remove deletes the entry for key, moving the last entry into its place.
func (l *AccountList[T]) Remove(key solana.PublicKey) (T, error) {
	i := l.index(key)
	if i < 0 {
		var zero T
		return zero, reverts.Newf(reverts.EntryNotFound, "%s", key)
	}
	removed := l.Entries[i]
	last := len(l.Entries) - 1
	l.Entries[i] = l.Entries[last]
	l.Entries = l.Entries[:last]
	return removed, nil
}

// Get returns the entry for key. The pointer stays valid until the next Add
// or Remove.
func (l *AccountList[T]) Get(key solana.PublicKey) (*T, error) {
	i := l.index(key)
	if i < 0 {
		return nil, reverts.Newf(reverts.EntryNotFound, "%s", key)
	}
	return &l.Entries[i], nil
}

// Contains reports whether key is registered.
func (l *AccountList[T]) Contains(key solana.PublicKey) bool {
	return l.index(key) >= 0
}
