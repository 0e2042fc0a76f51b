// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts binds instructions to the accounts they touch. An operation
// declares once, as a Contract, the ordered roles it expects. The same
// declaration builds the account list of an outgoing instruction and checks
// the list an incoming instruction arrived with, so the two sides cannot
// drift apart.
package accounts

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

// Info is an account as handed to a program: its address, the privileges the
// transaction granted, and its mutable contents.
type Info struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Lamports   token.Lamports
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
}

// Meta returns the account meta the info was passed with.
func (i *Info) Meta() *solana.AccountMeta {
	return solana.NewAccountMeta(i.Key, i.IsWritable, i.IsSigner)
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (signer=%v writable=%v lamports=%d)", i.Key, i.IsSigner, i.IsWritable, i.Lamports)
}

// Role is one position in a Contract.
type Role struct {
	Name     string
	Signer   bool
	Writable bool
	// Const pins the role to a well-known address such as a program or sysvar.
	Const *solana.PublicKey
	// Variadic marks the trailing role. It matches the remaining accounts,
	// which must come in groups of Stride (default 1) and number at most
	// MaxRest (0 means unbounded).
	Variadic bool
	Stride   int
	MaxRest  int
}

// Contract is the ordered list of roles an operation requires.
type Contract struct {
	name  string
	fixed []Role
	rest  *Role
}

// NewContract checks the role declarations and returns the contract.
func NewContract(name string, roles ...Role) (*Contract, error) {
	c := &Contract{name: name}
	seen := make(map[string]bool, len(roles))
	for i, r := range roles {
		if r.Name == "" {
			return nil, fmt.Errorf("%s: role %d has no name", name, i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%s: duplicate role %q", name, r.Name)
		}
		seen[r.Name] = true
		if r.Variadic {
			if i != len(roles)-1 {
				return nil, fmt.Errorf("%s: variadic role %q must be last", name, r.Name)
			}
			if r.Stride < 0 || r.MaxRest < 0 {
				return nil, fmt.Errorf("%s: variadic role %q has negative bounds", name, r.Name)
			}
			if r.Stride == 0 {
				r.Stride = 1
			}
			if r.Const != nil {
				return nil, fmt.Errorf("%s: variadic role %q cannot be constant", name, r.Name)
			}
			rest := r
			c.rest = &rest
			continue
		}
		c.fixed = append(c.fixed, r)
	}
	return c, nil
}

// MustContract is like NewContract but panics on a bad declaration.
func MustContract(name string, roles ...Role) *Contract {
	c, err := NewContract(name, roles...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Contract) Name() string { return c.name }

// Roles returns the fixed roles followed by the variadic one, if any.
func (c *Contract) Roles() []Role {
	roles := append([]Role(nil), c.fixed...)
	if c.rest != nil {
		roles = append(roles, *c.rest)
	}
	return roles
}

// Keys maps role names to addresses for Metas.
type Keys map[string]solana.PublicKey

// Metas builds the ordered account list for an instruction. Const roles need
// not appear in keys; every other fixed role must.
func (c *Contract) Metas(keys Keys, rest ...solana.PublicKey) (solana.AccountMetaSlice, error) {
	metas := make(solana.AccountMetaSlice, 0, len(c.fixed)+len(rest))
	for _, r := range c.fixed {
		key, ok := keys[r.Name]
		if !ok {
			if r.Const == nil {
				return nil, fmt.Errorf("%s: no address for role %q", c.name, r.Name)
			}
			key = *r.Const
		}
		metas = append(metas, solana.NewAccountMeta(key, r.Writable, r.Signer))
	}
	if err := c.checkRest(len(rest)); err != nil {
		return nil, err
	}
	for _, key := range rest {
		metas = append(metas, solana.NewAccountMeta(key, c.rest.Writable, c.rest.Signer))
	}
	return metas, nil
}

func (c *Contract) checkRest(n int) error {
	if c.rest == nil {
		if n > 0 {
			return reverts.Newf(reverts.AuthorizationMismatch, "%s: %d unexpected trailing accounts", c.name, n)
		}
		return nil
	}
	if n%c.rest.Stride != 0 {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s: %d %s accounts, want a multiple of %d", c.name, n, c.rest.Name, c.rest.Stride)
	}
	if c.rest.MaxRest > 0 && n > c.rest.MaxRest {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s: %d %s accounts, at most %d allowed", c.name, n, c.rest.Name, c.rest.MaxRest)
	}
	return nil
}

// Parse walks infos against the declared roles and returns them by name. The
// signer and writable flags must equal the declaration exactly: an extra
// privilege is refused as much as a missing one.
func (c *Contract) Parse(infos []*Info) (*Bound, error) {
	if len(infos) < len(c.fixed) {
		return nil, reverts.Newf(reverts.AuthorizationMismatch, "%s: %d accounts, want at least %d", c.name, len(infos), len(c.fixed))
	}
	b := &Bound{named: make(map[string]*Info, len(c.fixed))}
	for i, r := range c.fixed {
		info := infos[i]
		if err := c.match(r, info); err != nil {
			return nil, err
		}
		b.named[r.Name] = info
	}
	rest := infos[len(c.fixed):]
	if err := c.checkRest(len(rest)); err != nil {
		return nil, err
	}
	for _, info := range rest {
		if err := c.match(*c.rest, info); err != nil {
			return nil, err
		}
	}
	b.rest = rest
	return b, nil
}

func (c *Contract) match(r Role, info *Info) error {
	if info.IsSigner != r.Signer {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s: %s %s signer=%v, want %v", c.name, r.Name, info.Key, info.IsSigner, r.Signer)
	}
	if info.IsWritable != r.Writable {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s: %s %s writable=%v, want %v", c.name, r.Name, info.Key, info.IsWritable, r.Writable)
	}
	if r.Const != nil && !info.Key.Equals(*r.Const) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s: %s is %s, want %s", c.name, r.Name, info.Key, *r.Const)
	}
	return nil
}

// Bound is a parsed account list.
type Bound struct {
	named map[string]*Info
	rest  []*Info
}

// Get returns the account bound to a role. Asking for an undeclared role is a
// programming error and panics.
func (b *Bound) Get(name string) *Info {
	info, ok := b.named[name]
	if !ok {
		panic(fmt.Sprintf("accounts: role %q not declared", name))
	}
	return info
}

// Rest returns the accounts matched by the variadic role.
func (b *Bound) Rest() []*Info {
	return b.rest
}
