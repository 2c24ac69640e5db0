// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/0xsoniclabs/ballot/auth"
	"github.com/0xsoniclabs/ballot/database/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Ledger tracks voting weights, their transitive delegation and the tallies
// of proposals voted on with the delegated weight. Delegations are authorized
// by statements signed by the delegator.
//
// A Ledger may be used concurrently. Each mutating operation is applied
// atomically; failed operations leave the ledger unchanged.
type Ledger struct {
	auth   auth.Authenticator
	clock  Clock
	domain auth.Domain
	store  store.Store // < nil for transient ledgers

	mu        sync.RWMutex
	weights   map[common.Address]*uint256.Int
	total     uint256.Int // < sum of all weights, fits 256 bits
	graph     *graph
	nonces    nonces
	proposals map[string]*proposal
}

// NewCustom creates an empty, transient ledger using the given collaborators.
func NewCustom(authenticator auth.Authenticator, clock Clock) *Ledger {
	return &Ledger{
		auth:      authenticator,
		clock:     clock,
		weights:   map[common.Address]*uint256.Int{},
		graph:     newGraph(),
		nonces:    nonces{},
		proposals: map[string]*proposal{},
	}
}

// AddVoter sets the own weight of addr, replacing any previous weight.
// Weights must be non-negative and the total weight of the ledger must fit
// into 256 bits.
func (l *Ledger) AddVoter(addr common.Address, weight *big.Int) error {
	if weight == nil || weight.Sign() < 0 {
		return fmt.Errorf("%w: weight must be non-negative, got %v", ErrInvalidWeight, weight)
	}
	w, overflow := uint256.FromBig(weight)
	if overflow {
		return fmt.Errorf("%w: weight %v exceeds 256 bits", ErrInvalidWeight, weight)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	total := new(uint256.Int).Set(&l.total)
	if old, found := l.weights[addr]; found {
		total.Sub(total, old)
	}
	if _, overflow := total.AddOverflow(total, w); overflow {
		return fmt.Errorf("%w: total weight would exceed 256 bits", ErrInvalidWeight)
	}
	l.total = *total
	l.weights[addr] = w
	l.nonces.touch(addr)
	log.Debug("Voter weight set", "voter", addr, "weight", w)
	return nil
}

// DirectWeight returns the own weight of addr, ignoring any delegation.
func (l *Ledger) DirectWeight(addr common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if weight, found := l.weights[addr]; found {
		return new(uint256.Int).Set(weight)
	}
	return new(uint256.Int)
}

// TotalWeight returns the sum of the own weights of all voters.
func (l *Ledger) TotalWeight() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(&l.total)
}

// CurrentNonce returns the nonce the next delegation statement of addr has
// to carry.
func (l *Ledger) CurrentNonce(addr common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nonces.current(addr)
}

// BuildDelegationStatement creates the statement the delegator has to sign
// to delegate to delegatee, filled in with the delegator's current nonce.
func (l *Ledger) BuildDelegationStatement(delegator, delegatee common.Address, deadline uint64) auth.Statement {
	return auth.Statement{
		Delegator: delegator,
		Delegatee: delegatee,
		Nonce:     l.CurrentNonce(delegator),
		Deadline:  deadline,
	}
}

// ApplyDelegationUpdate makes delegator delegate its weight to delegatee if
// the signature is a valid signature of the delegator for the given
// statement fields. Delegating to oneself cancels any previous delegation.
// On success the delegator's nonce is advanced by one; on failure nothing
// changes.
func (l *Ledger) ApplyDelegationUpdate(
	signature []byte,
	delegator, delegatee common.Address,
	nonce, deadline uint64,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := unixSeconds(l.clock.Now())

	if now > deadline {
		return fmt.Errorf("%w: deadline %d, now %d", ErrExpired, deadline, now)
	}
	expected := l.nonces.current(delegator)
	if nonce != expected {
		return fmt.Errorf("%w: got %d, want %d", ErrNonceMismatch, nonce, expected)
	}

	statement := auth.Statement{
		Delegator: delegator,
		Delegatee: delegatee,
		Nonce:     nonce,
		Deadline:  deadline,
	}
	signer, err := l.auth.RecoverSigner(statement, signature)
	if err != nil {
		if errors.Is(err, ErrSignatureInvalid) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	if signer != delegator {
		return fmt.Errorf("%w: signed by %v", ErrNotDelegator, signer)
	}

	if err := l.graph.setDelegate(delegator, delegatee); err != nil {
		return fmt.Errorf("%w: %v -> %v", err, delegator, delegatee)
	}
	l.nonces.advance(delegator)
	log.Info("Delegation updated", "delegator", delegator, "delegatee", delegatee, "nonce", nonce)
	return nil
}

// DelegateOf returns the address addr directly delegates to, if any.
func (l *Ledger) DelegateOf(addr common.Address) (common.Address, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.delegateOf(addr)
}

// FinalDelegate returns the address reached by following the delegation
// chain starting at addr.
func (l *Ledger) FinalDelegate(addr common.Address) common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.finalDelegate(addr)
}

// --- Operational Features ---

// Flush writes the current state of the ledger into its store. It is a no-op
// for transient ledgers.
func (l *Ledger) Flush() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.store == nil {
		return nil
	}
	return saveSnapshot(l.store, l.snapshot())
}

// Close flushes the ledger and releases its store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := errors.Join(
		saveSnapshot(l.store, l.snapshot()),
		l.store.Close(),
	)
	l.store = nil
	return err
}
