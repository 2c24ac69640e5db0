// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package reference

import (
	"github.com/0xsoniclabs/ballot/common"
	geth "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const ErrCycle = common.ConstError("delegation would create a cycle")

// Ledger is a straightforward in-memory model of a delegation ledger used for
// cross-checking the production implementation in tests. Chains are followed
// edge by edge on every query; nothing is interned or cached. Signatures,
// nonces and proposals are not modeled.
type Ledger struct {
	weights   map[geth.Address]*uint256.Int
	delegates map[geth.Address]geth.Address
}

// NewLedger creates a new, empty reference ledger.
func NewLedger() *Ledger {
	return &Ledger{
		weights:   map[geth.Address]*uint256.Int{},
		delegates: map[geth.Address]geth.Address{},
	}
}

// SetWeight sets the direct weight of the given address.
func (l *Ledger) SetWeight(addr geth.Address, weight *uint256.Int) {
	l.weights[addr] = new(uint256.Int).Set(weight)
}

// Delegate makes delegator delegate to delegatee. Delegating to oneself
// removes any existing delegation.
func (l *Ledger) Delegate(delegator, delegatee geth.Address) error {
	if delegator == delegatee {
		delete(l.delegates, delegator)
		return nil
	}
	// walk the chain starting at delegatee; reaching delegator closes a cycle
	for cur, found := delegatee, true; found; cur, found = l.delegates[cur] {
		if cur == delegator {
			return ErrCycle
		}
	}
	l.delegates[delegator] = delegatee
	return nil
}

// FinalDelegate follows the delegation chain starting at addr to its end.
func (l *Ledger) FinalDelegate(addr geth.Address) geth.Address {
	for {
		next, found := l.delegates[addr]
		if !found {
			return addr
		}
		addr = next
	}
}

// Power computes the voting power of every final holder with a non-zero
// power.
func (l *Ledger) Power() map[geth.Address]*uint256.Int {
	res := map[geth.Address]*uint256.Int{}
	for addr, weight := range l.weights {
		if weight.IsZero() {
			continue
		}
		holder := l.FinalDelegate(addr)
		if cur, found := res[holder]; found {
			cur.Add(cur, weight)
		} else {
			res[holder] = new(uint256.Int).Set(weight)
		}
	}
	return res
}
