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

	"github.com/holiman/uint256"
)

// Check verifies the internal invariants of the ledger: every delegation
// chain ends in an undelegated address within the number of known addresses,
// and the effective power of all final delegates sums up to the total weight.
func (l *Ledger) Check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var errs []error
	for id := range l.graph.targets {
		if _, ok := l.graph.chainLength(nodeId(id)); !ok {
			errs = append(errs, fmt.Errorf("%w: chain of %v does not terminate", ErrInconsistentDelegation, l.graph.addrs[id]))
		}
	}

	sum := new(uint256.Int)
	for holder, power := range l.powerMap() {
		if _, delegated := l.graph.delegateOf(holder); delegated {
			errs = append(errs, fmt.Errorf("%w: %v holds power but delegates", ErrInconsistentDelegation, holder))
		}
		sum.Add(sum, power)
	}
	if !sum.Eq(&l.total) {
		errs = append(errs, fmt.Errorf("%w: power %v, weight %v", ErrWeightConservationFailure, sum, &l.total))
	}
	return errors.Join(errs...)
}
