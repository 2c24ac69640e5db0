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
	"github.com/0xsoniclabs/tracy"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// powerMap aggregates the weight of all voters into the buckets of their
// final delegates. Voters without weight do not contribute a bucket. Since the
// total weight of a ledger fits into 256 bits, no bucket can overflow.
//
// The map is recomputed on every call; callers must hold the ledger lock.
func (l *Ledger) powerMap() map[common.Address]*uint256.Int {
	zone := tracy.ZoneBegin("ledger::power_map")
	defer zone.End()

	power := make(map[common.Address]*uint256.Int, len(l.weights))
	for voter, weight := range l.weights {
		if weight.IsZero() {
			continue
		}
		holder := l.graph.finalDelegate(voter)
		bucket, found := power[holder]
		if !found {
			bucket = new(uint256.Int)
			power[holder] = bucket
		}
		bucket.Add(bucket, weight)
	}
	return power
}

// EffectivePowerMap returns the aggregated voting power of every final
// delegate holding some weight. The result is a copy owned by the caller.
func (l *Ledger) EffectivePowerMap() map[common.Address]*uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.powerMap()
}

// EffectivePower returns the voting power held by the final delegate of addr.
// The result is zero for unknown addresses.
func (l *Ledger) EffectivePower(addr common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.effectivePower(addr)
}

func (l *Ledger) effectivePower(addr common.Address) *uint256.Int {
	holder := l.graph.finalDelegate(addr)
	if power, found := l.powerMap()[holder]; found {
		return power
	}
	return new(uint256.Int)
}
