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

import "github.com/ethereum/go-ethereum/common"

// nonces tracks per delegator the nonce the next delegation statement has to
// carry. Nonces only ever grow, one step per accepted statement.
type nonces map[common.Address]uint64

func (n nonces) current(addr common.Address) uint64 {
	return n[addr]
}

// touch creates a zero entry for addr if there is none.
func (n nonces) touch(addr common.Address) {
	if _, found := n[addr]; !found {
		n[addr] = 0
	}
}

func (n nonces) advance(addr common.Address) {
	n[addr]++
}
