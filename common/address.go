// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const ErrInvalidAddress = ConstError("invalid address")

// ParseAddress canonicalizes a hex encoded address. Inputs are accepted with
// or without 0x prefix and in any letter case; the resulting address compares
// equal for all spellings of the same 20 bytes.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
