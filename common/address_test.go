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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress_SpellingsOfSameAddressAreEqual(t *testing.T) {
	require := require.New(t)

	lower, err := ParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(err)
	checksum, err := ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(err)
	noPrefix, err := ParseAddress("5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	require.NoError(err)

	require.Equal(lower, checksum)
	require.Equal(lower, noPrefix)
	require.Equal("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", lower.Hex())
}

func TestParseAddress_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "0x", "0x1234", "zz5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
		_, err := ParseAddress(input)
		require.ErrorIs(t, err, ErrInvalidAddress, "input %q", input)
	}
}

func TestConstError_CanBeComparedWithErrorsIs(t *testing.T) {
	const errA = ConstError("a")
	require.ErrorIs(t, errA, ConstError("a"))
	require.NotErrorIs(t, errA, ConstError("b"))
	require.Equal(t, "a", errA.Error())
}
