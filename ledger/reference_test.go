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
	"math/big"
	"math/rand"
	"testing"

	"github.com/0xsoniclabs/ballot/ledger/reference"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestLedger_MatchesReferenceModel(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(99))

	l := newTestLedger()
	want := reference.NewLedger()

	accounts := make([]account, 12)
	for i := range accounts {
		accounts[i] = newAccount(t)
	}

	for step := 0; step < 500; step++ {
		from := accounts[r.Intn(len(accounts))]
		switch r.Intn(4) {
		case 0:
			weight := uint64(r.Intn(100))
			require.NoError(l.AddVoter(from.addr, new(big.Int).SetUint64(weight)))
			want.SetWeight(from.addr, uint256.NewInt(weight))
		default:
			to := accounts[r.Intn(len(accounts))]
			got := l.delegate(t, from, to.addr)
			expected := want.Delegate(from.addr, to.addr)
			if expected != nil {
				require.ErrorIs(got, ErrCycleDetected, "step %d", step)
			} else {
				require.NoError(got, "step %d", step)
			}
		}

		require.Equal(want.Power(), l.EffectivePowerMap(), "step %d", step)
		for _, acc := range accounts {
			require.Equal(want.FinalDelegate(acc.addr), l.FinalDelegate(acc.addr))
		}
	}
	require.NoError(l.Check())
}
