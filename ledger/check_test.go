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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestCheck_ConsistentLedgerPasses(t *testing.T) {
	require := require.New(t)
	l := newTestLedger()
	a, b := newAccount(t), newAccount(t)
	require.NoError(l.AddVoter(a.addr, big.NewInt(2)))
	require.NoError(l.AddVoter(b.addr, big.NewInt(3)))
	require.NoError(l.delegate(t, a, b.addr))
	require.NoError(l.Check())
}

func TestCheck_DetectsCyclesInCorruptedGraph(t *testing.T) {
	require := require.New(t)
	l := newTestLedger()
	a, b := common.Address{1}, common.Address{2}
	require.NoError(l.graph.setDelegate(a, b))

	// bypass the cycle check
	idA, _ := l.graph.lookup(a)
	idB, _ := l.graph.lookup(b)
	l.graph.targets[idB] = target{node: idA, delegated: true}

	require.ErrorIs(l.Check(), ErrInconsistentDelegation)
	// resolution still terminates
	l.graph.finalDelegate(a)
}

func TestCheck_DetectsWeightMismatch(t *testing.T) {
	require := require.New(t)
	l := newTestLedger()
	require.NoError(l.AddVoter(common.Address{1}, big.NewInt(2)))
	l.total.SetUint64(5)
	require.ErrorIs(l.Check(), ErrWeightConservationFailure)
}
