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
	"github.com/ethereum/go-ethereum/common"
)

// nodeId is the dense index of an address in the delegation graph.
type nodeId uint32

// target is the outgoing delegation of a node. A node that has not delegated,
// or has delegated back to itself, keeps its weight.
type target struct {
	node      nodeId
	delegated bool
}

// graph holds at most one outgoing delegation edge per address. Addresses
// are interned into an arena of node ids so that walks along delegation
// chains do not allocate. The edge set is kept acyclic at all times.
type graph struct {
	ids     map[common.Address]nodeId
	addrs   []common.Address
	targets []target
}

func newGraph() *graph {
	return &graph{ids: map[common.Address]nodeId{}}
}

func (g *graph) size() int {
	return len(g.addrs)
}

func (g *graph) lookup(addr common.Address) (nodeId, bool) {
	id, found := g.ids[addr]
	return id, found
}

func (g *graph) intern(addr common.Address) nodeId {
	if id, found := g.ids[addr]; found {
		return id
	}
	id := nodeId(len(g.addrs))
	g.ids[addr] = id
	g.addrs = append(g.addrs, addr)
	g.targets = append(g.targets, target{})
	return id
}

// setDelegate makes delegator delegate to delegatee. Delegating to oneself
// removes the outgoing edge. If the new edge would close a cycle,
// ErrCycleDetected is returned and the graph is not modified.
func (g *graph) setDelegate(delegator, delegatee common.Address) error {
	if delegator == delegatee {
		if id, found := g.lookup(delegator); found {
			g.targets[id] = target{}
		}
		return nil
	}
	if g.wouldCreateCycle(delegator, delegatee) {
		return ErrCycleDetected
	}
	from := g.intern(delegator)
	to := g.intern(delegatee)
	g.targets[from] = target{node: to, delegated: true}
	return nil
}

// wouldCreateCycle walks forward from delegatee and reports whether the walk
// returns to delegator or revisits any node.
func (g *graph) wouldCreateCycle(delegator, delegatee common.Address) bool {
	from, found := g.lookup(delegator)
	if !found {
		return false // unknown addresses have no incoming edges
	}
	cur, found := g.lookup(delegatee)
	if !found {
		return false
	}
	// A walk of more than size() steps has visited some node twice.
	for steps := 0; steps <= g.size(); steps++ {
		if cur == from {
			return true
		}
		next := g.targets[cur]
		if !next.delegated {
			return false
		}
		cur = next.node
	}
	return true
}

// resolve follows the delegation chain starting at id and returns the final
// delegate. The walk is bounded by the number of nodes.
func (g *graph) resolve(id nodeId) nodeId {
	cur := id
	for steps := 0; steps < g.size(); steps++ {
		next := g.targets[cur]
		if !next.delegated {
			return cur
		}
		cur = next.node
	}
	return cur
}

// finalDelegate returns the final delegate of addr, which is addr itself if
// it has never delegated.
func (g *graph) finalDelegate(addr common.Address) common.Address {
	id, found := g.lookup(addr)
	if !found {
		return addr
	}
	return g.addrs[g.resolve(id)]
}

// delegateOf returns the direct delegatee of addr, if any.
func (g *graph) delegateOf(addr common.Address) (common.Address, bool) {
	id, found := g.lookup(addr)
	if !found {
		return common.Address{}, false
	}
	next := g.targets[id]
	if !next.delegated {
		return common.Address{}, false
	}
	return g.addrs[next.node], true
}

// edges returns all delegation edges as a delegator to delegatee map.
func (g *graph) edges() map[common.Address]common.Address {
	res := map[common.Address]common.Address{}
	for id, next := range g.targets {
		if next.delegated {
			res[g.addrs[id]] = g.addrs[next.node]
		}
	}
	return res
}

// chainLength returns the number of edges followed from id to its final
// delegate, and whether the chain terminates within the node count.
func (g *graph) chainLength(id nodeId) (int, bool) {
	cur := id
	for steps := 0; steps <= g.size(); steps++ {
		next := g.targets[cur]
		if !next.delegated {
			return steps, true
		}
		cur = next.node
	}
	return 0, false
}
