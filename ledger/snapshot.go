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
	"bytes"
	"fmt"
	"slices"

	"github.com/0xsoniclabs/ballot/auth"
	"github.com/0xsoniclabs/tracy"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/maps"
)

const snapshotVersion = 1

// snapshot is the RLP encoded form of the full state of a ledger. All lists
// are sorted such that equal ledger states have equal encodings.
type snapshot struct {
	Version     uint64
	Domain      domainEntry
	Voters      []voterEntry
	Delegations []delegationEntry
	Nonces      []nonceEntry
	Proposals   []proposalEntry
}

type domainEntry struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract common.Address
}

type voterEntry struct {
	Address common.Address
	Weight  *uint256.Int
}

type delegationEntry struct {
	Delegator common.Address
	Delegatee common.Address
}

type nonceEntry struct {
	Address common.Address
	Nonce   uint64
}

type proposalEntry struct {
	ID          string
	Title       string
	Description string
	ClosesAt    uint64
	Yes         *uint256.Int
	No          *uint256.Int
	Abstain     *uint256.Int
	Voted       []common.Address
}

func sortedAddresses(addrs []common.Address) []common.Address {
	slices.SortFunc(addrs, func(a, b common.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return addrs
}

// snapshot captures the ledger state; callers must hold the ledger lock.
func (l *Ledger) snapshot() *snapshot {
	zone := tracy.ZoneBegin("ledger::snapshot")
	defer zone.End()

	res := &snapshot{
		Version: snapshotVersion,
		Domain: domainEntry{
			Name:              l.domain.Name,
			Version:           l.domain.Version,
			ChainID:           l.domain.ChainID,
			VerifyingContract: l.domain.VerifyingContract,
		},
	}
	for _, addr := range sortedAddresses(maps.Keys(l.weights)) {
		res.Voters = append(res.Voters, voterEntry{
			Address: addr,
			Weight:  new(uint256.Int).Set(l.weights[addr]),
		})
	}
	edges := l.graph.edges()
	for _, addr := range sortedAddresses(maps.Keys(edges)) {
		res.Delegations = append(res.Delegations, delegationEntry{
			Delegator: addr,
			Delegatee: edges[addr],
		})
	}
	for _, addr := range sortedAddresses(maps.Keys(l.nonces)) {
		res.Nonces = append(res.Nonces, nonceEntry{Address: addr, Nonce: l.nonces[addr]})
	}
	ids := maps.Keys(l.proposals)
	slices.Sort(ids)
	for _, id := range ids {
		p := l.proposals[id]
		res.Proposals = append(res.Proposals, proposalEntry{
			ID:          p.id,
			Title:       p.title,
			Description: p.description,
			ClosesAt:    p.closesAt,
			Yes:         new(uint256.Int).Set(&p.tally.Yes),
			No:          new(uint256.Int).Set(&p.tally.No),
			Abstain:     new(uint256.Int).Set(&p.tally.Abstain),
			Voted:       sortedAddresses(maps.Keys(p.voted)),
		})
	}
	return res
}

func (d domainEntry) domain() auth.Domain {
	return auth.Domain{
		Name:              d.Name,
		Version:           d.Version,
		ChainID:           d.ChainID,
		VerifyingContract: d.VerifyingContract,
	}
}

// restore replaces the state of the ledger by the content of the given
// snapshot. The snapshot is validated first; if it is not consistent, the
// ledger is not modified. Callers must hold the ledger lock.
func (l *Ledger) restore(s *snapshot) error {
	if s.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}

	weights := make(map[common.Address]*uint256.Int, len(s.Voters))
	var total uint256.Int
	for _, entry := range s.Voters {
		if _, found := weights[entry.Address]; found {
			return fmt.Errorf("%w: duplicate voter %v", ErrCorruptSnapshot, entry.Address)
		}
		weight := new(uint256.Int)
		if entry.Weight != nil {
			weight.Set(entry.Weight)
		}
		if _, overflow := total.AddOverflow(&total, weight); overflow {
			return fmt.Errorf("%w: total weight exceeds 256 bits", ErrCorruptSnapshot)
		}
		weights[entry.Address] = weight
	}

	edges := newGraph()
	seen := map[common.Address]struct{}{}
	for _, entry := range s.Delegations {
		if _, found := seen[entry.Delegator]; found {
			return fmt.Errorf("%w: duplicate delegation of %v", ErrCorruptSnapshot, entry.Delegator)
		}
		seen[entry.Delegator] = struct{}{}
		if entry.Delegator == entry.Delegatee {
			return fmt.Errorf("%w: self delegation of %v", ErrCorruptSnapshot, entry.Delegator)
		}
		if err := edges.setDelegate(entry.Delegator, entry.Delegatee); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
		}
	}

	counters := make(nonces, len(s.Nonces))
	for _, entry := range s.Nonces {
		if _, found := counters[entry.Address]; found {
			return fmt.Errorf("%w: duplicate nonce of %v", ErrCorruptSnapshot, entry.Address)
		}
		counters[entry.Address] = entry.Nonce
	}

	proposals := make(map[string]*proposal, len(s.Proposals))
	for _, entry := range s.Proposals {
		if _, found := proposals[entry.ID]; found {
			return fmt.Errorf("%w: duplicate proposal %q", ErrCorruptSnapshot, entry.ID)
		}
		p := &proposal{
			id:          entry.ID,
			title:       entry.Title,
			description: entry.Description,
			closesAt:    entry.ClosesAt,
			voted:       make(map[common.Address]struct{}, len(entry.Voted)),
		}
		for choice, value := range map[Choice]*uint256.Int{Yes: entry.Yes, No: entry.No, Abstain: entry.Abstain} {
			if value != nil {
				p.tally.slot(choice).Set(value)
			}
		}
		for _, voter := range entry.Voted {
			p.voted[voter] = struct{}{}
		}
		proposals[entry.ID] = p
	}

	l.domain = s.Domain.domain()
	l.weights = weights
	l.total = total
	l.graph = edges
	l.nonces = counters
	l.proposals = proposals
	return nil
}

func encodeSnapshot(s *snapshot) ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

func decodeSnapshot(data []byte) (*snapshot, error) {
	res := &snapshot{}
	if err := rlp.DecodeBytes(data, res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return res, nil
}

// Hash returns a keccak256 commitment of the full ledger state. Ledgers
// with the same state have the same hash.
func (l *Ledger) Hash() (common.Hash, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	hasher := sha3.NewLegacyKeccak256()
	if err := rlp.Encode(hasher, l.snapshot()); err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(hasher.Sum(nil)), nil
}
