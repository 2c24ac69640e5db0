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
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
)

// Choice is the option a final holder votes for.
type Choice string

const (
	Yes     Choice = "yes"     // in favor of the proposal
	No      Choice = "no"      // against the proposal
	Abstain Choice = "abstain" // counted without taking a side
)

// Choices lists all valid choices.
var Choices = []Choice{Yes, No, Abstain}

// ParseChoice converts s into a Choice, failing with ErrInvalidChoice for
// anything but "yes", "no" or "abstain".
func ParseChoice(s string) (Choice, error) {
	choice := Choice(s)
	if !choice.valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
	return choice, nil
}

func (c Choice) valid() bool {
	return c == Yes || c == No || c == Abstain
}

// Tally is the weight accumulated per choice of a proposal. Tallies are
// values; copies do not share state with the ledger.
type Tally struct {
	Yes     uint256.Int
	No      uint256.Int
	Abstain uint256.Int
}

// Get returns a copy of the weight accumulated for the given choice.
func (t *Tally) Get(choice Choice) *uint256.Int {
	if p := t.slot(choice); p != nil {
		return new(uint256.Int).Set(p)
	}
	return new(uint256.Int)
}

// Total returns the sum of all choices.
func (t *Tally) Total() *uint256.Int {
	res := new(uint256.Int).Add(&t.Yes, &t.No)
	return res.Add(res, &t.Abstain)
}

func (t *Tally) String() string {
	return fmt.Sprintf("yes: %v, no: %v, abstain: %v", &t.Yes, &t.No, &t.Abstain)
}

func (t *Tally) slot(choice Choice) *uint256.Int {
	switch choice {
	case Yes:
		return &t.Yes
	case No:
		return &t.No
	case Abstain:
		return &t.Abstain
	}
	return nil
}

type proposal struct {
	id          string
	title       string
	description string
	closesAt    uint64
	tally       Tally
	voted       map[common.Address]struct{}
}

func (p *proposal) isOpen(now uint64) bool {
	return now <= p.closesAt
}

// ProposalInfo is a snapshot of a proposal's state.
type ProposalInfo struct {
	ID          string
	Title       string
	Description string
	ClosesAt    uint64
	Tally       Tally
	Voters      []common.Address
}

// CreateProposal registers a new proposal accepting votes until closesAt
// (inclusive, in Unix seconds).
func (l *Ledger) CreateProposal(id, title, description string, closesAt uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := unixSeconds(l.clock.Now())

	if _, found := l.proposals[id]; found {
		return fmt.Errorf("%w: %q", ErrDuplicateProposal, id)
	}
	if closesAt <= now {
		return fmt.Errorf("%w: closes at %d, now %d", ErrInvalidClosingTime, closesAt, now)
	}
	l.proposals[id] = &proposal{
		id:          id,
		title:       title,
		description: description,
		closesAt:    closesAt,
		voted:       map[common.Address]struct{}{},
	}
	log.Info("Proposal created", "id", id, "closesAt", closesAt)
	return nil
}

// Vote casts the aggregated power of voter for the given choice. Only final
// holders may vote, and each final holder only once per proposal. It returns
// the weight added and the resulting tally.
func (l *Ledger) Vote(proposalId string, voter common.Address, choice Choice) (*uint256.Int, Tally, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := unixSeconds(l.clock.Now())

	p, found := l.proposals[proposalId]
	if !found {
		return nil, Tally{}, fmt.Errorf("%w: %q", ErrUnknownProposal, proposalId)
	}
	if !choice.valid() {
		return nil, Tally{}, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if !p.isOpen(now) {
		return nil, Tally{}, fmt.Errorf("%w: proposal %q closed at %d", ErrVotingClosed, proposalId, p.closesAt)
	}
	holder := l.graph.finalDelegate(voter)
	if holder != voter {
		return nil, Tally{}, fmt.Errorf("%w: %v delegates to %v", ErrDelegatedVoterCannotVote, voter, holder)
	}
	if _, voted := p.voted[holder]; voted {
		return nil, Tally{}, fmt.Errorf("%w: %v", ErrAlreadyVoted, holder)
	}
	power := l.effectivePower(holder)
	if power.IsZero() {
		return nil, Tally{}, fmt.Errorf("%w: %v", ErrNoVotingPower, holder)
	}

	slot := p.tally.slot(choice)
	slot.Add(slot, power)
	p.voted[holder] = struct{}{}
	log.Info("Vote cast", "proposal", proposalId, "voter", voter, "choice", choice, "power", power)
	return power, p.tally, nil
}

// Results returns the current tally of the given proposal.
func (l *Ledger) Results(proposalId string) (Tally, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, found := l.proposals[proposalId]
	if !found {
		return Tally{}, fmt.Errorf("%w: %q", ErrUnknownProposal, proposalId)
	}
	return p.tally, nil
}

// IsOpen reports whether the given proposal still accepts votes.
func (l *Ledger) IsOpen(proposalId string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := unixSeconds(l.clock.Now())
	p, found := l.proposals[proposalId]
	if !found {
		return false, fmt.Errorf("%w: %q", ErrUnknownProposal, proposalId)
	}
	return p.isOpen(now), nil
}

// Proposal returns a snapshot of the given proposal.
func (l *Ledger) Proposal(proposalId string) (ProposalInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, found := l.proposals[proposalId]
	if !found {
		return ProposalInfo{}, fmt.Errorf("%w: %q", ErrUnknownProposal, proposalId)
	}
	return ProposalInfo{
		ID:          p.id,
		Title:       p.title,
		Description: p.description,
		ClosesAt:    p.closesAt,
		Tally:       p.tally,
		Voters:      sortedAddresses(maps.Keys(p.voted)),
	}, nil
}

// Proposals returns the ids of all proposals in lexicographical order.
func (l *Ledger) Proposals() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := maps.Keys(l.proposals)
	slices.Sort(ids)
	return ids
}
