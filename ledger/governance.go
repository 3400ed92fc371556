// Copyright 2026 Freehold Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"cmp"
	"maps"
	"slices"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
)

// ProposalStatus is the proposal lifecycle state. Open proposals accept
// votes; Executed and Rejected are terminal.
type ProposalStatus string

const (
	ProposalStatusOpen     ProposalStatus = "Open"
	ProposalStatusExecuted ProposalStatus = "Executed"
	ProposalStatusRejected ProposalStatus = "Rejected"
)

// Proposal is a share-weighted governance proposal. YesVotes and NoVotes
// are sums of voter balances captured at vote time; Votes records each
// voter's choice and enforces one vote per identity. Proposals are never
// deleted.
type Proposal struct {
	Id          ProposalId
	PropertyId  PropertyId
	Proposer    authz.Identity
	Description string
	Status      ProposalStatus
	YesVotes    uint64
	NoVotes     uint64
	Votes       map[authz.Identity]bool
}

// copyProposal returns a deep copy so callers never share the vote map.
func copyProposal(proposal *Proposal) Proposal {
	ret := *proposal
	ret.Votes = maps.Clone(proposal.Votes)
	return ret
}

// SubmitProposal opens a proposal with zero tallies and an empty vote
// set. Share ownership is required to vote, not to submit, and the
// property is not required to exist: a proposal on an unknown property
// is legal but unwinnable, since nobody can hold a positive balance.
func (ls *LedgerState) SubmitProposal(
	id PropertyId,
	description string,
	proposer authz.Identity,
) Proposal {
	ls.Lock()
	defer ls.Unlock()
	proposal := &Proposal{
		Id:          ls.nextProposalId,
		PropertyId:  id,
		Proposer:    proposer,
		Description: description,
		Status:      ProposalStatusOpen,
		Votes:       map[authz.Identity]bool{},
	}
	ls.nextProposalId++
	ls.proposals[proposal.Id] = proposal
	ls.logger.Info(
		"submitted proposal",
		"component", "ledger",
		"proposal_id", proposal.Id,
		"property_id", id,
		"proposer", proposer,
	)
	ls.metrics.proposalsOpen.Inc()
	ls.eventBus.Publish(
		ProposalSubmittedEventType,
		event.NewEvent(
			ProposalSubmittedEventType,
			ProposalSubmittedEvent{Proposal: copyProposal(proposal)},
		),
	)
	return copyProposal(proposal)
}

// VoteOnProposal records a share-weighted vote. The voter's current
// balance for the proposal's property becomes the vote's weight, fixed
// for the proposal's lifetime regardless of later balance changes. Every
// precondition failure reports NotVotable: unknown proposal, closed
// voting, a repeated vote, or zero voting weight.
func (ls *LedgerState) VoteOnProposal(
	id ProposalId,
	voter authz.Identity,
	approve bool,
) error {
	ls.Lock()
	defer ls.Unlock()
	proposal, ok := ls.proposals[id]
	if !ok {
		return &NotVotableError{ProposalId: id, Reason: "unknown proposal"}
	}
	if proposal.Status != ProposalStatusOpen {
		return &NotVotableError{ProposalId: id, Reason: "voting closed"}
	}
	if _, voted := proposal.Votes[voter]; voted {
		return &NotVotableError{ProposalId: id, Reason: "already voted"}
	}
	weight := ls.holderBalance(proposal.PropertyId, voter)
	if weight == 0 {
		return &NotVotableError{ProposalId: id, Reason: "no voting weight"}
	}
	proposal.Votes[voter] = approve
	if approve {
		proposal.YesVotes += weight
	} else {
		proposal.NoVotes += weight
	}
	ls.logger.Debug(
		"recorded vote",
		"component", "ledger",
		"proposal_id", id,
		"voter", voter,
		"approve", approve,
		"weight", weight,
	)
	ls.metrics.votesTotal.Inc()
	ls.eventBus.Publish(
		VoteCastEventType,
		event.NewEvent(
			VoteCastEventType,
			VoteCastEvent{
				ProposalId: id,
				Voter:      voter,
				Approve:    approve,
				Weight:     weight,
			},
		),
	)
	return nil
}

// ExecuteProposal closes an open proposal by simple majority: more yes
// weight than no weight executes it, anything else rejects it, ties
// included. Approved is a transient label collapsed into Executed and
// never observable. The status transition is the only effect; the
// published ProposalExecutedEvent is the extension point for anything
// further.
func (ls *LedgerState) ExecuteProposal(id ProposalId) error {
	ls.Lock()
	defer ls.Unlock()
	proposal, ok := ls.proposals[id]
	if !ok || proposal.Status != ProposalStatusOpen {
		return &NotExecutableError{ProposalId: id}
	}
	approved := proposal.YesVotes > proposal.NoVotes
	if approved {
		proposal.Status = ProposalStatusExecuted
	} else {
		proposal.Status = ProposalStatusRejected
	}
	ls.logger.Info(
		"executed proposal",
		"component", "ledger",
		"proposal_id", id,
		"property_id", proposal.PropertyId,
		"approved", approved,
		"yes_votes", proposal.YesVotes,
		"no_votes", proposal.NoVotes,
	)
	ls.metrics.proposalsOpen.Dec()
	ls.eventBus.Publish(
		ProposalExecutedEventType,
		event.NewEvent(
			ProposalExecutedEventType,
			ProposalExecutedEvent{
				ProposalId: id,
				PropertyId: proposal.PropertyId,
				Approved:   approved,
				YesVotes:   proposal.YesVotes,
				NoVotes:    proposal.NoVotes,
			},
		),
	)
	return nil
}

// Proposal returns a deep copy of the proposal record.
func (ls *LedgerState) Proposal(id ProposalId) (Proposal, error) {
	ls.RLock()
	defer ls.RUnlock()
	proposal, ok := ls.proposals[id]
	if !ok {
		return Proposal{}, &ProposalNotFoundError{ProposalId: id}
	}
	return copyProposal(proposal), nil
}

// Proposals returns deep copies of the property's proposals ordered by
// id.
func (ls *LedgerState) Proposals(propertyId PropertyId) []Proposal {
	ls.RLock()
	defer ls.RUnlock()
	ret := []Proposal{}
	for _, proposal := range ls.proposals {
		if proposal.PropertyId != propertyId {
			continue
		}
		ret = append(ret, copyProposal(proposal))
	}
	slices.SortFunc(ret, func(a, b Proposal) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return ret
}
