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
	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
)

const (
	PropertyRegisteredEventType event.EventType = "ledger.property.registered"
	PropertyUpdatedEventType    event.EventType = "ledger.property.updated"
	SharesIssuedEventType       event.EventType = "ledger.shares.issued"
	SharesTransferredEventType  event.EventType = "ledger.shares.transferred"
	SharesListedEventType       event.EventType = "ledger.shares.listed"
	SharesSoldEventType         event.EventType = "ledger.shares.sold"
	IncomeDepositedEventType    event.EventType = "ledger.income.deposited"
	IncomeClaimedEventType      event.EventType = "ledger.income.claimed"
	ProposalSubmittedEventType  event.EventType = "ledger.proposal.submitted"
	VoteCastEventType           event.EventType = "ledger.proposal.voted"
	ProposalExecutedEventType   event.EventType = "ledger.proposal.executed"
)

// PropertyRegisteredEvent carries a copy of the newly created property.
type PropertyRegisteredEvent struct {
	Property Property
}

// PropertyUpdatedEvent is emitted after a metadata or status edit. Field
// names which of the two was replaced.
type PropertyUpdatedEvent struct {
	Property Property
	Field    string
}

// SharesIssuedEvent is emitted when shares move from a property's
// unissued pool into circulation.
type SharesIssuedEvent struct {
	PropertyId PropertyId
	Holder     authz.Identity
	Amount     uint64
}

// SharesTransferredEvent is emitted on every settled balance movement,
// whether direct or via a marketplace sale. Self-transfers move nothing
// and emit nothing.
type SharesTransferredEvent struct {
	PropertyId PropertyId
	From       authz.Identity
	To         authz.Identity
	Amount     uint64
}

// SharesListedEvent carries a copy of the new marketplace listing.
type SharesListedEvent struct {
	Listing Listing
}

// SharesSoldEvent is emitted when a marketplace purchase settles.
type SharesSoldEvent struct {
	PropertyId    PropertyId
	Seller        authz.Identity
	Buyer         authz.Identity
	Amount        uint64
	PricePerShare uint64
}

// IncomeDepositedEvent is emitted after a rental income deposit.
// Distributed is the sum actually credited to holders; the difference
// from Amount is the floor-division loss.
type IncomeDepositedEvent struct {
	PropertyId  PropertyId
	Amount      uint64
	Distributed uint64
}

// IncomeClaimedEvent is emitted when a holder claims a positive
// entitlement.
type IncomeClaimedEvent struct {
	PropertyId PropertyId
	Holder     authz.Identity
	Amount     uint64
}

// ProposalSubmittedEvent carries a copy of the newly opened proposal.
type ProposalSubmittedEvent struct {
	Proposal Proposal
}

// VoteCastEvent is emitted when a vote is recorded. Weight is the
// voter's balance captured at vote time.
type VoteCastEvent struct {
	ProposalId ProposalId
	Voter      authz.Identity
	Approve    bool
	Weight     uint64
}

// ProposalExecutedEvent is emitted when an open proposal reaches its
// terminal status. It is the extension point for execution side effects:
// the status transition is the ledger's only action, and subscribers
// decide what an approved proposal should do.
type ProposalExecutedEvent struct {
	ProposalId ProposalId
	PropertyId PropertyId
	Approved   bool
	YesVotes   uint64
	NoVotes    uint64
}
