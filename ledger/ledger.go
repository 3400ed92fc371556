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

// Package ledger implements the authoritative state machine for fractional
// property ownership: the property registry, per-holder share balances, the
// share marketplace, rental income distribution, and share-weighted
// governance.
package ledger

import (
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
)

// PropertyId uniquely identifies a registered property. Ids are assigned
// monotonically starting at 1; zero is never a valid id.
type PropertyId uint64

// ProposalId uniquely identifies a governance proposal. Ids are assigned
// monotonically starting at 1; zero is never a valid id.
type ProposalId uint64

type LedgerStateConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Gate         *authz.Gate
	PromRegistry prometheus.Registerer
}

// LedgerState owns all authoritative domain state. The conservation
// invariant and marketplace settlement span properties, balances, and
// listings, so everything lives in one struct behind one lock and every
// operation runs as an indivisible unit against it.
type LedgerState struct {
	sync.RWMutex
	config         LedgerStateConfig
	logger         *slog.Logger
	eventBus       *event.EventBus
	gate           *authz.Gate
	metrics        stateMetrics
	properties     map[PropertyId]*Property
	balances       map[PropertyId]map[authz.Identity]uint64
	listings       []*Listing
	incomeTotals   map[PropertyId]uint64
	entitlements   map[PropertyId]map[authz.Identity]uint64
	proposals      map[ProposalId]*Proposal
	nextPropertyId PropertyId
	nextProposalId ProposalId
}

func NewLedgerState(config LedgerStateConfig) *LedgerState {
	ls := &LedgerState{
		config:         config,
		eventBus:       config.EventBus,
		gate:           config.Gate,
		properties:     map[PropertyId]*Property{},
		balances:       map[PropertyId]map[authz.Identity]uint64{},
		incomeTotals:   map[PropertyId]uint64{},
		entitlements:   map[PropertyId]map[authz.Identity]uint64{},
		proposals:      map[ProposalId]*Proposal{},
		nextPropertyId: 1,
		nextProposalId: 1,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		ls.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		ls.logger = config.Logger
	}
	ls.metrics.init(config.PromRegistry)
	return ls
}
