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

package freehold

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/freehold-io/freehold/api"
	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
	"github.com/freehold-io/freehold/ledger"
)

type Node struct {
	eventBus      *event.EventBus
	gate          *authz.Gate
	ledgerState   *ledger.LedgerState
	api           *api.Api
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

// New builds the node's component graph. Everything is in-memory, so
// construction cannot fail beyond configuration validation; Run starts
// the listeners.
func New(cfg Config) (*Node, error) {
	n := &Node{
		config: cfg,
		done:   make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	n.eventBus = event.NewEventBus(cfg.promRegistry, cfg.logger)
	n.gate = authz.NewGate(authz.GateConfig{
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
	})
	n.ledgerState = ledger.NewLedgerState(
		ledger.LedgerStateConfig{
			Logger:       cfg.logger,
			EventBus:     n.eventBus,
			Gate:         n.gate,
			PromRegistry: cfg.promRegistry,
		},
	)
	n.api = api.New(
		api.ApiConfig{
			Logger:        cfg.logger,
			LedgerState:   n.ledgerState,
			Gate:          n.gate,
			ListenAddress: cfg.apiListenAddress,
		},
	)
	return n, nil
}

func (n *Node) Run(ctx context.Context) error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Bootstrap the authorization gate
	bootstrapAdmin := n.config.bootstrapAdmin
	if bootstrapAdmin == "" && n.config.isDevMode() {
		// Dev mode runs with a pre-bootstrapped admin so local clients
		// can exercise admin operations immediately
		bootstrapAdmin = devModeAdmin
	}
	if bootstrapAdmin != "" {
		err := n.gate.BootstrapAdmin(authz.Identity(bootstrapAdmin))
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}
	// Subscribe to proposal execution events
	n.eventBus.SubscribeFunc(
		ledger.ProposalExecutedEventType,
		n.handleProposalExecutedEvent,
	)
	// Start the JSON API
	if err := n.api.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

// handleProposalExecutedEvent records the outcome of executed proposals.
// The status transition is the ledger's only execution effect; operators
// subscribe their own handlers for anything beyond the log entry.
func (n *Node) handleProposalExecutedEvent(evt event.Event) {
	e, ok := evt.Data.(ledger.ProposalExecutedEvent)
	if !ok {
		return
	}
	n.config.logger.Info(
		"proposal executed",
		"component", "node",
		"proposal_id", e.ProposalId,
		"property_id", e.PropertyId,
		"approved", e.Approved,
		"yes_votes", e.YesVotes,
		"no_votes", e.NoVotes,
	)
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: Cleanup resources
	n.config.logger.Debug("shutdown phase 2: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
