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

// Package api implements the JSON REST facade over the ledger state
// machine and the authorization gate. The facade owns transport concerns
// only: it extracts the caller identity supplied by the deployment
// boundary, deserializes requests, and maps the core error taxonomy to
// HTTP status codes. It never touches domain state except through the
// core operation APIs.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/ledger"
)

// identityHeader carries the authenticated caller identity. It is set by
// the reverse proxy at the deployment boundary; the facade trusts it as-is.
const identityHeader = "X-Forwarded-User"

type ApiConfig struct {
	Logger        *slog.Logger
	LedgerState   *ledger.LedgerState
	Gate          *authz.Gate
	ListenAddress string
}

// Api is the HTTP/JSON API server.
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	ledger     *ledger.LedgerState
	gate       *authz.Gate
	tracer     trace.Tracer
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(cfg ApiConfig) *Api {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8090"
	}
	return &Api{
		config: cfg,
		logger: cfg.Logger.With("component", "api"),
		ledger: cfg.LedgerState,
		gate:   cfg.Gate,
		tracer: otel.Tracer("github.com/freehold-io/freehold/api"),
	}
}

// router builds the route table. Patterns are method-qualified so the
// mux rejects wrong-method requests before they reach a handler.
func (a *Api) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	// Property registry
	mux.HandleFunc(
		"POST /api/v1/properties",
		a.withSpan("RegisterProperty", a.handleRegisterProperty),
	)
	mux.HandleFunc(
		"GET /api/v1/properties",
		a.withSpan("Properties", a.handleProperties),
	)
	mux.HandleFunc(
		"GET /api/v1/properties/{id}",
		a.withSpan("Property", a.handleProperty),
	)
	mux.HandleFunc(
		"PUT /api/v1/properties/{id}/metadata",
		a.withSpan("UpdatePropertyMetadata", a.handleUpdatePropertyMetadata),
	)
	mux.HandleFunc(
		"PUT /api/v1/properties/{id}/status",
		a.withSpan("UpdatePropertyStatus", a.handleUpdatePropertyStatus),
	)
	// Ownership ledger
	mux.HandleFunc(
		"POST /api/v1/properties/{id}/shares/issue",
		a.withSpan("IssueShares", a.handleIssueShares),
	)
	mux.HandleFunc(
		"POST /api/v1/properties/{id}/shares/transfer",
		a.withSpan("TransferShares", a.handleTransferShares),
	)
	mux.HandleFunc(
		"GET /api/v1/properties/{id}/shares/{holder}",
		a.withSpan("Ownership", a.handleOwnership),
	)
	// Income distribution
	mux.HandleFunc(
		"POST /api/v1/properties/{id}/income/deposits",
		a.withSpan("DepositRentalIncome", a.handleDepositIncome),
	)
	mux.HandleFunc(
		"POST /api/v1/properties/{id}/income/claim",
		a.withSpan("ClaimIncome", a.handleClaimIncome),
	)
	mux.HandleFunc(
		"GET /api/v1/properties/{id}/income/unclaimed/{holder}",
		a.withSpan("UnclaimedIncome", a.handleUnclaimedIncome),
	)
	mux.HandleFunc(
		"GET /api/v1/properties/{id}/income/total",
		a.withSpan("TotalRentalIncome", a.handleTotalIncome),
	)
	// Marketplace
	mux.HandleFunc(
		"POST /api/v1/marketplace/listings",
		a.withSpan("ListShares", a.handleCreateListing),
	)
	mux.HandleFunc(
		"GET /api/v1/marketplace/listings",
		a.withSpan("Listings", a.handleListings),
	)
	mux.HandleFunc(
		"POST /api/v1/marketplace/buy",
		a.withSpan("BuyShares", a.handleBuyShares),
	)
	// Governance
	mux.HandleFunc(
		"POST /api/v1/proposals",
		a.withSpan("SubmitProposal", a.handleSubmitProposal),
	)
	mux.HandleFunc(
		"GET /api/v1/proposals",
		a.withSpan("Proposals", a.handleProposals),
	)
	mux.HandleFunc(
		"GET /api/v1/proposals/{id}",
		a.withSpan("Proposal", a.handleProposal),
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/votes",
		a.withSpan("VoteOnProposal", a.handleVote),
	)
	mux.HandleFunc(
		"POST /api/v1/proposals/{id}/execute",
		a.withSpan("ExecuteProposal", a.handleExecuteProposal),
	)
	// Statements
	mux.HandleFunc(
		"GET /api/v1/statements/ownership/{holder}",
		a.withSpan("OwnershipStatement", a.handleOwnershipStatement),
	)
	mux.HandleFunc(
		"GET /api/v1/statements/income/{holder}",
		a.withSpan("RentalIncomeStatement", a.handleIncomeStatement),
	)
	// Authorization gate
	mux.HandleFunc(
		"POST /api/v1/admin/bootstrap",
		a.withSpan("BootstrapAdmin", a.handleBootstrapAdmin),
	)
	mux.HandleFunc(
		"PUT /api/v1/admin/roles/{user}",
		a.withSpan("SetRole", a.handleSetRole),
	)
	mux.HandleFunc(
		"PUT /api/v1/admin/kyc/{user}",
		a.withSpan("SetKYC", a.handleSetKYC),
	)
	mux.HandleFunc(
		"GET /api/v1/me",
		a.withSpan("Me", a.handleMe),
	)
	return mux
}

// withSpan wraps a handler in a trace span named after the core
// operation it invokes.
func (a *Api) withSpan(
	operation string,
	handler http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := a.tracer.Start(r.Context(), operation)
		defer span.End()
		handler(w, r.WithContext(ctx))
	}
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.router(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error detection.
// It binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
