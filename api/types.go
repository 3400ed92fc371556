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

package api

import (
	"errors"
	"net/http"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/ledger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

type PropertyMetadataBody struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

type RegisterPropertyRequest struct {
	Name        string               `json:"name"`
	TotalShares uint64               `json:"total_shares"`
	Metadata    PropertyMetadataBody `json:"metadata"`
}

type PropertyResponse struct {
	Id              uint64               `json:"id"`
	Name            string               `json:"name"`
	TotalShares     uint64               `json:"total_shares"`
	SharesAvailable uint64               `json:"shares_available"`
	Metadata        PropertyMetadataBody `json:"metadata"`
	Status          string               `json:"status"`
}

func newPropertyResponse(prop ledger.Property) PropertyResponse {
	return PropertyResponse{
		Id:              uint64(prop.Id),
		Name:            prop.Name,
		TotalShares:     prop.TotalShares,
		SharesAvailable: prop.SharesAvailable,
		Metadata: PropertyMetadataBody{
			Location:    prop.Metadata.Location,
			Description: prop.Metadata.Description,
		},
		Status: string(prop.Status),
	}
}

type UpdateMetadataRequest struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type IssueSharesRequest struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

type TransferSharesRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type OwnershipResponse struct {
	PropertyId uint64 `json:"property_id"`
	Holder     string `json:"holder"`
	Shares     uint64 `json:"shares"`
}

type DepositIncomeRequest struct {
	Amount uint64 `json:"amount"`
}

type ClaimIncomeResponse struct {
	PropertyId uint64 `json:"property_id"`
	Holder     string `json:"holder"`
	Amount     uint64 `json:"amount"`
}

type UnclaimedIncomeResponse struct {
	PropertyId uint64 `json:"property_id"`
	Holder     string `json:"holder"`
	Unclaimed  uint64 `json:"unclaimed"`
}

type TotalIncomeResponse struct {
	PropertyId uint64 `json:"property_id"`
	Total      uint64 `json:"total"`
}

type CreateListingRequest struct {
	PropertyId    uint64 `json:"property_id"`
	Amount        uint64 `json:"amount"`
	PricePerShare uint64 `json:"price_per_share"`
}

type ListingResponse struct {
	PropertyId    uint64 `json:"property_id"`
	Seller        string `json:"seller"`
	Amount        uint64 `json:"amount"`
	PricePerShare uint64 `json:"price_per_share"`
}

func newListingResponse(listing ledger.Listing) ListingResponse {
	return ListingResponse{
		PropertyId:    uint64(listing.PropertyId),
		Seller:        string(listing.Seller),
		Amount:        listing.Amount,
		PricePerShare: listing.PricePerShare,
	}
}

type BuySharesRequest struct {
	PropertyId uint64 `json:"property_id"`
	Seller     string `json:"seller"`
	Amount     uint64 `json:"amount"`
}

type SubmitProposalRequest struct {
	PropertyId  uint64 `json:"property_id"`
	Description string `json:"description"`
}

type VoteRequest struct {
	Approve bool `json:"approve"`
}

type ProposalResponse struct {
	Id          uint64          `json:"id"`
	PropertyId  uint64          `json:"property_id"`
	Proposer    string          `json:"proposer"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	YesVotes    uint64          `json:"yes_votes"`
	NoVotes     uint64          `json:"no_votes"`
	Votes       map[string]bool `json:"votes"`
}

func newProposalResponse(prop ledger.Proposal) ProposalResponse {
	votes := make(map[string]bool, len(prop.Votes))
	for voter, approve := range prop.Votes {
		votes[string(voter)] = approve
	}
	return ProposalResponse{
		Id:          uint64(prop.Id),
		PropertyId:  uint64(prop.PropertyId),
		Proposer:    string(prop.Proposer),
		Description: prop.Description,
		Status:      string(prop.Status),
		YesVotes:    prop.YesVotes,
		NoVotes:     prop.NoVotes,
		Votes:       votes,
	}
}

type OwnershipRecordResponse struct {
	PropertyId   uint64 `json:"property_id"`
	PropertyName string `json:"property_name"`
	Shares       uint64 `json:"shares"`
}

type IncomeRecordResponse struct {
	PropertyId   uint64 `json:"property_id"`
	PropertyName string `json:"property_name"`
	Unclaimed    uint64 `json:"unclaimed"`
}

type BootstrapAdminRequest struct {
	Admin string `json:"admin"`
}

type RoleAssignmentResponse struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type SetKYCRequest struct {
	Verified bool `json:"verified"`
}

type KYCAssignmentResponse struct {
	Identity string `json:"identity"`
	Verified bool   `json:"verified"`
}

type MeResponse struct {
	Identity    string `json:"identity"`
	Role        string `json:"role"`
	KYCVerified bool   `json:"kyc_verified"`
}

// statusForError maps the core error taxonomy to HTTP status codes.
// Unknown errors map to 500 so core bugs surface as server faults
// rather than client faults.
func statusForError(err error) int {
	if errors.Is(err, ledger.ErrNotFound) {
		return http.StatusNotFound
	}
	var unauthorizedErr *authz.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return http.StatusForbidden
	}
	var alreadyBootstrappedErr *authz.AlreadyBootstrappedError
	if errors.As(err, &alreadyBootstrappedErr) {
		return http.StatusConflict
	}
	var insufficientBalanceErr *ledger.InsufficientBalanceError
	if errors.As(err, &insufficientBalanceErr) {
		return http.StatusConflict
	}
	var insufficientSupplyErr *ledger.InsufficientSupplyError
	if errors.As(err, &insufficientSupplyErr) {
		return http.StatusConflict
	}
	var notVotableErr *ledger.NotVotableError
	if errors.As(err, &notVotableErr) {
		return http.StatusConflict
	}
	var notExecutableErr *ledger.NotExecutableError
	if errors.As(err, &notExecutableErr) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
