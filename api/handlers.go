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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/ledger"
)

const apiVersion = "v1"

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeOperationError maps a core error onto its HTTP status code and
// writes it as a JSON error response
func writeOperationError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

// decodeJSON decodes the request body into dst. On failure it writes a
// 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// callerIdentity extracts the caller identity from the identity header.
// When the header is absent it writes a 401 response and returns false.
func (a *Api) callerIdentity(
	w http.ResponseWriter,
	r *http.Request,
) (authz.Identity, bool) {
	identity := r.Header.Get(identityHeader)
	if identity == "" {
		writeError(
			w,
			http.StatusUnauthorized,
			"missing caller identity",
		)
		return "", false
	}
	return authz.Identity(identity), true
}

// propertyIdParam parses the {id} path segment as a property id. On
// failure it writes a 400 response and returns false.
func propertyIdParam(
	w http.ResponseWriter,
	r *http.Request,
) (ledger.PropertyId, bool) {
	raw, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed property id")
		return 0, false
	}
	return ledger.PropertyId(raw), true
}

// proposalIdParam parses the {id} path segment as a proposal id. On
// failure it writes a 400 response and returns false.
func proposalIdParam(
	w http.ResponseWriter,
	r *http.Request,
) (ledger.ProposalId, bool) {
	raw, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed proposal id")
		return 0, false
	}
	return ledger.ProposalId(raw), true
}

func (a *Api) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(
		w,
		http.StatusOK,
		RootResponse{
			Name:    "freehold",
			Version: apiVersion,
		},
	)
}

func (a *Api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(
		w,
		http.StatusOK,
		HealthResponse{IsHealthy: true},
	)
}

// ===== Property registry =====

func (a *Api) handleRegisterProperty(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req RegisterPropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prop := a.ledger.RegisterProperty(
		req.Name,
		req.TotalShares,
		ledger.PropertyMetadata{
			Location:    req.Metadata.Location,
			Description: req.Metadata.Description,
		},
	)
	writeJSON(w, http.StatusCreated, newPropertyResponse(prop))
}

func (a *Api) handleProperties(w http.ResponseWriter, r *http.Request) {
	props := a.ledger.Properties()
	ret := make([]PropertyResponse, 0, len(props))
	for _, prop := range props {
		ret = append(ret, newPropertyResponse(prop))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	prop, err := a.ledger.Property(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(prop))
}

func (a *Api) handleUpdatePropertyMetadata(
	w http.ResponseWriter,
	r *http.Request,
) {
	actor, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	var req UpdateMetadataRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := a.ledger.UpdatePropertyMetadata(
		id,
		ledger.PropertyMetadata{
			Location:    req.Location,
			Description: req.Description,
		},
		actor,
	)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	prop, err := a.ledger.Property(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(prop))
}

func (a *Api) handleUpdatePropertyStatus(
	w http.ResponseWriter,
	r *http.Request,
) {
	actor, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := ledger.PropertyStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid property status")
		return
	}
	if err := a.ledger.UpdatePropertyStatus(id, status, actor); err != nil {
		writeOperationError(w, err)
		return
	}
	prop, err := a.ledger.Property(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPropertyResponse(prop))
}

// ===== Ownership ledger =====

func (a *Api) handleIssueShares(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	var req IssueSharesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Holder == "" {
		writeError(w, http.StatusBadRequest, "missing holder identity")
		return
	}
	holder := authz.Identity(req.Holder)
	if err := a.ledger.IssueShares(id, holder, req.Amount); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		OwnershipResponse{
			PropertyId: uint64(id),
			Holder:     req.Holder,
			Shares:     a.ledger.Ownership(id, holder),
		},
	)
}

func (a *Api) handleTransferShares(
	w http.ResponseWriter,
	r *http.Request,
) {
	from, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	var req TransferSharesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "missing recipient identity")
		return
	}
	err := a.ledger.TransferShares(
		id,
		from,
		authz.Identity(req.To),
		req.Amount,
	)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		OwnershipResponse{
			PropertyId: uint64(id),
			Holder:     string(from),
			Shares:     a.ledger.Ownership(id, from),
		},
	)
}

func (a *Api) handleOwnership(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	holder := authz.Identity(r.PathValue("holder"))
	writeJSON(
		w,
		http.StatusOK,
		OwnershipResponse{
			PropertyId: uint64(id),
			Holder:     string(holder),
			Shares:     a.ledger.Ownership(id, holder),
		},
	)
}

// ===== Rental income =====

func (a *Api) handleDepositIncome(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	var req DepositIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.ledger.DepositRentalIncome(id, req.Amount); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		TotalIncomeResponse{
			PropertyId: uint64(id),
			Total:      a.ledger.TotalRentalIncome(id),
		},
	)
}

func (a *Api) handleClaimIncome(w http.ResponseWriter, r *http.Request) {
	holder, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	amount := a.ledger.ClaimIncome(id, holder)
	writeJSON(
		w,
		http.StatusOK,
		ClaimIncomeResponse{
			PropertyId: uint64(id),
			Holder:     string(holder),
			Amount:     amount,
		},
	)
}

func (a *Api) handleUnclaimedIncome(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	holder := authz.Identity(r.PathValue("holder"))
	writeJSON(
		w,
		http.StatusOK,
		UnclaimedIncomeResponse{
			PropertyId: uint64(id),
			Holder:     string(holder),
			Unclaimed:  a.ledger.UnclaimedIncome(id, holder),
		},
	)
}

func (a *Api) handleTotalIncome(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyIdParam(w, r)
	if !ok {
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		TotalIncomeResponse{
			PropertyId: uint64(id),
			Total:      a.ledger.TotalRentalIncome(id),
		},
	)
}

// ===== Marketplace =====

func (a *Api) handleCreateListing(
	w http.ResponseWriter,
	r *http.Request,
) {
	seller, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	var req CreateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := a.ledger.ListShares(
		ledger.PropertyId(req.PropertyId),
		seller,
		req.Amount,
		req.PricePerShare,
	)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusCreated,
		ListingResponse{
			PropertyId:    req.PropertyId,
			Seller:        string(seller),
			Amount:        req.Amount,
			PricePerShare: req.PricePerShare,
		},
	)
}

func (a *Api) handleListings(w http.ResponseWriter, r *http.Request) {
	listings := a.ledger.Listings()
	ret := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		ret = append(ret, newListingResponse(listing))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleBuyShares(w http.ResponseWriter, r *http.Request) {
	buyer, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	var req BuySharesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Seller == "" {
		writeError(w, http.StatusBadRequest, "missing seller identity")
		return
	}
	id := ledger.PropertyId(req.PropertyId)
	err := a.ledger.BuyShares(
		id,
		authz.Identity(req.Seller),
		buyer,
		req.Amount,
	)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		OwnershipResponse{
			PropertyId: req.PropertyId,
			Holder:     string(buyer),
			Shares:     a.ledger.Ownership(id, buyer),
		},
	)
}

// ===== Governance =====

func (a *Api) handleSubmitProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposer, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	var req SubmitProposalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prop := a.ledger.SubmitProposal(
		ledger.PropertyId(req.PropertyId),
		req.Description,
		proposer,
	)
	writeJSON(w, http.StatusCreated, newProposalResponse(prop))
}

func (a *Api) handleProposals(w http.ResponseWriter, r *http.Request) {
	rawId := r.URL.Query().Get("property")
	if rawId == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"missing property query parameter",
		)
		return
	}
	id, err := strconv.ParseUint(rawId, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed property id")
		return
	}
	proposals := a.ledger.Proposals(ledger.PropertyId(id))
	ret := make([]ProposalResponse, 0, len(proposals))
	for _, prop := range proposals {
		ret = append(ret, newProposalResponse(prop))
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIdParam(w, r)
	if !ok {
		return
	}
	prop, err := a.ledger.Proposal(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProposalResponse(prop))
}

func (a *Api) handleVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := proposalIdParam(w, r)
	if !ok {
		return
	}
	var req VoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.ledger.VoteOnProposal(id, voter, req.Approve); err != nil {
		writeOperationError(w, err)
		return
	}
	prop, err := a.ledger.Proposal(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProposalResponse(prop))
}

func (a *Api) handleExecuteProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, ok := proposalIdParam(w, r)
	if !ok {
		return
	}
	if err := a.ledger.ExecuteProposal(id); err != nil {
		writeOperationError(w, err)
		return
	}
	prop, err := a.ledger.Proposal(id)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProposalResponse(prop))
}

// ===== Statements =====

func (a *Api) handleOwnershipStatement(
	w http.ResponseWriter,
	r *http.Request,
) {
	holder := authz.Identity(r.PathValue("holder"))
	records := a.ledger.OwnershipStatement(holder)
	ret := make([]OwnershipRecordResponse, 0, len(records))
	for _, record := range records {
		ret = append(
			ret,
			OwnershipRecordResponse{
				PropertyId:   uint64(record.PropertyId),
				PropertyName: record.PropertyName,
				Shares:       record.Shares,
			},
		)
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *Api) handleIncomeStatement(
	w http.ResponseWriter,
	r *http.Request,
) {
	holder := authz.Identity(r.PathValue("holder"))
	records := a.ledger.RentalIncomeStatement(holder)
	ret := make([]IncomeRecordResponse, 0, len(records))
	for _, record := range records {
		ret = append(
			ret,
			IncomeRecordResponse{
				PropertyId:   uint64(record.PropertyId),
				PropertyName: record.PropertyName,
				Unclaimed:    record.Unclaimed,
			},
		)
	}
	writeJSON(w, http.StatusOK, ret)
}

// ===== Authorization gate =====

func (a *Api) handleBootstrapAdmin(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req BootstrapAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Admin == "" {
		writeError(w, http.StatusBadRequest, "missing admin identity")
		return
	}
	if err := a.gate.BootstrapAdmin(authz.Identity(req.Admin)); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		RoleAssignmentResponse{
			Identity: req.Admin,
			Role:     string(authz.RoleAdmin),
		},
	)
}

func (a *Api) handleSetRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	user := r.PathValue("user")
	var req SetRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role := authz.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := a.gate.SetRole(authz.Identity(user), role, actor); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		RoleAssignmentResponse{
			Identity: user,
			Role:     req.Role,
		},
	)
}

func (a *Api) handleSetKYC(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	user := r.PathValue("user")
	var req SetKYCRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := a.gate.SetKYC(authz.Identity(user), req.Verified, actor)
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		KYCAssignmentResponse{
			Identity: user,
			Verified: req.Verified,
		},
	)
}

func (a *Api) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.callerIdentity(w, r)
	if !ok {
		return
	}
	writeJSON(
		w,
		http.StatusOK,
		MeResponse{
			Identity:    string(caller),
			Role:        string(a.gate.RoleOf(caller)),
			KYCVerified: a.gate.KYCOf(caller),
		},
	)
}
