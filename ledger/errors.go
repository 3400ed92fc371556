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
	"errors"
	"fmt"

	"github.com/freehold-io/freehold/authz"
)

// ErrNotFound matches every lookup failure in the package via errors.Is,
// regardless of which entity was missing.
var ErrNotFound = errors.New("not found")

// PropertyNotFoundError is returned when a referenced property id does
// not exist. Deposits treat a zero-share property the same way, since it
// can never receive a distribution.
type PropertyNotFoundError struct {
	PropertyId PropertyId
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property %d not found", e.PropertyId)
}

func (e *PropertyNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ListingNotFoundError is returned when no open listing for the
// (property, seller) pair covers the requested amount.
type ListingNotFoundError struct {
	PropertyId PropertyId
	Seller     authz.Identity
	Amount     uint64
}

func (e *ListingNotFoundError) Error() string {
	return fmt.Sprintf(
		"no open listing for property %d from seller %q covering %d share(s)",
		e.PropertyId,
		e.Seller,
		e.Amount,
	)
}

func (e *ListingNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ProposalNotFoundError is returned when a referenced proposal id does
// not exist.
type ProposalNotFoundError struct {
	ProposalId ProposalId
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("proposal %d not found", e.ProposalId)
}

func (e *ProposalNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InsufficientBalanceError is returned when a debit would exceed the
// holder's share balance. State is left untouched.
type InsufficientBalanceError struct {
	PropertyId PropertyId
	Holder     authz.Identity
	Have       uint64
	Want       uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"identity %q holds %d share(s) of property %d, wanted %d",
		e.Holder,
		e.Have,
		e.PropertyId,
		e.Want,
	)
}

// InsufficientSupplyError is returned when an issuance would exceed the
// property's unissued share pool.
type InsufficientSupplyError struct {
	PropertyId PropertyId
	Available  uint64
	Want       uint64
}

func (e *InsufficientSupplyError) Error() string {
	return fmt.Sprintf(
		"property %d has %d unissued share(s), wanted %d",
		e.PropertyId,
		e.Available,
		e.Want,
	)
}

// NotVotableError covers every vote precondition failure uniformly:
// unknown proposal, closed voting, a repeated vote, or zero voting
// weight.
type NotVotableError struct {
	ProposalId ProposalId
	Reason     string
}

func (e *NotVotableError) Error() string {
	return fmt.Sprintf("proposal %d is not votable: %s", e.ProposalId, e.Reason)
}

// NotExecutableError is returned when execution is attempted on a
// proposal that is unknown or no longer open.
type NotExecutableError struct {
	ProposalId ProposalId
}

func (e *NotExecutableError) Error() string {
	return fmt.Sprintf("proposal %d is not executable", e.ProposalId)
}
