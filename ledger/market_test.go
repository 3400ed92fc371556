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
	"testing"

	"github.com/stretchr/testify/require"
)

// ===== Listing =====

func TestListShares(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Listed House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))

	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 5))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 20, 3))

	listings := ls.Listings()
	require.Len(t, listings, 2)
	require.Equal(t, Listing{
		PropertyId:    prop.Id,
		Seller:        "alice",
		Amount:        10,
		PricePerShare: 5,
	}, listings[0])
	require.Equal(t, uint64(20), listings[1].Amount)

	// Listing reserves nothing
	require.Equal(t, uint64(50), ls.Ownership(prop.Id, "alice"))
}

func TestListSharesInsufficientBalance(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Overlisted House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 5))

	err := ls.ListShares(prop.Id, "alice", 6, 1)
	var balanceErr *InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	require.Equal(t, uint64(5), balanceErr.Have)
	require.Equal(t, uint64(6), balanceErr.Want)
	require.Empty(t, ls.Listings())
}

// ===== Settlement =====

func TestBuySharesExactMatch(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Sold House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 5))

	require.NoError(t, ls.BuyShares(prop.Id, "alice", "carol", 10))
	require.Equal(t, uint64(40), ls.Ownership(prop.Id, "alice"))
	require.Equal(t, uint64(10), ls.Ownership(prop.Id, "carol"))
	// Exact-amount match removes the listing
	require.Empty(t, ls.Listings())
	requireConservation(t, ls)
}

func TestBuySharesPartialMatch(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Split Sale", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 30, 2))

	require.NoError(t, ls.BuyShares(prop.Id, "alice", "carol", 12))
	listings := ls.Listings()
	require.Len(t, listings, 1)
	require.Equal(t, uint64(18), listings[0].Amount)
	require.Equal(t, uint64(12), ls.Ownership(prop.Id, "carol"))
	requireConservation(t, ls)
}

func TestBuySharesFirstMatchByInsertion(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Queue House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))
	// Cheaper listing second: insertion order wins, not price
	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 9))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 1))

	require.NoError(t, ls.BuyShares(prop.Id, "alice", "carol", 10))
	listings := ls.Listings()
	require.Len(t, listings, 1)
	require.Equal(t, uint64(1), listings[0].PricePerShare)

	// A request too large for the first listing settles against the
	// first one that covers it
	require.NoError(t, ls.ListShares(prop.Id, "alice", 30, 4))
	require.NoError(t, ls.BuyShares(prop.Id, "alice", "carol", 20))
	listings = ls.Listings()
	require.Len(t, listings, 2)
	require.Equal(t, uint64(1), listings[0].PricePerShare)
	require.Equal(t, uint64(10), listings[1].Amount)
	requireConservation(t, ls)
}

func TestBuySharesNoListing(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Quiet Market", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 5, 1))

	// No listing covers the requested amount
	err := ls.BuyShares(prop.Id, "alice", "carol", 6)
	require.ErrorIs(t, err, ErrNotFound)
	var listingErr *ListingNotFoundError
	require.ErrorAs(t, err, &listingErr)
	require.Equal(t, prop.Id, listingErr.PropertyId)
	require.Equal(t, uint64(6), listingErr.Amount)

	// Wrong seller
	err = ls.BuyShares(prop.Id, "bob", "carol", 5)
	require.ErrorIs(t, err, ErrNotFound)

	require.Equal(t, uint64(0), ls.Ownership(prop.Id, "carol"))
	requireConservation(t, ls)
}

func TestBuySharesStaleListing(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Stale Market", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 10))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 5))

	// Seller moves the shares away after listing
	require.NoError(t, ls.TransferShares(prop.Id, "alice", "bob", 8))

	err := ls.BuyShares(prop.Id, "alice", "carol", 10)
	var balanceErr *InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	require.Equal(t, uint64(2), balanceErr.Have)
	require.Equal(t, uint64(10), balanceErr.Want)

	// The stale listing is deliberately left in place, unchanged
	listings := ls.Listings()
	require.Len(t, listings, 1)
	require.Equal(t, uint64(10), listings[0].Amount)
	require.Equal(t, uint64(0), ls.Ownership(prop.Id, "carol"))
	requireConservation(t, ls)
}

func TestBuySharesSelfPurchase(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Own Goal", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 20))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 20, 5))

	// Buying from yourself moves nothing but still consumes the listing
	require.NoError(t, ls.BuyShares(prop.Id, "alice", "alice", 20))
	require.Equal(t, uint64(20), ls.Ownership(prop.Id, "alice"))
	require.Empty(t, ls.Listings())
	requireConservation(t, ls)
}

// ===== Reads =====

func TestListingsCopyOut(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Copy Market", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))
	require.NoError(t, ls.ListShares(prop.Id, "alice", 10, 5))

	listings := ls.Listings()
	listings[0].Amount = 9999

	again := ls.Listings()
	require.Equal(t, uint64(10), again[0].Amount)

	emptyState := newTestLedger(t)
	require.Empty(t, emptyState.Listings())
}
