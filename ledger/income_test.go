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

// ===== Deposits =====

func TestDepositRentalIncome(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Income House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 60))
	require.NoError(t, ls.IssueShares(prop.Id, "bob", 40))

	// 101 across a 60/40 split: 60 + 40 credited, 1 unit lost to
	// floor division
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 101))
	require.Equal(t, uint64(60), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(40), ls.UnclaimedIncome(prop.Id, "bob"))
	require.Equal(t, uint64(101), ls.TotalRentalIncome(prop.Id))
}

func TestDepositAccumulates(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Steady Earner", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 60))
	require.NoError(t, ls.IssueShares(prop.Id, "bob", 40))

	require.NoError(t, ls.DepositRentalIncome(prop.Id, 101))
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 101))
	require.Equal(t, uint64(120), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(80), ls.UnclaimedIncome(prop.Id, "bob"))
	require.Equal(t, uint64(202), ls.TotalRentalIncome(prop.Id))
}

func TestDepositUnknownProperty(t *testing.T) {
	ls := newTestLedger(t)
	err := ls.DepositRentalIncome(31, 100)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, uint64(0), ls.TotalRentalIncome(31))
}

func TestDepositZeroShareProperty(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Shareless", 0, PropertyMetadata{})

	// A zero-share property can never receive a distribution; the
	// failure must not bump the cumulative total
	err := ls.DepositRentalIncome(prop.Id, 100)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, uint64(0), ls.TotalRentalIncome(prop.Id))
}

func TestDepositRoundsDownToZero(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Tiny Yield", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 60))
	require.NoError(t, ls.IssueShares(prop.Id, "bob", 40))

	// 1 * 60 / 100 and 1 * 40 / 100 both floor to zero: the whole
	// deposit is lost, the total still advances, and no entitlement
	// entries materialize
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 1))
	require.Equal(t, uint64(0), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(0), ls.UnclaimedIncome(prop.Id, "bob"))
	require.Equal(t, uint64(1), ls.TotalRentalIncome(prop.Id))
	ls.RLock()
	_, exists := ls.entitlements[prop.Id]
	ls.RUnlock()
	require.False(t, exists)
}

func TestDepositSkipsUnissuedShares(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Half Issued", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 50))

	// Unissued shares earn nothing: half the deposit is lost
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 100))
	require.Equal(t, uint64(50), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(100), ls.TotalRentalIncome(prop.Id))
}

// ===== Claims =====

func TestClaimIncomeIdempotent(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Claim House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 100))
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 75))

	require.Equal(t, uint64(75), ls.ClaimIncome(prop.Id, "alice"))
	require.Equal(t, uint64(0), ls.ClaimIncome(prop.Id, "alice"))
	require.Equal(t, uint64(0), ls.UnclaimedIncome(prop.Id, "alice"))

	// A later deposit starts a fresh entitlement
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 10))
	require.Equal(t, uint64(10), ls.ClaimIncome(prop.Id, "alice"))
}

func TestClaimIncomeWithoutEntitlement(t *testing.T) {
	ls := newTestLedger(t)
	require.Equal(t, uint64(0), ls.ClaimIncome(55, "nobody"))
}

func TestEntitlementSnapshotAtDeposit(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Snapshot House", 100, PropertyMetadata{})
	require.NoError(t, ls.IssueShares(prop.Id, "alice", 100))
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 50))

	// Selling every share afterwards does not claw back the entitlement
	require.NoError(t, ls.TransferShares(prop.Id, "alice", "bob", 100))
	require.Equal(t, uint64(50), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(0), ls.UnclaimedIncome(prop.Id, "bob"))

	// And the next deposit follows the new ownership
	require.NoError(t, ls.DepositRentalIncome(prop.Id, 30))
	require.Equal(t, uint64(50), ls.UnclaimedIncome(prop.Id, "alice"))
	require.Equal(t, uint64(30), ls.UnclaimedIncome(prop.Id, "bob"))
}

// ===== Statements =====

func TestRentalIncomeStatement(t *testing.T) {
	ls := newTestLedger(t)
	first := ls.RegisterProperty("First Earner", 10, PropertyMetadata{})
	second := ls.RegisterProperty("Second Earner", 10, PropertyMetadata{})

	require.NoError(t, ls.IssueShares(first.Id, "alice", 10))
	require.NoError(t, ls.IssueShares(second.Id, "alice", 5))
	require.NoError(t, ls.IssueShares(second.Id, "bob", 5))

	require.NoError(t, ls.DepositRentalIncome(first.Id, 40))
	require.NoError(t, ls.DepositRentalIncome(second.Id, 20))

	statement := ls.RentalIncomeStatement("alice")
	require.Len(t, statement, 2)
	require.Equal(t, RentalIncomeRecord{
		PropertyId:   first.Id,
		PropertyName: "First Earner",
		Unclaimed:    40,
	}, statement[0])
	require.Equal(t, RentalIncomeRecord{
		PropertyId:   second.Id,
		PropertyName: "Second Earner",
		Unclaimed:    10,
	}, statement[1])

	// Claimed entitlements drop out of the statement
	ls.ClaimIncome(first.Id, "alice")
	statement = ls.RentalIncomeStatement("alice")
	require.Len(t, statement, 1)
	require.Equal(t, second.Id, statement[0].PropertyId)

	require.Empty(t, ls.RentalIncomeStatement("nobody"))
}
