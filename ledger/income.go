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
	"slices"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
)

// RentalIncomeRecord is one row of a holder's cross-property unclaimed
// income statement.
type RentalIncomeRecord struct {
	PropertyId   PropertyId
	PropertyName string
	Unclaimed    uint64
}

// creditEntitlement adds unclaimed income for a holder, creating the
// entry on first positive credit. Must be called with the state write
// lock held.
func (ls *LedgerState) creditEntitlement(
	id PropertyId,
	holder authz.Identity,
	amount uint64,
) {
	holders, ok := ls.entitlements[id]
	if !ok {
		holders = map[authz.Identity]uint64{}
		ls.entitlements[id] = holders
	}
	holders[holder] += amount
}

// DepositRentalIncome adds amount to the property's cumulative income
// total and credits every current holder with
// amount * balance / totalShares using floor division. The truncation
// remainder, at most totalShares-1 units per deposit, is neither
// distributed nor tracked. Entitlements are fixed at deposit time from
// the current ownership snapshot; later ownership changes never adjust
// them. A property with zero total shares can never receive a
// distribution and reports NotFound, checked before any mutation.
func (ls *LedgerState) DepositRentalIncome(
	id PropertyId,
	amount uint64,
) error {
	ls.Lock()
	defer ls.Unlock()
	prop, ok := ls.properties[id]
	if !ok || prop.TotalShares == 0 {
		return &PropertyNotFoundError{PropertyId: id}
	}
	ls.incomeTotals[id] += amount
	var distributed uint64
	for holder, balance := range ls.balances[id] {
		share := amount * balance / prop.TotalShares
		if share == 0 {
			continue
		}
		ls.creditEntitlement(id, holder, share)
		distributed += share
	}
	ls.logger.Debug(
		"deposited rental income",
		"component", "ledger",
		"property_id", id,
		"amount", amount,
		"distributed", distributed,
	)
	ls.metrics.incomeDepositedTotal.Add(float64(amount))
	ls.eventBus.Publish(
		IncomeDepositedEventType,
		event.NewEvent(
			IncomeDepositedEventType,
			IncomeDepositedEvent{
				PropertyId:  id,
				Amount:      amount,
				Distributed: distributed,
			},
		),
	)
	return nil
}

// ClaimIncome atomically removes and returns the holder's unclaimed
// entitlement, 0 when there is none. A repeat claim with no intervening
// deposit returns 0.
func (ls *LedgerState) ClaimIncome(
	id PropertyId,
	holder authz.Identity,
) uint64 {
	ls.Lock()
	defer ls.Unlock()
	holders := ls.entitlements[id]
	amount := holders[holder]
	if amount == 0 {
		return 0
	}
	delete(holders, holder)
	if len(holders) == 0 {
		delete(ls.entitlements, id)
	}
	ls.logger.Debug(
		"claimed rental income",
		"component", "ledger",
		"property_id", id,
		"holder", holder,
		"amount", amount,
	)
	ls.metrics.incomeClaimedTotal.Add(float64(amount))
	ls.eventBus.Publish(
		IncomeClaimedEventType,
		event.NewEvent(
			IncomeClaimedEventType,
			IncomeClaimedEvent{
				PropertyId: id,
				Holder:     holder,
				Amount:     amount,
			},
		),
	)
	return amount
}

// UnclaimedIncome returns the holder's unclaimed entitlement, 0 for
// unknown pairs.
func (ls *LedgerState) UnclaimedIncome(
	id PropertyId,
	holder authz.Identity,
) uint64 {
	ls.RLock()
	defer ls.RUnlock()
	return ls.entitlements[id][holder]
}

// TotalRentalIncome returns the property's cumulative deposited income.
// The total is informational and never decreases.
func (ls *LedgerState) TotalRentalIncome(id PropertyId) uint64 {
	ls.RLock()
	defer ls.RUnlock()
	return ls.incomeTotals[id]
}

// RentalIncomeStatement returns the holder's positive unclaimed
// entitlements across all properties, ordered by property id.
func (ls *LedgerState) RentalIncomeStatement(
	holder authz.Identity,
) []RentalIncomeRecord {
	ls.RLock()
	defer ls.RUnlock()
	ret := []RentalIncomeRecord{}
	for id, holders := range ls.entitlements {
		amount := holders[holder]
		if amount == 0 {
			continue
		}
		record := RentalIncomeRecord{
			PropertyId: id,
			Unclaimed:  amount,
		}
		if prop, ok := ls.properties[id]; ok {
			record.PropertyName = prop.Name
		}
		ret = append(ret, record)
	}
	slices.SortFunc(ret, func(a, b RentalIncomeRecord) int {
		return cmp.Compare(a.PropertyId, b.PropertyId)
	})
	return ret
}
