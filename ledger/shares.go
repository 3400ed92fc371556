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

// OwnershipRecord is one row of a holder's cross-property ownership
// statement.
type OwnershipRecord struct {
	PropertyId   PropertyId
	PropertyName string
	Shares       uint64
}

// holderBalance returns the holder's share balance, 0 for unknown pairs.
// Must be called with the state lock held.
func (ls *LedgerState) holderBalance(
	id PropertyId,
	holder authz.Identity,
) uint64 {
	return ls.balances[id][holder]
}

// creditShares adds to a holder's balance, creating the entry on first
// positive credit. Zero amounts create no entry. Must be called with the
// state write lock held.
func (ls *LedgerState) creditShares(
	id PropertyId,
	holder authz.Identity,
	amount uint64,
) {
	if amount == 0 {
		return
	}
	holders, ok := ls.balances[id]
	if !ok {
		holders = map[authz.Identity]uint64{}
		ls.balances[id] = holders
	}
	holders[holder] += amount
}

// debitShares subtracts from a holder's balance, deleting the entry at
// zero so absent and zero balances stay indistinguishable. The caller
// must have verified the balance covers amount. Must be called with the
// state write lock held.
func (ls *LedgerState) debitShares(
	id PropertyId,
	holder authz.Identity,
	amount uint64,
) {
	if amount == 0 {
		return
	}
	holders := ls.balances[id]
	holders[holder] -= amount
	if holders[holder] == 0 {
		delete(holders, holder)
	}
	if len(holders) == 0 {
		delete(ls.balances, id)
	}
}

// IssueShares moves unissued shares from the property's available pool
// into a holder's balance. This is the only path by which shares enter
// circulation, which is what preserves the conservation invariant.
func (ls *LedgerState) IssueShares(
	id PropertyId,
	to authz.Identity,
	amount uint64,
) error {
	ls.Lock()
	defer ls.Unlock()
	prop, ok := ls.properties[id]
	if !ok {
		return &PropertyNotFoundError{PropertyId: id}
	}
	if amount > prop.SharesAvailable {
		return &InsufficientSupplyError{
			PropertyId: id,
			Available:  prop.SharesAvailable,
			Want:       amount,
		}
	}
	prop.SharesAvailable -= amount
	ls.creditShares(id, to, amount)
	ls.logger.Debug(
		"issued shares",
		"component", "ledger",
		"property_id", id,
		"holder", to,
		"amount", amount,
	)
	ls.metrics.sharesInCirculation.Add(float64(amount))
	ls.eventBus.Publish(
		SharesIssuedEventType,
		event.NewEvent(
			SharesIssuedEventType,
			SharesIssuedEvent{PropertyId: id, Holder: to, Amount: amount},
		),
	)
	return nil
}

// TransferShares atomically debits from and credits to. A self-transfer
// within balance is a no-op success, not a balance doubling. There is no
// property existence check: an unknown property means a zero balance, so
// any positive amount fails with InsufficientBalance.
func (ls *LedgerState) TransferShares(
	id PropertyId,
	from authz.Identity,
	to authz.Identity,
	amount uint64,
) error {
	ls.Lock()
	defer ls.Unlock()
	return ls.transferShares(id, from, to, amount)
}

// transferShares implements TransferShares for callers already holding
// the state write lock, such as marketplace settlement.
func (ls *LedgerState) transferShares(
	id PropertyId,
	from authz.Identity,
	to authz.Identity,
	amount uint64,
) error {
	have := ls.holderBalance(id, from)
	if have < amount {
		return &InsufficientBalanceError{
			PropertyId: id,
			Holder:     from,
			Have:       have,
			Want:       amount,
		}
	}
	if from == to {
		return nil
	}
	ls.debitShares(id, from, amount)
	ls.creditShares(id, to, amount)
	ls.logger.Debug(
		"transferred shares",
		"component", "ledger",
		"property_id", id,
		"from", from,
		"to", to,
		"amount", amount,
	)
	ls.metrics.transfersTotal.Inc()
	ls.eventBus.Publish(
		SharesTransferredEventType,
		event.NewEvent(
			SharesTransferredEventType,
			SharesTransferredEvent{
				PropertyId: id,
				From:       from,
				To:         to,
				Amount:     amount,
			},
		),
	)
	return nil
}

// Ownership returns the holder's share balance, 0 for unknown pairs.
func (ls *LedgerState) Ownership(
	id PropertyId,
	holder authz.Identity,
) uint64 {
	ls.RLock()
	defer ls.RUnlock()
	return ls.holderBalance(id, holder)
}

// OwnershipStatement returns the holder's positive balances across all
// properties, ordered by property id.
func (ls *LedgerState) OwnershipStatement(
	holder authz.Identity,
) []OwnershipRecord {
	ls.RLock()
	defer ls.RUnlock()
	ret := []OwnershipRecord{}
	for id, holders := range ls.balances {
		amount := holders[holder]
		if amount == 0 {
			continue
		}
		record := OwnershipRecord{
			PropertyId: id,
			Shares:     amount,
		}
		if prop, ok := ls.properties[id]; ok {
			record.PropertyName = prop.Name
		}
		ret = append(ret, record)
	}
	slices.SortFunc(ret, func(a, b OwnershipRecord) int {
		return cmp.Compare(a.PropertyId, b.PropertyId)
	})
	return ret
}
