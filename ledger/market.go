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
	"slices"

	"github.com/freehold-io/freehold/authz"
	"github.com/freehold-io/freehold/event"
)

// Listing is an open sell offer, kept in insertion order. A listing
// reserves nothing: the seller keeps full use of the shares and the
// balance is checked again at settlement. PricePerShare is informational;
// no payment mechanics exist.
type Listing struct {
	PropertyId    PropertyId
	Seller        authz.Identity
	Amount        uint64
	PricePerShare uint64
}

// ListShares places a sell offer. The balance check is advisory only:
// the seller can still transfer the listed shares away before a sale
// executes, so BuyShares re-validates the live balance.
func (ls *LedgerState) ListShares(
	id PropertyId,
	seller authz.Identity,
	amount uint64,
	pricePerShare uint64,
) error {
	ls.Lock()
	defer ls.Unlock()
	have := ls.holderBalance(id, seller)
	if have < amount {
		return &InsufficientBalanceError{
			PropertyId: id,
			Holder:     seller,
			Have:       have,
			Want:       amount,
		}
	}
	listing := &Listing{
		PropertyId:    id,
		Seller:        seller,
		Amount:        amount,
		PricePerShare: pricePerShare,
	}
	ls.listings = append(ls.listings, listing)
	ls.logger.Debug(
		"listed shares for sale",
		"component", "ledger",
		"property_id", id,
		"seller", seller,
		"amount", amount,
		"price_per_share", pricePerShare,
	)
	ls.metrics.listingsOpen.Inc()
	ls.eventBus.Publish(
		SharesListedEventType,
		event.NewEvent(
			SharesListedEventType,
			SharesListedEvent{Listing: *listing},
		),
	)
	return nil
}

// BuyShares settles against the first listing, in insertion order, that
// matches (property, seller) and covers amount. No price priority is
// applied. The seller's live balance is re-checked at settlement: on
// shortfall the buy fails with InsufficientBalance and the stale listing
// is deliberately left in place rather than purged. On success the
// shares move to the buyer and the listing shrinks; an exact-amount
// match removes it.
func (ls *LedgerState) BuyShares(
	id PropertyId,
	seller authz.Identity,
	buyer authz.Identity,
	amount uint64,
) error {
	ls.Lock()
	defer ls.Unlock()
	idx := -1
	for i, listing := range ls.listings {
		if listing.PropertyId == id &&
			listing.Seller == seller &&
			listing.Amount >= amount {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &ListingNotFoundError{
			PropertyId: id,
			Seller:     seller,
			Amount:     amount,
		}
	}
	listing := ls.listings[idx]
	if err := ls.transferShares(id, seller, buyer, amount); err != nil {
		return err
	}
	if listing.Amount == amount {
		ls.listings = slices.Delete(ls.listings, idx, idx+1)
		ls.metrics.listingsOpen.Dec()
	} else {
		listing.Amount -= amount
	}
	ls.logger.Debug(
		"settled share purchase",
		"component", "ledger",
		"property_id", id,
		"seller", seller,
		"buyer", buyer,
		"amount", amount,
		"price_per_share", listing.PricePerShare,
	)
	ls.metrics.tradesTotal.Inc()
	ls.eventBus.Publish(
		SharesSoldEventType,
		event.NewEvent(
			SharesSoldEventType,
			SharesSoldEvent{
				PropertyId:    id,
				Seller:        seller,
				Buyer:         buyer,
				Amount:        amount,
				PricePerShare: listing.PricePerShare,
			},
		),
	)
	return nil
}

// Listings returns copies of all open listings in insertion order.
func (ls *LedgerState) Listings() []Listing {
	ls.RLock()
	defer ls.RUnlock()
	ret := make([]Listing, 0, len(ls.listings))
	for _, listing := range ls.listings {
		ret = append(ret, *listing)
	}
	return ret
}
