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

type PropertyStatus string

const (
	PropertyStatusActive      PropertyStatus = "Active"
	PropertyStatusMaintenance PropertyStatus = "Maintenance"
	PropertyStatusSold        PropertyStatus = "Sold"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusActive, PropertyStatusMaintenance, PropertyStatusSold:
		return true
	}
	return false
}

// PropertyMetadata carries the mutable descriptive fields of a property.
// No invariant depends on them.
type PropertyMetadata struct {
	Location    string
	Description string
}

// Property is a registered property. TotalShares is fixed at creation;
// SharesAvailable is the unissued remainder and always satisfies
// 0 <= SharesAvailable <= TotalShares. Properties are never deleted.
type Property struct {
	Id              PropertyId
	Name            string
	TotalShares     uint64
	SharesAvailable uint64
	Metadata        PropertyMetadata
	Status          PropertyStatus
}

// RegisterProperty creates a property with all shares unissued and status
// Active. Registration is open to any caller and always succeeds; a zero
// TotalShares is degenerate but legal.
func (ls *LedgerState) RegisterProperty(
	name string,
	totalShares uint64,
	metadata PropertyMetadata,
) Property {
	ls.Lock()
	defer ls.Unlock()
	prop := &Property{
		Id:              ls.nextPropertyId,
		Name:            name,
		TotalShares:     totalShares,
		SharesAvailable: totalShares,
		Metadata:        metadata,
		Status:          PropertyStatusActive,
	}
	ls.nextPropertyId++
	ls.properties[prop.Id] = prop
	ls.logger.Info(
		"registered property",
		"component", "ledger",
		"property_id", prop.Id,
		"name", prop.Name,
		"total_shares", prop.TotalShares,
	)
	ls.metrics.properties.Inc()
	ls.eventBus.Publish(
		PropertyRegisteredEventType,
		event.NewEvent(
			PropertyRegisteredEventType,
			PropertyRegisteredEvent{Property: *prop},
		),
	)
	return *prop
}

// UpdatePropertyMetadata replaces a property's metadata in place. The
// actor must hold the Admin role.
func (ls *LedgerState) UpdatePropertyMetadata(
	id PropertyId,
	metadata PropertyMetadata,
	actor authz.Identity,
) error {
	if err := ls.gate.RequireAdmin(actor); err != nil {
		return err
	}
	ls.Lock()
	defer ls.Unlock()
	prop, ok := ls.properties[id]
	if !ok {
		return &PropertyNotFoundError{PropertyId: id}
	}
	prop.Metadata = metadata
	ls.logger.Debug(
		"updated property metadata",
		"component", "ledger",
		"property_id", id,
		"actor", actor,
	)
	ls.eventBus.Publish(
		PropertyUpdatedEventType,
		event.NewEvent(
			PropertyUpdatedEventType,
			PropertyUpdatedEvent{Property: *prop, Field: "metadata"},
		),
	)
	return nil
}

// UpdatePropertyStatus replaces a property's status in place. The actor
// must hold the Admin role.
func (ls *LedgerState) UpdatePropertyStatus(
	id PropertyId,
	status PropertyStatus,
	actor authz.Identity,
) error {
	if err := ls.gate.RequireAdmin(actor); err != nil {
		return err
	}
	ls.Lock()
	defer ls.Unlock()
	prop, ok := ls.properties[id]
	if !ok {
		return &PropertyNotFoundError{PropertyId: id}
	}
	prop.Status = status
	ls.logger.Debug(
		"updated property status",
		"component", "ledger",
		"property_id", id,
		"status", status,
		"actor", actor,
	)
	ls.eventBus.Publish(
		PropertyUpdatedEventType,
		event.NewEvent(
			PropertyUpdatedEventType,
			PropertyUpdatedEvent{Property: *prop, Field: "status"},
		),
	)
	return nil
}

// Property returns a copy of the property record.
func (ls *LedgerState) Property(id PropertyId) (Property, error) {
	ls.RLock()
	defer ls.RUnlock()
	prop, ok := ls.properties[id]
	if !ok {
		return Property{}, &PropertyNotFoundError{PropertyId: id}
	}
	return *prop, nil
}

// Properties returns copies of all registered properties ordered by id.
func (ls *LedgerState) Properties() []Property {
	ls.RLock()
	defer ls.RUnlock()
	ret := make([]Property, 0, len(ls.properties))
	for _, prop := range ls.properties {
		ret = append(ret, *prop)
	}
	slices.SortFunc(ret, func(a, b Property) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return ret
}
