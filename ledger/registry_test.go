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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freehold-io/freehold/authz"
)

// ===== Registration =====

func TestRegisterProperty(t *testing.T) {
	ls := newTestLedger(t)
	metadata := PropertyMetadata{
		Location:    "12 Harbor Rd",
		Description: "waterfront duplex",
	}
	prop := ls.RegisterProperty("Harbor Duplex", 100, metadata)
	require.Equal(t, PropertyId(1), prop.Id)
	require.Equal(t, "Harbor Duplex", prop.Name)
	require.Equal(t, uint64(100), prop.TotalShares)
	require.Equal(t, uint64(100), prop.SharesAvailable)
	require.Equal(t, metadata, prop.Metadata)
	require.Equal(t, PropertyStatusActive, prop.Status)

	second := ls.RegisterProperty("Second", 10, PropertyMetadata{})
	require.Equal(t, PropertyId(2), second.Id)
	requireConservation(t, ls)
}

func TestRegisterPropertyZeroShares(t *testing.T) {
	ls := newTestLedger(t)
	prop := ls.RegisterProperty("Degenerate", 0, PropertyMetadata{})
	require.Equal(t, uint64(0), prop.TotalShares)
	require.Equal(t, uint64(0), prop.SharesAvailable)
	requireConservation(t, ls)
}

// ===== Lookup =====

func TestPropertyLookup(t *testing.T) {
	ls := newTestLedger(t)
	registered := ls.RegisterProperty("Lookup Lane", 50, PropertyMetadata{})

	prop, err := ls.Property(registered.Id)
	require.NoError(t, err)
	require.Equal(t, registered, prop)

	// The returned record is a copy
	prop.Name = "scribbled"
	again, err := ls.Property(registered.Id)
	require.NoError(t, err)
	require.Equal(t, "Lookup Lane", again.Name)
}

func TestPropertyNotFound(t *testing.T) {
	ls := newTestLedger(t)
	_, err := ls.Property(99)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
	var notFoundErr *PropertyNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	require.Equal(t, PropertyId(99), notFoundErr.PropertyId)
}

func TestProperties(t *testing.T) {
	ls := newTestLedger(t)
	require.Empty(t, ls.Properties())

	ls.RegisterProperty("First", 10, PropertyMetadata{})
	ls.RegisterProperty("Second", 20, PropertyMetadata{})
	ls.RegisterProperty("Third", 30, PropertyMetadata{})

	props := ls.Properties()
	require.Len(t, props, 3)
	require.Equal(t, PropertyId(1), props[0].Id)
	require.Equal(t, PropertyId(2), props[1].Id)
	require.Equal(t, PropertyId(3), props[2].Id)
	require.Equal(t, "Second", props[1].Name)
}

// ===== Updates =====

func TestUpdatePropertyMetadata(t *testing.T) {
	ls := newTestLedger(t)
	admin := newTestAdmin(t, ls)
	prop := ls.RegisterProperty("Editable", 10, PropertyMetadata{
		Location: "old town",
	})

	updated := PropertyMetadata{Location: "new town", Description: "renovated"}
	require.NoError(t, ls.UpdatePropertyMetadata(prop.Id, updated, admin))

	got, err := ls.Property(prop.Id)
	require.NoError(t, err)
	require.Equal(t, updated, got.Metadata)
}

func TestUpdatePropertyMetadataUnauthorized(t *testing.T) {
	ls := newTestLedger(t)
	newTestAdmin(t, ls)
	prop := ls.RegisterProperty("Guarded", 10, PropertyMetadata{
		Location: "original",
	})

	err := ls.UpdatePropertyMetadata(
		prop.Id,
		PropertyMetadata{Location: "forged"},
		authz.Identity("mallory"),
	)
	require.Error(t, err)
	var unauthorizedErr *authz.UnauthorizedError
	require.ErrorAs(t, err, &unauthorizedErr)
	require.Equal(t, authz.Identity("mallory"), unauthorizedErr.Identity)

	got, err := ls.Property(prop.Id)
	require.NoError(t, err)
	require.Equal(t, "original", got.Metadata.Location)
}

func TestUpdatePropertyMetadataNotFound(t *testing.T) {
	ls := newTestLedger(t)
	admin := newTestAdmin(t, ls)
	err := ls.UpdatePropertyMetadata(42, PropertyMetadata{}, admin)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePropertyStatus(t *testing.T) {
	ls := newTestLedger(t)
	admin := newTestAdmin(t, ls)
	prop := ls.RegisterProperty("Status House", 10, PropertyMetadata{})

	require.NoError(
		t,
		ls.UpdatePropertyStatus(prop.Id, PropertyStatusMaintenance, admin),
	)
	got, err := ls.Property(prop.Id)
	require.NoError(t, err)
	require.Equal(t, PropertyStatusMaintenance, got.Status)

	// Unauthorized actors leave the status alone
	err = ls.UpdatePropertyStatus(
		prop.Id,
		PropertyStatusSold,
		authz.Identity("mallory"),
	)
	var unauthorizedErr *authz.UnauthorizedError
	require.ErrorAs(t, err, &unauthorizedErr)
	got, err = ls.Property(prop.Id)
	require.NoError(t, err)
	require.Equal(t, PropertyStatusMaintenance, got.Status)

	// Unknown ids report NotFound
	err = ls.UpdatePropertyStatus(42, PropertyStatusSold, admin)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestPropertyStatusValid(t *testing.T) {
	testDefs := []struct {
		status   PropertyStatus
		expected bool
	}{
		{PropertyStatusActive, true},
		{PropertyStatusMaintenance, true},
		{PropertyStatusSold, true},
		{PropertyStatus(""), false},
		{PropertyStatus("Demolished"), false},
	}
	for _, testDef := range testDefs {
		require.Equal(
			t,
			testDef.expected,
			testDef.status.Valid(),
			"unexpected validity for status %q",
			testDef.status,
		)
	}
}
