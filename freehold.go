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

// Package freehold assembles the fractional property ownership ledger
// into a runnable node: the authorization gate, the in-memory ledger
// state machine, the event bus, and the JSON API facade. Construct a
// Node with New and a Config built from NewConfig options, then drive
// it with Run and Stop.
package freehold
