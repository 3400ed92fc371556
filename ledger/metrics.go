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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type stateMetrics struct {
	properties           prometheus.Gauge
	sharesInCirculation  prometheus.Gauge
	transfersTotal       prometheus.Counter
	listingsOpen         prometheus.Gauge
	tradesTotal          prometheus.Counter
	incomeDepositedTotal prometheus.Counter
	incomeClaimedTotal   prometheus.Counter
	proposalsOpen        prometheus.Gauge
	votesTotal           prometheus.Counter
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.properties = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "freehold_ledger_properties",
		Help: "number of registered properties",
	})
	m.sharesInCirculation = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "freehold_ledger_shares_in_circulation",
		Help: "total issued shares across all properties",
	})
	m.transfersTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "freehold_ledger_transfers_total",
		Help: "total share transfers settled, including marketplace sales",
	})
	m.listingsOpen = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "freehold_ledger_listings_open",
		Help: "current count of open marketplace listings",
	})
	m.tradesTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "freehold_ledger_trades_total",
		Help: "total marketplace purchases settled",
	})
	m.incomeDepositedTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "freehold_ledger_income_deposited_total",
		Help: "cumulative rental income deposited across all properties",
	})
	m.incomeClaimedTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "freehold_ledger_income_claimed_total",
		Help: "cumulative rental income claimed by holders",
	})
	m.proposalsOpen = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "freehold_ledger_proposals_open",
		Help: "current count of open governance proposals",
	})
	m.votesTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "freehold_ledger_votes_total",
		Help: "total governance votes recorded",
	})
}
