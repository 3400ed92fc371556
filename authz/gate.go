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

package authz

import (
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Identity is an opaque caller identity as authenticated and supplied by the
// transport facade. The core never interprets its contents.
type Identity string

// Role determines which administrative operations an identity may perform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type GateConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
}

// Gate resolves caller identities to roles and KYC flags. Identities with no
// assignment resolve to RoleUser and unverified, so lookups are total
// functions over a sparse mapping. Role and KYC state is disjoint from the
// share-accounting state and is guarded by its own lock.
type Gate struct {
	config  GateConfig
	metrics struct {
		roleAssignments *prometheus.GaugeVec
		kycVerified     prometheus.Gauge
	}
	logger       *slog.Logger
	roles        map[Identity]Role
	kyc          map[Identity]bool
	bootstrapped bool
	sync.RWMutex
}

func NewGate(config GateConfig) *Gate {
	g := &Gate{
		config: config,
		roles:  make(map[Identity]Role),
		kyc:    make(map[Identity]bool),
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		g.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		g.logger = config.Logger
	}
	// Init metrics
	promautoFactory := promauto.With(config.PromRegistry)
	g.metrics.roleAssignments = promautoFactory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "freehold_authz_role_assignments",
			Help: "current count of explicit role assignments by role",
		},
		[]string{"role"},
	)
	g.metrics.kycVerified = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "freehold_authz_kyc_verified",
		Help: "current count of KYC-verified identities",
	})
	return g
}

// BootstrapAdmin assigns RoleAdmin to the given identity. It may only ever
// succeed once for the lifetime of the process; all later calls fail with
// AlreadyBootstrappedError regardless of argument.
func (g *Gate) BootstrapAdmin(admin Identity) error {
	g.Lock()
	defer g.Unlock()
	if g.bootstrapped {
		return &AlreadyBootstrappedError{}
	}
	g.setRole(admin, RoleAdmin)
	g.bootstrapped = true
	g.logger.Info(
		"bootstrapped admin",
		"component", "authz",
		"identity", string(admin),
	)
	return nil
}

// Bootstrapped indicates whether the one-time admin bootstrap has been
// performed.
func (g *Gate) Bootstrapped() bool {
	g.RLock()
	defer g.RUnlock()
	return g.bootstrapped
}

// SetRole assigns a role to an identity. The actor must hold RoleAdmin.
// The role is expected to be one of the Role constants; the transport layer
// rejects anything else before it reaches the gate.
func (g *Gate) SetRole(user Identity, role Role, actor Identity) error {
	g.Lock()
	defer g.Unlock()
	if err := g.requireAdmin(actor); err != nil {
		return err
	}
	g.setRole(user, role)
	g.logger.Info(
		"set role",
		"component", "authz",
		"identity", string(user),
		"role", string(role),
	)
	return nil
}

func (g *Gate) setRole(user Identity, role Role) {
	if prev, ok := g.roles[user]; ok {
		g.metrics.roleAssignments.WithLabelValues(string(prev)).Dec()
	}
	g.roles[user] = role
	g.metrics.roleAssignments.WithLabelValues(string(role)).Inc()
}

// SetKYC records the KYC verification flag for an identity. The actor must
// hold RoleAdmin.
func (g *Gate) SetKYC(user Identity, verified bool, actor Identity) error {
	g.Lock()
	defer g.Unlock()
	if err := g.requireAdmin(actor); err != nil {
		return err
	}
	prev := g.kyc[user]
	g.kyc[user] = verified
	if verified && !prev {
		g.metrics.kycVerified.Inc()
	} else if !verified && prev {
		g.metrics.kycVerified.Dec()
	}
	g.logger.Info(
		"set KYC status",
		"component", "authz",
		"identity", string(user),
		"verified", verified,
	)
	return nil
}

// RoleOf returns the role assigned to an identity, defaulting to RoleUser.
func (g *Gate) RoleOf(identity Identity) Role {
	g.RLock()
	defer g.RUnlock()
	if role, ok := g.roles[identity]; ok {
		return role
	}
	return RoleUser
}

// KYCOf returns the KYC verification flag for an identity, defaulting to
// false.
func (g *Gate) KYCOf(identity Identity) bool {
	g.RLock()
	defer g.RUnlock()
	return g.kyc[identity]
}

// RequireAdmin returns an UnauthorizedError unless the actor holds RoleAdmin.
func (g *Gate) RequireAdmin(actor Identity) error {
	g.RLock()
	defer g.RUnlock()
	return g.requireAdmin(actor)
}

func (g *Gate) requireAdmin(actor Identity) error {
	role, ok := g.roles[actor]
	if !ok {
		role = RoleUser
	}
	if role != RoleAdmin {
		return &UnauthorizedError{
			Identity: actor,
			Required: RoleAdmin,
		}
	}
	return nil
}
