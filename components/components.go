// Package components defines ECS components for the flock.
package components

import (
	"math/rand"

	"github.com/pthm-cable/paperflock/systems"
)

// Agent holds the identity of a flock member.
// IDs increase monotonically and are never reused within a run.
type Agent struct {
	ID uint32
}

// Appearance holds the decorative attributes fixed at spawn.
// None of these affect physics.
type Appearance struct {
	Type  AgentType
	Tint  Tint
	Scale float32
}

// Lifespan counts frames down to removal.
type Lifespan struct {
	Remaining int32
	Max       int32
}

// Expired reports whether the agent should be culled.
func (l Lifespan) Expired() bool {
	return l.Remaining <= 0
}

// Transit tracks passage through a portal.
// An empty Portal means the agent is free.
type Transit struct {
	Portal   systems.PortalID
	Progress float32 // 0-1
}

// InTransit reports whether the agent is inside a portal.
func (t Transit) InTransit() bool {
	return t.Portal != ""
}

// Clear returns the agent to the free state.
func (t *Transit) Clear() {
	t.Portal = ""
	t.Progress = 0
}

// Enter starts transit through the given portal.
func (t *Transit) Enter(id systems.PortalID) {
	t.Portal = id
	t.Progress = 0
}

// AgentType is the decorative variant of an agent.
type AgentType uint8

const (
	TypeLeaf AgentType = iota
	TypeBud
	TypeSeed
	numAgentTypes
)

// String returns the variant name.
func (t AgentType) String() string {
	switch t {
	case TypeLeaf:
		return "leaf"
	case TypeBud:
		return "bud"
	case TypeSeed:
		return "seed"
	}
	return "unknown"
}

// RandomAgentType picks a variant uniformly.
func RandomAgentType(rng *rand.Rand) AgentType {
	return AgentType(rng.Intn(int(numAgentTypes)))
}

// Tint is the fill colour class of an agent.
type Tint uint8

const (
	TintDark Tint = iota
	TintLight
)

// String returns the tint name.
func (t Tint) String() string {
	if t == TintLight {
		return "light"
	}
	return "dark"
}

// RandomTint picks dark or light with equal probability.
func RandomTint(rng *rand.Rand) Tint {
	if rng.Float32() < 0.5 {
		return TintDark
	}
	return TintLight
}
