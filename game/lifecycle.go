package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/paperflock/components"
)

// spawnInitialPopulation fills the viewport with the starting flock.
// Narrow viewports get the smaller population.
func (g *Game) spawnInitialPopulation() {
	pop := g.cfg.Population
	count := pop.Initial
	if g.width < float32(pop.SmallScreenWidth) {
		count = pop.InitialSmall
	}
	g.SpawnInitial(count)
}

// SpawnInitial creates count agents at uniformly random viewport positions.
// The population ceiling only applies to click spawns.
func (g *Game) SpawnInitial(count int) {
	for i := 0; i < count; i++ {
		x := g.rng.Float32() * g.width
		y := g.rng.Float32() * g.height
		g.spawnAgent(x, y)
	}
	g.collector.RecordSpawn(count)
}

// SpawnAt creates a jittered batch of agents around (x, y) and returns how many
// were created. At or above the population ceiling the batch is dropped.
func (g *Game) SpawnAt(x, y float32) int {
	pop := g.cfg.Population
	if g.population >= pop.Max {
		g.collector.RecordDroppedSpawn()
		slog.Debug("spawn dropped", "tick", g.tick, "population", g.population)
		return 0
	}

	jitter := float32(pop.SpawnJitter)
	for i := 0; i < pop.SpawnCount; i++ {
		jx := (g.rng.Float32()*2 - 1) * jitter
		jy := (g.rng.Float32()*2 - 1) * jitter
		g.spawnAgent(x+jx, y+jy)
	}
	g.collector.RecordSpawn(pop.SpawnCount)
	return pop.SpawnCount
}

// spawnAgent creates a single free agent at (x, y) with randomized
// velocity, heading and appearance.
func (g *Game) spawnAgent(x, y float32) ecs.Entity {
	speed := float32(g.cfg.Population.SpawnSpeed)
	appearance := g.cfg.Appearance
	lifespan := int32(g.cfg.Population.Lifespan)

	agent := components.Agent{ID: g.nextID}
	g.nextID++

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{
		X: (g.rng.Float32()*2 - 1) * speed,
		Y: (g.rng.Float32()*2 - 1) * speed,
	}
	rot := components.Rotation{Degrees: g.rng.Float32() * 360}
	look := components.Appearance{
		Type:  components.RandomAgentType(g.rng),
		Tint:  components.RandomTint(g.rng),
		Scale: float32(appearance.ScaleMin + g.rng.Float64()*appearance.ScaleSpread),
	}
	life := components.Lifespan{Remaining: lifespan, Max: lifespan}
	transit := components.Transit{}

	g.population++
	return g.agentMapper.NewEntity(&agent, &pos, &vel, &rot, &look, &life, &transit)
}

// cleanupExpired removes agents whose lifespan ran out.
// Entities are collected first since the world is locked during queries.
func (g *Game) cleanupExpired() int {
	g.removals = g.removals[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, _, life, _ := query.Get()
		if life.Expired() {
			g.removals = append(g.removals, query.Entity())
		}
	}

	for _, e := range g.removals {
		g.world.RemoveEntity(e)
	}
	g.population -= len(g.removals)
	return len(g.removals)
}
