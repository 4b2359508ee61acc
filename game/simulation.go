package game

import (
	"github.com/pthm-cable/paperflock/systems"
	"github.com/pthm-cable/paperflock/telemetry"
)

// StepReport summarizes portal traffic and culling for one step.
// Counters are indexed by systems.PortalKind.
type StepReport struct {
	Captures [2]int // agents entering a portal, by entrance kind
	Exits    [2]int // completed teleports, by exit kind
	Culled   int
}

// Teleports returns the number of completed teleports.
func (r StepReport) Teleports() int {
	return r.Exits[systems.PortalBorder] + r.Exits[systems.PortalPoint]
}

// Step advances the flock by one frame.
func (g *Game) Step() StepReport {
	var report StepReport

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.snapshotBoids()

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.updateAgents(&report)

	g.perfCollector.StartPhase(telemetry.PhaseSteer)
	g.steer()

	g.perfCollector.StartPhase(telemetry.PhaseCull)
	report.Culled = g.cleanupExpired()
	g.collector.RecordCull(report.Culled)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.maybeSaveFrame()

	g.perfCollector.EndTick(g.population)

	g.notifyTeleports(report)
	return report
}

// snapshotBoids copies every agent's kinematic state from the previous frame.
// Steering reads neighbours from this copy only.
func (g *Game) snapshotBoids() {
	g.boids = g.boids[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		agent, pos, vel, _, _, _, transit := query.Get()
		g.boids = append(g.boids, systems.Boid{
			ID:        agent.ID,
			X:         pos.X,
			Y:         pos.Y,
			VX:        vel.X,
			VY:        vel.Y,
			InTransit: transit.InTransit(),
		})
	}
}

// updateAgents advances transit and checks capture for each agent, queues the
// free ones for steering, then ages everyone by one frame.
func (g *Game) updateAgents(report *StepReport) {
	margin := g.cfg.Derived.Margin32

	query := g.agentFilter.Query()
	for query.Next() {
		agent, pos, vel, rot, _, life, transit := query.Get()

		b := systems.Boid{ID: agent.ID, X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y}

		switch {
		case transit.InTransit():
			progress, exit := systems.AdvanceTransit(&b, transit.Portal, transit.Progress, g.portals, g.rng)
			if exit != nil {
				transit.Clear()
				rot.Degrees = systems.HeadingDegrees(b.VX, b.VY)
				report.Exits[exit.Kind]++
				g.collector.RecordTeleport()
			} else {
				transit.Progress = progress
			}

		default:
			if id, ok := systems.CheckCapture(&b, g.portals, g.width, g.height, margin); ok {
				transit.Enter(id)
				if entrance, found := g.portals.Get(id); found {
					report.Captures[entrance.Kind]++
					g.collector.RecordCapture(entrance.Kind)
				}
				break
			}
			g.queueSteering(query.Entity(), b)
			life.Remaining--
			continue
		}

		pos.X, pos.Y = b.X, b.Y
		vel.X, vel.Y = b.VX, b.VY

		life.Remaining--
	}
}

// notifyTeleports forwards completed teleports to the listener, once per exit kind.
func (g *Game) notifyTeleports(report StepReport) {
	if g.listener == nil {
		return
	}
	for kind, n := range report.Exits {
		if n > 0 {
			g.listener.Teleported(systems.PortalKind(kind))
		}
	}
}
