package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/paperflock/systems"
)

// parallelThreshold is the minimum number of steering agents to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// steerJob is one free agent waiting for its flocking update.
// Workers only write their own boid; neighbours come from the step snapshot.
type steerJob struct {
	entity ecs.Entity
	boid   systems.Boid
}

// workChunk represents a range of jobs for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds the steering worker pool.
type parallelState struct {
	jobs       []steerJob
	numWorkers int

	// Worker pool channels
	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		jobs:       make([]steerJob, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.steerChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// steer runs flocking and integration for every queued job, then writes the
// results back in queue order.
func (g *Game) steer() {
	n := len(g.parallel.jobs)
	if n == 0 {
		return
	}

	if n < parallelThreshold || g.parallel.numWorkers < 2 {
		g.steerChunk(0, n)
	} else {
		g.steerParallel(n)
	}

	g.applySteering()
}

// steerParallel dispatches work to the worker pool and waits for it.
func (g *Game) steerParallel(n int) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		g.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

func (g *Game) steerChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		b := &g.parallel.jobs[i].boid
		systems.Flock(b, g.boids, g.width, g.height, g.flock)
		systems.Integrate(b)
	}
}

// applySteering writes computed kinematics back to the ECS.
func (g *Game) applySteering() {
	for i := range g.parallel.jobs {
		job := &g.parallel.jobs[i]

		pos := g.posMap.Get(job.entity)
		vel := g.velMap.Get(job.entity)
		rot := g.rotMap.Get(job.entity)

		pos.X, pos.Y = job.boid.X, job.boid.Y
		vel.X, vel.Y = job.boid.VX, job.boid.VY
		rot.Degrees = systems.HeadingDegrees(job.boid.VX, job.boid.VY)
	}
	g.parallel.jobs = g.parallel.jobs[:0]
}

// queueSteering adds a free agent to this step's steering batch.
func (g *Game) queueSteering(entity ecs.Entity, b systems.Boid) {
	g.parallel.jobs = append(g.parallel.jobs, steerJob{entity: entity, boid: b})
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}

