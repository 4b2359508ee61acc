package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/paperflock/renderer"
)

// Sim is the simulation surface the terminal drives.
type Sim interface {
	UpdateHeadless()
	SpawnAt(x, y float32) int
	Resize(w, h float32)
	Frame() renderer.Frame
	Paused() bool
	SetPaused(bool)
	StepsPerUpdate() int
	SetStepsPerUpdate(int)
}

// Controller applies terminal events to a Sim.
type Controller struct {
	sim        Sim
	buttonHeld bool
}

// NewController wraps sim.
func NewController(sim Sim) *Controller {
	return &Controller{sim: sim}
}

// Handle applies one event and reports whether the loop should keep running.
func (c *Controller) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				c.sim.SetPaused(!c.sim.Paused())
			case ',':
				c.sim.SetStepsPerUpdate(c.sim.StepsPerUpdate() - 1)
			case '.':
				c.sim.SetStepsPerUpdate(c.sim.StepsPerUpdate() + 1)
			}
		}

	case *tcell.EventMouse:
		// Mouse motion repeats the button state, spawn on the press edge only
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !c.buttonHeld {
			col, row := ev.Position()
			c.sim.SpawnAt(CellCenter(col, row))
		}
		c.buttonHeld = pressed

	case *tcell.EventResize:
		cols, rows := ev.Size()
		c.sim.Resize(ViewportSize(cols, rows))
	}
	return true
}

// Run drives sim on screen until ctx is cancelled or the user quits.
// The caller owns the screen: it must be initialized and is not finalized here.
// All Sim calls happen on the calling goroutine.
func Run(ctx context.Context, screen tcell.Screen, sim Sim, fps int) error {
	if fps <= 0 {
		fps = 60
	}

	screen.EnableMouse()
	screen.HideCursor()
	sim.Resize(ViewportSize(screen.Size()))

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	ctrl := NewController(sim)
	slog.Info("terminal started", "fps", fps)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}
			if !ctrl.Handle(ev) {
				return nil
			}

		case <-ticker.C:
			if !sim.Paused() {
				sim.UpdateHeadless()
			}
			Draw(screen, sim.Frame())
			screen.Show()
		}
	}
}
