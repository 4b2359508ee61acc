package main

import (
	"testing"

	"github.com/pthm-cable/paperflock/config"
	"github.com/pthm-cable/paperflock/game"
)

func TestRunHeadless_StopsAtMaxTicks(t *testing.T) {
	opts := game.Options{
		Config:         config.Defaults(),
		Seed:           3,
		Width:          800,
		Height:         600,
		Headless:       true,
		StepsPerUpdate: 4,
	}
	if err := runHeadless(opts, 10); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
}

func TestRunHeadless_ReturnsBuildError(t *testing.T) {
	cfg := config.Defaults()
	cfg.Render.LightColor = "white"

	err := runHeadless(game.Options{Config: cfg, Headless: true}, 1)
	if err == nil {
		t.Fatal("expected the game build error to be returned to the caller")
	}
}
