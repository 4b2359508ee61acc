// Package main searches flocking parameters with CMA-ES for a target
// screen-activity profile: how far the flock spreads from the centre and how
// aligned it flies.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/paperflock/config"
)

// logRow is one evaluation in tune_log.csv.
type logRow struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Spread          float64 `csv:"spread"`
	Order           float64 `csv:"order"`
	EdgeDrive       float64 `csv:"edge_drive"`
	CenteringFactor float64 `csv:"centering_factor"`
	MatchingFactor  float64 `csv:"matching_factor"`
	AvoidFactor     float64 `csv:"avoid_factor"`
}

// evalLog appends rows to a CSV file, writing the header once.
type evalLog struct {
	w             io.Writer
	headerWritten bool
}

func (l *evalLog) write(row logRow) error {
	rows := []logRow{row}
	if l.headerWritten {
		return gocsv.MarshalWithoutHeaders(rows, l.w)
	}
	if err := gocsv.Marshal(rows, l.w); err != nil {
		return err
	}
	l.headerWritten = true
	return nil
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	if err := run(); err != nil {
		slog.Error("tune failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 3000, "Ticks per evaluation run")
	warmup := flag.Int("warmup", 600, "Ticks before sampling starts")
	sampleEvery := flag.Int("sample-every", 30, "Ticks between samples")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	targetSpread := flag.Float64("target-spread", 0.6, "Target mean centre distance, as a fraction of half the shorter side")
	targetOrder := flag.Float64("target-order", 0.5, "Target alignment order parameter in [0, 1]")
	width := flag.Int("width", 0, "Viewport width (0 = config)")
	height := flag.Int("height", 0, "Viewport height (0 = config)")
	outputDir := flag.String("output", "", "Output directory for results")
	verbose := flag.Bool("verbose", false, "Log every game lifecycle message")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if *outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	settings := RunSettings{
		Ticks:       int32(*ticks),
		Warmup:      int32(*warmup),
		SampleEvery: int32(*sampleEvery),
		Width:       float32(*width),
		Height:      float32(*height),
	}
	targets := Targets{Spread: *targetSpread, Order: *targetOrder}
	evaluator := NewFitnessEvaluator(params, baseCfg, evalSeeds, settings, targets)

	dim := params.Dim()
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	popSize := *population
	if popSize == 0 {
		// Auto-size: 4 + floor(3*ln(n))
		popSize = 4 + int(3*math.Log(float64(dim)))
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	tuneLog := &evalLog{w: logFile}

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			m := evaluator.LastMeasurement()
			if err := tuneLog.write(logRow{
				Eval:            evalCount,
				Fitness:         fitness,
				Spread:          m.Spread,
				Order:           m.Order,
				EdgeDrive:       clamped[0],
				CenteringFactor: clamped[1],
				MatchingFactor:  clamped[2],
				AvoidFactor:     clamped[3],
			}); err != nil {
				slog.Error("failed to write log row", "error", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: spread=%.3f order=%.3f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, m.Spread, m.Order, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n", dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *ticks)

	result, err := optimize.Minimize(problem, initX, &optimize.Settings{FuncEvaluations: *maxEvals}, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	bestPath := filepath.Join(*outputDir, "best.yaml")
	if err := bestCfg.WriteYAML(bestPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", bestPath)
	return nil
}
