package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbolles/auto-surveillance/internal/surveil"
)

func main() {
	var (
		seedOverride  = flag.Int64("seed", 0, "override the config's simulation seed (0 = use config value)")
		ticksOverride = flag.Int("ticks", 0, "override environment.max_timesteps (0 = use config value)")
		graphOverride = flag.String("graph-cache", "", "override environment.map.graph; built fresh and not saved if neither is set")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <config-path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *seedOverride, *ticksOverride, *graphOverride); err != nil {
		switch {
		case errors.Is(err, surveil.ErrMaxTimesteps):
			return
		case errors.Is(err, context.Canceled):
			log.Println("interrupted, exiting")
			os.Exit(130)
		default:
			log.Fatal(err)
		}
	}
}

func run(configPath string, seedOverride int64, ticksOverride int, graphOverride string) error {
	cfg, err := surveil.LoadConfig(configPath)
	if err != nil {
		return err
	}

	seed := cfg.Simulation.Seed
	if seedOverride != 0 {
		seed = seedOverride
	}

	maxTimesteps := cfg.Environment.MaxTimesteps.AsSimulationLimit()
	if ticksOverride != 0 {
		maxTimesteps = ticksOverride
	}

	graphPath := cfg.Environment.Map.Graph
	if graphOverride != "" {
		graphPath = graphOverride
	}

	grid, err := surveil.LoadMap(cfg.Environment.Map.Image, cfg.Environment.Map.PixelToCM)
	if err != nil {
		return err
	}

	graph, err := loadOrBuildGraph(grid, graphPath)
	if err != nil {
		return err
	}

	sensors, err := cfg.BuildSensors(grid)
	if err != nil {
		return err
	}

	pipeline := surveil.NewPipeline(grid, rand.New(rand.NewSource(seed))) // #nosec G404 -- simulation determinism, not security sensitive
	placements, graph, err := pipeline.Run(sensors, graph)
	if err != nil {
		return err
	}

	// Only sensors a stage actually placed take part in the simulation; a
	// camera the Camera Placement stage skipped has no pose to detect from.
	placed := make([]surveil.Sensor, 0, len(placements))
	for _, p := range placements {
		placed = append(placed, p.Sensor)
	}

	adversaries := cfg.BuildAdversaries(grid)
	sim := surveil.NewSimulation(placed, adversaries, maxTimesteps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT)
	defer cancel()

	runErr := sim.Run(ctx)

	report := surveil.NewDeploymentReport(grid, graph, placements, sim, pipeline.Coverage())
	fmt.Print(report.Format())

	if runErr != nil && !errors.Is(runErr, surveil.ErrMaxTimesteps) {
		return runErr
	}
	return nil
}

// loadOrBuildGraph loads a cached reduced graph from cachePath per
// environment.map.graph when present, otherwise builds one fresh from grid
// and writes it back to cachePath for the next run.
func loadOrBuildGraph(grid *surveil.OccupancyGrid, cachePath string) (*surveil.ReducedGraph, error) {
	if cachePath != "" {
		if graph, err := surveil.LoadGraph(cachePath, grid); err == nil {
			return graph, nil
		}
	}

	cells := surveil.BuildCellGraph(grid)
	graph := surveil.Reduce(cells)

	if cachePath != "" {
		if err := surveil.SaveGraph(cachePath, grid, graph); err != nil {
			log.Printf("warning: could not write graph cache: %v", err)
		}
	}
	return graph, nil
}
