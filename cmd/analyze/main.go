// Command analyze prints quick, human-readable heuristics about the network
// files in a directory. It summarizes size, fuel settings and station counts,
// highlights roads longer than the tank, and sweeps a range of capacities
// around the configured one.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

// sweepPercents are the capacities tried, as a percentage of the configured one.
var sweepPercents = []int{50, 75, 100, 125, 150}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Print heuristics about network files",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "networks"
			}
			return analyzeDir(ctx, os.Stdout, dir)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func analyzeDir(ctx context.Context, w io.Writer, dir string) error {
	var files []string
	for _, ext := range engine.SupportedExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no network files in %s", dir)
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeNetwork(ctx, w, file); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	return nil
}

func analyzeNetwork(ctx context.Context, w io.Writer, path string) error {
	config, err := engine.LoadNetworkConfig(path)
	if err != nil {
		return err
	}
	g, stations, err := config.Build()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", config.Name)
	fmt.Fprintf(w, "Cities: %d, Roads: %d\n", g.Cities(), g.RoadCount())
	fmt.Fprintf(w, "Fuel Capacity: %d\n", config.FuelCapacity)
	fmt.Fprintf(w, "Fuel Stations (incl. start): %d\n", len(stations))

	roads := g.Roads()
	if len(roads) > 0 {
		longest := roads[0]
		for _, r := range roads[1:] {
			if r.Distance > longest.Distance {
				longest = r
			}
		}
		fmt.Fprintf(w, "Longest Road: %d <-> %d (%d)\n", longest.From, longest.To, longest.Distance)
	}

	tooLong := []engine.Road{}
	for _, r := range roads {
		if r.Distance > config.FuelCapacity {
			tooLong = append(tooLong, r)
		}
	}
	if len(tooLong) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d roads are longer than the tank and can never be driven\n", len(tooLong))
		for i, r := range tooLong {
			if i < 5 {
				fmt.Fprintf(w, "   Too long: %d <-> %d (%d)\n", r.From, r.To, r.Distance)
			}
		}
		if len(tooLong) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(tooLong)-5)
		}
	} else {
		fmt.Fprintf(w, "✅ Every road fits in a full tank\n")
	}

	minimum, err := engine.MinimumCapacity(g, stations)
	if err != nil {
		return err
	}
	if minimum == engine.Unreachable {
		fmt.Fprintf(w, "⚠️  CRITICAL: city %d cannot be reached with any tank size\n", g.Destination())
		return nil
	}
	fmt.Fprintf(w, "Minimum Capacity: %d\n", minimum)

	capacities := make([]int, len(sweepPercents))
	for i, p := range sweepPercents {
		capacities[i] = config.FuelCapacity * p / 100
	}
	entries, err := engine.Sweep(ctx, g, stations, capacities)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Capacity Sweep:\n")
	for _, e := range entries {
		if e.Result.Found {
			fmt.Fprintf(w, "  %6d: %d\n", e.Capacity, e.Result.Distance)
		} else {
			fmt.Fprintf(w, "  %6d: unreachable\n", e.Capacity)
		}
	}
	return nil
}
