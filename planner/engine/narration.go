package engine

import (
	"fmt"
	"strings"
)

// Narrate walks a path leg by leg, re-deriving each road's distance from the
// graph and tracking fuel the same way Search does: subtract the leg, then
// reset to capacity on arrival at a station. It does not search.
func Narrate(g *Graph, path []City, capacity int, stations FuelStations) (Trip, error) {
	if g == nil {
		return Trip{}, ErrNilGraph
	}
	if capacity < 0 {
		return Trip{}, fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}
	if len(path) == 0 {
		return Trip{Steps: []TripStep{}}, nil
	}
	for _, c := range path {
		if !g.valid(c) {
			return Trip{}, fmt.Errorf("%w: path city %d with %d cities", ErrCityOutOfRange, c, g.cities)
		}
	}

	trip := Trip{
		Start:     path[0],
		StartFuel: capacity,
		Steps:     make([]TripStep, 0, len(path)-1),
	}

	fuel := capacity
	for i := 0; i < len(path)-1; i++ {
		from, to := path[i], path[i+1]

		d, ok := g.Distance(from, to)
		if !ok {
			return Trip{}, fmt.Errorf("%w: step %d (%d -> %d)", ErrNoRoad, i+1, from, to)
		}
		if d > fuel {
			return Trip{}, fmt.Errorf("%w: step %d (%d -> %d) needs %d, has %d", ErrInsufficientFuel, i+1, from, to, d, fuel)
		}

		step := TripStep{
			Index:      i + 1,
			From:       from,
			To:         to,
			Distance:   d,
			FuelBefore: fuel,
			FuelOnLeg:  fuel - d,
		}
		fuel -= d
		if stations.Has(to) {
			step.Refueled = true
			fuel = capacity
		}
		step.FuelAfter = fuel

		trip.Steps = append(trip.Steps, step)
		trip.TotalDistance += d
	}

	return trip, nil
}

// String renders the step the way the console trip report prints it.
func (s TripStep) String() string {
	line := fmt.Sprintf("Step %d: Travel from city %d to city %d (distance: %d, fuel remaining: %d)",
		s.Index, s.From, s.To, s.Distance, s.FuelOnLeg)
	if s.Refueled {
		line += fmt.Sprintf("\n        Refuel at city %d (fuel: %d -> %d)", s.To, s.FuelOnLeg, s.FuelAfter)
	}
	return line
}

// String renders the whole trip as a console report.
func (t Trip) String() string {
	var b strings.Builder
	b.WriteString("=== PATH STEPS ===\n")
	fmt.Fprintf(&b, "Start at city %d with fuel: %d\n", t.Start, t.StartFuel)
	for _, s := range t.Steps {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal distance: %d\n", t.TotalDistance)
	b.WriteString("==================")
	return b.String()
}
