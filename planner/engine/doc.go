// Package engine provides the fuel-constrained route search for the road trip planner.
//
// The engine package implements:
//   - An undirected road network over cities 1..N
//   - Fuel-augmented Dijkstra search over (city, fuel) states
//   - Optional reconstruction of one optimal path
//   - Step-by-step trip narration with refuel events
//   - Capacity sweeps and minimum-capacity lookup
//
// Core Types:
//
// Graph holds the adjacency lists built from Road triples. FuelStations is the
// set of cities that refill the tank; city 1 is always a member. Search returns
// a Result whose Distance is Unreachable (-1) when no fuel-feasible walk exists.
// NetworkConfig is the JSON/YAML description a Graph is built from.
//
// Usage:
//
//	g, err := engine.NewGraph(4, []engine.Road{
//		{From: 1, To: 2, Distance: 80},
//		{From: 2, To: 3, Distance: 60},
//		{From: 3, To: 4, Distance: 70},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	stations := engine.NewFuelStations(2, 3)
//	res, err := engine.Search(g, 100, stations, engine.WithPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if res.Found {
//		trip, _ := engine.Narrate(g, res.Path, 100, stations)
//		fmt.Println(res.Distance, len(trip.Steps))
//	}
//
// Search Rules:
//
// Traveling a road consumes fuel equal to its distance, and a road longer than
// the fuel left is never attempted. Arriving at a fuel station sets the tank to
// full capacity, whatever was left. Two states are the same state when they
// share city and fuel; the cumulative distance only orders the frontier.
package engine
