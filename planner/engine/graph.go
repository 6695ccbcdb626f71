package engine

import (
	"fmt"
	"sort"
)

// Graph is an undirected road network over cities 1..N. It is read-only once
// built and safe for concurrent searches.
type Graph struct {
	cities int
	adj    [][]Edge // indexed by city; adj[0] is unused
	roads  int
}

// NewGraph builds the adjacency lists for the given roads. Every road is
// stored in both directions with the same distance.
func NewGraph(cities int, roads []Road) (*Graph, error) {
	if cities < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCityCount, cities)
	}

	g := &Graph{
		cities: cities,
		adj:    make([][]Edge, cities+1),
	}

	for i, r := range roads {
		if !g.valid(r.From) || !g.valid(r.To) {
			return nil, fmt.Errorf("%w: road %d (%d <-> %d) with %d cities", ErrCityOutOfRange, i+1, r.From, r.To, cities)
		}
		if r.Distance < 0 {
			return nil, fmt.Errorf("%w: road %d (%d <-> %d) distance %d", ErrNegativeDistance, i+1, r.From, r.To, r.Distance)
		}
		g.adj[r.From] = append(g.adj[r.From], Edge{To: r.To, Distance: r.Distance})
		g.adj[r.To] = append(g.adj[r.To], Edge{To: r.From, Distance: r.Distance})
		g.roads++
	}

	return g, nil
}

// Cities returns N, the number of cities.
func (g *Graph) Cities() int {
	return g.cities
}

// RoadCount returns the number of undirected roads.
func (g *Graph) RoadCount() int {
	return g.roads
}

// Destination returns city N, the default search target.
func (g *Graph) Destination() City {
	return g.cities
}

// Neighbors returns the roads incident to c. The slice must not be modified.
func (g *Graph) Neighbors(c City) []Edge {
	if !g.valid(c) {
		return nil
	}
	return g.adj[c]
}

// Distance returns the shortest direct road between u and v. Parallel roads
// collapse to the minimum, which is the one an optimal route uses.
func (g *Graph) Distance(u, v City) (int, bool) {
	best, found := 0, false
	for _, e := range g.Neighbors(u) {
		if e.To == v && (!found || e.Distance < best) {
			best, found = e.Distance, true
		}
	}
	return best, found
}

// TotalDistance returns the sum of all road distances.
func (g *Graph) TotalDistance() int {
	total := 0
	for c := 1; c <= g.cities; c++ {
		for _, e := range g.adj[c] {
			total += e.Distance
		}
	}
	// every road was counted from both ends
	return total / 2
}

// Roads returns every road once, ordered by (From, To, Distance) with From <= To.
func (g *Graph) Roads() []Road {
	roads := make([]Road, 0, g.roads)
	for c := 1; c <= g.cities; c++ {
		loops := 0
		for _, e := range g.adj[c] {
			switch {
			case c < e.To:
				roads = append(roads, Road{From: c, To: e.To, Distance: e.Distance})
			case c == e.To:
				// self-loops appear twice in their own list
				if loops%2 == 0 {
					roads = append(roads, Road{From: c, To: c, Distance: e.Distance})
				}
				loops++
			}
		}
	}
	sort.Slice(roads, func(i, j int) bool {
		if roads[i].From != roads[j].From {
			return roads[i].From < roads[j].From
		}
		if roads[i].To != roads[j].To {
			return roads[i].To < roads[j].To
		}
		return roads[i].Distance < roads[j].Distance
	})
	return roads
}

func (g *Graph) valid(c City) bool {
	return c >= 1 && c <= g.cities
}

// FuelStations is the set of cities that refill the tank on arrival.
// StartCity refuels whether or not the map holds it, so a nil or empty set
// still means "city 1 only".
type FuelStations map[City]struct{}

// NewFuelStations returns a station set containing the given cities and
// StartCity, which always refuels regardless of the input.
func NewFuelStations(cities ...City) FuelStations {
	fs := make(FuelStations, len(cities)+1)
	fs[StartCity] = struct{}{}
	for _, c := range cities {
		fs[c] = struct{}{}
	}
	return fs
}

// Has reports whether c refuels. StartCity always does.
func (fs FuelStations) Has(c City) bool {
	if c == StartCity {
		return true
	}
	_, ok := fs[c]
	return ok
}

// Sorted returns the stations in ascending order, StartCity included.
func (fs FuelStations) Sorted() []City {
	out := make([]City, 0, len(fs)+1)
	out = append(out, StartCity)
	for c := range fs {
		if c != StartCity {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

// validate checks every station against the graph's city range.
func (fs FuelStations) validate(g *Graph) error {
	for c := range fs {
		if !g.valid(c) {
			return fmt.Errorf("%w: fuel station %d with %d cities", ErrCityOutOfRange, c, g.cities)
		}
	}
	return nil
}
