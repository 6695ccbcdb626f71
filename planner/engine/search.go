package engine

import "fmt"

// Options configures a single Search.
type Options struct {
	TrackPath   bool // reconstruct one optimal path
	Start       City // 0 means StartCity
	Destination City // 0 means city N
}

// Option is a functional option for Search.
type Option func(*Options)

// WithPath enables path reconstruction. Without it Result.Path is nil.
func WithPath() Option {
	return func(o *Options) {
		o.TrackPath = true
	}
}

// WithTrackPath sets path reconstruction from a flag.
func WithTrackPath(track bool) Option {
	return func(o *Options) {
		o.TrackPath = track
	}
}

// WithStart overrides the start city.
func WithStart(c City) Option {
	return func(o *Options) {
		o.Start = c
	}
}

// WithDestination overrides the destination city.
func WithDestination(c City) Option {
	return func(o *Options) {
		o.Destination = c
	}
}

func buildOptions(g *Graph, opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Start == 0 {
		o.Start = StartCity
	}
	if o.Destination == 0 {
		o.Destination = g.Destination()
	}
	return o
}

// stateKey is the deduplication key: cumulative distance is deliberately absent.
type stateKey struct {
	city City
	fuel int
}

// Search computes the minimum total distance from the start city to the
// destination when every road consumes its distance in fuel and stations
// refill the tank to capacity. An unreachable destination is a normal
// outcome: Distance is Unreachable, Found is false and the error is nil.
//
// The graph and station set are not modified. Each call owns its frontier
// and visited set, so independent searches may run concurrently.
func Search(g *Graph, capacity int, stations FuelStations, opts ...Option) (Result, error) {
	if g == nil {
		return Result{Distance: Unreachable}, ErrNilGraph
	}
	if capacity < 0 {
		return Result{Distance: Unreachable}, fmt.Errorf("%w: %d", ErrNegativeCapacity, capacity)
	}

	o := buildOptions(g, opts)
	if !g.valid(o.Start) {
		return Result{Distance: Unreachable}, fmt.Errorf("%w: start %d with %d cities", ErrCityOutOfRange, o.Start, g.cities)
	}
	if !g.valid(o.Destination) {
		return Result{Distance: Unreachable}, fmt.Errorf("%w: destination %d with %d cities", ErrCityOutOfRange, o.Destination, g.cities)
	}
	if err := stations.validate(g); err != nil {
		return Result{Distance: Unreachable}, err
	}

	var stats Stats
	visited := make(map[stateKey]struct{})
	pq := newStateQueue()

	seed := SearchState{City: o.Start, Fuel: capacity}
	if o.TrackPath {
		seed.Path = []City{o.Start}
	}
	pq.push(seed)
	stats.Pushes++

	for pq.Len() > 0 {
		cur := pq.pop()
		stats.Pops++

		key := stateKey{city: cur.City, fuel: cur.Fuel}
		if _, seen := visited[key]; seen {
			stats.Stale++
			continue
		}
		visited[key] = struct{}{}

		if cur.City == o.Destination {
			return Result{
				Distance: cur.Distance,
				Found:    true,
				Path:     cur.Path,
				Stats:    stats,
			}, nil
		}

		for _, e := range g.adj[cur.City] {
			if e.Distance > cur.Fuel {
				stats.Infeasible++
				continue
			}

			fuel := cur.Fuel - e.Distance
			if stations.Has(e.To) {
				fuel = capacity
			}
			if _, seen := visited[stateKey{city: e.To, fuel: fuel}]; seen {
				continue
			}

			next := SearchState{
				City:     e.To,
				Fuel:     fuel,
				Distance: cur.Distance + e.Distance,
			}
			if o.TrackPath {
				next.Path = extendPath(cur.Path, e.To)
			}
			pq.push(next)
			stats.Pushes++
		}
	}

	return Result{Distance: Unreachable, Stats: stats}, nil
}

// extendPath returns a new slice holding path followed by c. The result never
// shares a backing array with path.
func extendPath(path []City, c City) []City {
	out := make([]City, len(path)+1)
	copy(out, path)
	out[len(path)] = c
	return out
}
