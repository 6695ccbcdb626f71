package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SweepEntry is the result of one capacity in a Sweep.
type SweepEntry struct {
	Capacity int    `json:"capacity"`
	Result   Result `json:"result"`
}

// Sweep runs one independent Search per capacity. Searches share nothing but
// the read-only graph and station set, so they run in parallel, bounded by
// GOMAXPROCS. Entries come back in the order of capacities.
func Sweep(ctx context.Context, g *Graph, stations FuelStations, capacities []int, opts ...Option) ([]SweepEntry, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	entries := make([]SweepEntry, len(capacities))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, capacity := range capacities {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Search(g, capacity, stations, opts...)
			if err != nil {
				return fmt.Errorf("capacity %d: %w", capacity, err)
			}
			entries[i] = SweepEntry{Capacity: capacity, Result: res}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// MinimumCapacity returns the smallest fuel capacity for which the destination
// is reachable, or Unreachable when it is not reachable at any capacity.
//
// Reachability is monotone in capacity, so a binary search applies. With a
// capacity equal to the total road distance every simple path is feasible,
// which bounds the search.
func MinimumCapacity(g *Graph, stations FuelStations, opts ...Option) (int, error) {
	if g == nil {
		return Unreachable, ErrNilGraph
	}

	reachable := func(capacity int) (bool, error) {
		res, err := Search(g, capacity, stations, opts...)
		if err != nil {
			return false, err
		}
		return res.Found, nil
	}

	hi := g.TotalDistance()
	ok, err := reachable(hi)
	if err != nil {
		return Unreachable, err
	}
	if !ok {
		return Unreachable, nil
	}

	lo := 0
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := reachable(mid)
		if err != nil {
			return Unreachable, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}
