// Package service is the business layer between the transports (HTTP,
// WebSocket, MCP) and the search engine.
//
// A PlannerService resolves a network by name (or takes one inline), runs
// engine.Search with the requested fuel capacity, narrates the optimal path
// and stores the result as a Plan. Plans are immutable once created; the
// store only adds, lists and removes them.
//
// Usage:
//
//	networks, _ := config.NewManager("networks")
//	plans := store.NewManager()
//	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
//	planner := service.NewPlannerService(plans, networks, metrics)
//
//	plan, err := planner.PlanTrip(ctx, service.PlanRequest{Network: "sample"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(plan.Distance) // 170
//
// Errors:
//
// ErrInvalidRequest, ErrNetworkNotFound and ErrPlanNotFound are matched with
// errors.Is by the transports to pick a status code. Engine contract errors
// (an out-of-range destination, a negative capacity) arrive wrapped in
// ErrInvalidRequest.
package service
