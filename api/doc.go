// Package api provides the HTTP REST API for the fuel route planner.
//
// Endpoints:
//
// Plans:
//   - POST /api/plans - Compute and store a plan
//   - GET /api/plans - List plans (?network=, ?limit=)
//   - GET /api/plans/{id} - Get a plan
//   - GET /api/plans/{id}/narration - Plain-text step-by-step trip report
//   - DELETE /api/plans/{id} - Delete a plan
//
// Capacity analysis:
//   - POST /api/sweeps - One search per capacity, not stored
//   - GET /api/networks/{name}/minimum-capacity - Smallest tank that reaches city N
//
// Networks:
//   - GET /api/networks - List stored networks
//   - POST /api/networks - Save a network (?id= overrides the identifier)
//   - GET /api/networks/{name} - Get a network definition
//
// Infrastructure:
//   - GET /health
//   - GET /metrics - Prometheus metrics, when a gatherer is configured
//   - GET /ws?network={name} - WebSocket plan events, when a hub is configured
//
// A plan request names a network, or carries one inline, and may override
// the fuel capacity, the endpoints and path tracking:
//
//	{
//	  "network": "sample",
//	  "fuel_capacity": 80,
//	  "destination": 4,
//	  "track_path": true
//	}
//
// Errors are returned as JSON with an HTTP status matching the cause: 400
// for invalid input, 404 for unknown plans or networks.
//
//	{"error": "network not found: 'atlantis'. Available networks: [detour sample]"}
package api
