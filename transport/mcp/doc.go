// Package mcp exposes the fuel route planner to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a REST call
// against the planner API and the JSON answer is rendered as text.
//
// MCP Tools:
//   - plan_trip: shortest fuel-feasible trip with narration
//   - sweep_capacity: optimal distance per tank size
//   - minimum_capacity: smallest tank that reaches the destination
//   - list_networks, get_network: browse stored networks
//   - list_plans, get_plan, delete_plan: manage stored plans
//   - planner_instructions: the fuel and refuel rules
//
// Transport Modes:
//
// The server returned by GetMCPServer can be served over stdio with
// server.ServeStdio or mounted on an HTTP route that forwards each JSON-RPC
// message to HandleMessage.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
