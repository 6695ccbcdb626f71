package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

const (
	ServerName    = "Fuel Route Planner"
	ServerVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Fuel Route Planner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Every network is a set of cities 1..N joined by undirected roads. A trip starts
at city 1 with a full tank and must reach city N. Driving a road burns fuel
equal to its distance; fuel stations refill the tank to capacity.

AVAILABLE TOOLS:
- plan_trip: Compute the shortest fuel-feasible trip and narrate it
- sweep_capacity: Compare the optimal distance over several tank sizes
- minimum_capacity: Find the smallest tank that reaches the destination
- list_networks: List stored road networks
- get_network: Show the roads and stations of one network
- list_plans: List previously computed plans
- get_plan: Show a stored plan with its narration
- delete_plan: Remove a stored plan
- planner_instructions: Explain the fuel and refuel rules in detail`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Planning
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plan_trip",
		Description: "Compute the shortest route from the start city to the destination that never runs out of fuel",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"network":       stringProp("Network to plan on (optional, defaults to the server default)"),
				"fuel_capacity": integerProp("Tank size (optional, defaults to the network's capacity)"),
				"start":         integerProp("Start city (optional, defaults to 1)"),
				"destination":   integerProp("Destination city (optional, defaults to the highest-numbered city)"),
				"track_path": map[string]interface{}{
					"type":        "boolean",
					"description": "Record and narrate the route (default true)",
				},
			},
		},
	}, c.handlePlanTrip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sweep_capacity",
		Description: "Run one search per tank size and report the optimal distance for each",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"network": stringProp("Network to sweep (optional)"),
				"capacities": map[string]interface{}{
					"type":        "array",
					"description": "Tank sizes to try",
					"items":       map[string]interface{}{"type": "integer"},
				},
			},
			Required: []string{"capacities"},
		},
	}, c.handleSweepCapacity)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "minimum_capacity",
		Description: "Find the smallest tank size for which the destination is reachable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"network": stringProp("Network to analyze"),
			},
			Required: []string{"network"},
		},
	}, c.handleMinimumCapacity)

	// Networks
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_networks",
		Description: "List all stored road networks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListNetworks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_network",
		Description: "Show the cities, roads and fuel stations of a network",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"network": stringProp("Network identifier"),
			},
			Required: []string{"network"},
		},
	}, c.handleGetNetwork)

	// Plans
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_plans",
		Description: "List stored plans, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"network": stringProp("Only list plans for this network (optional)"),
				"limit":   integerProp("Maximum number of plans to list (optional)"),
			},
		},
	}, c.handleListPlans)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_plan",
		Description: "Show a stored plan and its narration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plan_id": stringProp("Plan ID to retrieve"),
			},
			Required: []string{"plan_id"},
		},
	}, c.handleGetPlan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_plan",
		Description: "Delete a stored plan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plan_id": stringProp("Plan ID to delete"),
			},
			Required: []string{"plan_id"},
		},
	}, c.handleDeletePlan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "planner_instructions",
		Description: "Get the rules of fuel-constrained route planning",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handlePlannerInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers. JSON numbers arrive as float64.

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func intArg(args map[string]interface{}, key string) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a whole number: %w", key, err)
		}
		return int(n), true, nil
	}
	return 0, false, fmt.Errorf("%s must be a number, got %T", key, raw)
}

func intSliceArg(args map[string]interface{}, key string) ([]int, error) {
	raw, _ := args[key].([]interface{})
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s must be a non-empty array of numbers", key)
	}
	out := make([]int, 0, len(raw))
	for i, item := range raw {
		n, ok, err := intArg(map[string]interface{}{key: item}, key)
		if err != nil || !ok {
			return nil, fmt.Errorf("%s[%d] must be a whole number", key, i)
		}
		out = append(out, n)
	}
	return out, nil
}

// Tool handlers

func (c *Client) handlePlanTrip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if network, _ := args["network"].(string); network != "" {
		body["network"] = network
	}
	for _, key := range []string{"fuel_capacity", "start", "destination"} {
		n, ok, err := intArg(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			body[key] = n
		}
	}
	if track, ok := args["track_path"].(bool); ok {
		body["track_path"] = track
	}

	var plan service.Plan
	if err := c.apiCall(ctx, "POST", "/api/plans", body, &plan); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlan(&plan)), nil
}

func (c *Client) handleSweepCapacity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	capacities, err := intSliceArg(args, "capacities")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{"capacities": capacities}
	if network, _ := args["network"].(string); network != "" {
		body["network"] = network
	}

	var result service.SweepResult
	if err := c.apiCall(ctx, "POST", "/api/sweeps", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSweep(&result)), nil
}

func (c *Client) handleMinimumCapacity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	network, _ := arguments(request)["network"].(string)
	if network == "" {
		return mcp.NewToolResultError("network is required"), nil
	}

	var report service.CapacityReport
	path := fmt.Sprintf("/api/networks/%s/minimum-capacity", url.PathEscape(network))
	if err := c.apiCall(ctx, "GET", path, nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCapacityReport(&report)), nil
}

func (c *Client) handleListNetworks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var networks []service.NetworkInfo
	if err := c.apiCall(ctx, "GET", "/api/networks", nil, &networks); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Networks (%d):\n\n", len(networks))
	for _, n := range networks {
		fmt.Fprintf(&b, "- %s: %s (%d cities, %d roads, capacity %d, %d stations)\n",
			n.NetworkID, n.Name, n.Cities, n.Roads, n.FuelCapacity, n.FuelStations)
		if n.Description != "" {
			fmt.Fprintf(&b, "  %s\n", n.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetNetwork(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	network, _ := arguments(request)["network"].(string)
	if network == "" {
		return mcp.NewToolResultError("network is required"), nil
	}

	var config engine.NetworkConfig
	if err := c.apiCall(ctx, "GET", "/api/networks/"+url.PathEscape(network), nil, &config); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNetwork(&config)), nil
}

func (c *Client) handleListPlans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if network, _ := args["network"].(string); network != "" {
		query.Set("network", network)
	}
	limit, ok, err := intArg(args, "limit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok {
		query.Set("limit", fmt.Sprint(limit))
	}

	path := "/api/plans"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var response struct {
		Count int             `json:"count"`
		Total int             `json:"total"`
		Plans []*service.Plan `json:"plans"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plans (%d of %d):\n\n", response.Count, response.Total)
	for _, p := range response.Plans {
		fmt.Fprintf(&b, "- %s [%s, capacity %d, %s] %s\n",
			p.ID, p.Network, p.FuelCapacity, p.CreatedAt.Format("15:04:05"), p.Summary())
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, _ := arguments(request)["plan_id"].(string)
	if planID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}

	var plan service.Plan
	if err := c.apiCall(ctx, "GET", "/api/plans/"+url.PathEscape(planID), nil, &plan); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlan(&plan)), nil
}

func (c *Client) handleDeletePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, _ := arguments(request)["plan_id"].(string)
	if planID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}

	var response map[string]string
	if err := c.apiCall(ctx, "DELETE", "/api/plans/"+url.PathEscape(planID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response["message"]), nil
}

func (c *Client) handlePlannerInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Fuel Route Planner - Instructions

NETWORK MODEL:
- Cities are numbered 1..N. Roads are undirected and have a non-negative distance.
- Parallel roads between the same pair of cities are allowed.
- Some cities are fuel stations.

FUEL RULES:
- The trip starts at the start city (default 1) with a full tank.
- Driving a road consumes fuel equal to its distance.
- A road can only be taken if its distance fits in the fuel remaining.
- Arriving at a fuel station refills the tank to capacity.
- The start city always counts as a refuel point.

WHAT "SHORTEST" MEANS:
The planner minimizes total distance over every route that never runs dry.
A longer detour through a station can beat a shorter road that the tank
cannot cover. If no route fits, the answer is "unreachable" (distance -1).

TOOLS:
- plan_trip: one optimal trip, with a step-by-step fuel log.
- sweep_capacity: distances for several tank sizes on one network.
  Larger tanks never make the optimal distance worse.
- minimum_capacity: the smallest tank that reaches the destination.

READING A NARRATION:
Each step shows the road, its distance, fuel left on arrival and whether the
tank was refilled there. The total at the end equals the reported distance.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatPlan(plan *service.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s on network %s\n", plan.ID, plan.Network)
	fmt.Fprintf(&b, "From city %d to city %d, fuel capacity %d\n\n", plan.Start, plan.Destination, plan.FuelCapacity)
	b.WriteString(plan.Narration())
	if plan.Found && len(plan.Path) > 0 {
		fmt.Fprintf(&b, "\n\nRoute: %s", formatRoute(plan.Path))
	}
	fmt.Fprintf(&b, "\nSearch: %d states popped, %d pushed\n", plan.Stats.Pops, plan.Stats.Pushes)
	return b.String()
}

func formatRoute(path []engine.City) string {
	parts := make([]string, len(path))
	for i, c := range path {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, " -> ")
}

func formatSweep(result *service.SweepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Capacity sweep on network %s:\n\n", result.Network)
	for _, e := range result.Entries {
		if e.Result.Found {
			fmt.Fprintf(&b, "- capacity %d: distance %d\n", e.Capacity, e.Result.Distance)
		} else {
			fmt.Fprintf(&b, "- capacity %d: unreachable\n", e.Capacity)
		}
	}
	return b.String()
}

func formatCapacityReport(report *service.CapacityReport) string {
	if !report.Reachable {
		return fmt.Sprintf("Network %s: the destination is not reachable with any tank size", report.Network)
	}
	return fmt.Sprintf("Network %s: minimum fuel capacity %d (distance %d at that capacity)",
		report.Network, report.MinimumCapacity, report.Distance)
}

func formatNetwork(config *engine.NetworkConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", config.Name)
	if config.Description != "" {
		fmt.Fprintf(&b, "%s\n", config.Description)
	}
	fmt.Fprintf(&b, "\nCities: %d\nFuel capacity: %d\n", config.Cities, config.FuelCapacity)

	stations := make([]string, len(config.FuelStations))
	for i, s := range config.FuelStations {
		stations[i] = fmt.Sprint(s)
	}
	fmt.Fprintf(&b, "Fuel stations: %s\n\nRoads (%d):\n", strings.Join(stations, ", "), len(config.Roads))
	for _, r := range config.Roads {
		fmt.Fprintf(&b, "  %d <-> %d: %d\n", r.From, r.To, r.Distance)
	}
	return b.String()
}
