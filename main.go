package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/fuelroute/api"
	"github.com/wricardo/mcp-training/fuelroute/planner/config"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
	"github.com/wricardo/mcp-training/fuelroute/planner/store"
	"github.com/wricardo/mcp-training/fuelroute/transport/mcp"
	"github.com/wricardo/mcp-training/fuelroute/transport/websocket"
	"github.com/wricardo/mcp-training/fuelroute/validate"
)

const (
	Version = "1.0.0"
	AppName = "Fuel Route Planner"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "fuelroute",
		Usage:   AppName,
		Version: Version,
		Description: `Plans the shortest trip between cities when the tank only holds so much fuel.

Examples:
  fuelroute                         # Run HTTP server on default port 8080
  fuelroute --port 9090 serve       # Run HTTP server on port 9090
  fuelroute mcp                     # Run MCP stdio server
  fuelroute validate networks       # Validate every network file in a directory`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "network-dir",
				Value:   "networks",
				Usage:   "Directory containing network definitions",
				Sources: cli.EnvVars("NETWORK_DIR", "CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "plans-dir",
				Value:   "plans",
				Usage:   "Directory where computed plans are persisted",
				Sources: cli.EnvVars("PLANS_DIR"),
			},
			&cli.DurationFlag{
				Name:    "plan-ttl",
				Value:   24 * time.Hour,
				Usage:   "Age after which stored plans are removed",
				Sources: cli.EnvVars("PLAN_TTL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, metrics and MCP endpoint (default)",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server backed by an internal HTTP server",
				Action:  runStdioMCP,
			},
			{
				Name:      "validate",
				Usage:     "Validate every network file in a directory",
				ArgsUsage: "[dir]",
				Action:    runValidate,
			},
		},
	}
}

// app holds the wired services shared by every mode.
type app struct {
	planner     service.PlannerService
	plans       *store.Manager
	persistence *store.FilePersistence
	registry    *prometheus.Registry
}

func initializeServices(networkDir, plansDir string) (*app, error) {
	configManager, err := config.NewManager(networkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager: %w", err)
	}

	persistence, err := store.NewFilePersistence(plansDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan persistence: %w", err)
	}

	plans := store.NewManagerWithPersistence(persistence)
	if err := plans.LoadPersisted(); err != nil {
		log.Printf("Warning: Failed to load persisted plans: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{
		planner:     service.NewPlannerService(plans, configManager, service.NewMetrics(registry)),
		plans:       plans,
		persistence: persistence,
		registry:    registry,
	}, nil
}

func planCleanupRoutine(ctx context.Context, manager *store.Manager, ttl time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpired(ttl); removed > 0 {
				log.Printf("Cleaned up %d expired plans", removed)
			}
		}
	}
}

// filesystemSyncRoutine drops plans from memory whose files were removed.
func filesystemSyncRoutine(ctx context.Context, manager *store.Manager) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pruned := manager.PruneDeleted()
		for _, id := range pruned {
			log.Printf("Pruned plan %s from memory (file deleted)", id)
		}
		if len(pruned) > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned plans from memory", len(pruned))
		}
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST.
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	a, err := initializeServices(cmd.String("network-dir"), cmd.String("plans-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go planCleanupRoutine(ctx, a.plans, cmd.Duration("plan-ttl"))
	go filesystemSyncRoutine(ctx, a.plans)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(a.planner, hub, a.registry)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?network=<network_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)
		log.Printf("Metrics: http://%s/metrics", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Received shutdown signal. Shutting down...")
	case err := <-serveErr:
		stop()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?network=<network_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCP serves MCP on stdio. It proxies to an API server already
// listening on --port, or starts an internal one on a random local port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)

	externalURL := fmt.Sprintf("http://localhost:%d", cmd.Int("port"))
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		if resp != nil {
			resp.Body.Close()
		}
		log.Printf("No external API server found, starting internal HTTP server")

		a, err := initializeServices(cmd.String("network-dir"), cmd.String("plans-dir"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{
			Handler: api.NewServer(a.planner, nil, a.registry),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = "http://" + internalAddr
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cmd.String("network-dir")
	}

	results, err := validate.ValidateDir(dir)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	printValidation(w, results)

	if len(results) == 0 {
		return fmt.Errorf("no network files found in %s", dir)
	}
	if !validate.AllValid(results) {
		return errors.New("some networks have errors")
	}
	return nil
}

func printValidation(w io.Writer, results []validate.Result) {
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if validate.AllValid(results) {
		fmt.Fprintln(w, "✅ All networks are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some networks have errors")
	}
}
