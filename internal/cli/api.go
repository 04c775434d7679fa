package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AI2HU/dbmanager/internal/api"
	"github.com/AI2HU/dbmanager/internal/logger"
)

func (a *app) apiCommand() *cobra.Command {
	var (
		apiPort    string
		apiHost    string
		corsOrigin string
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the REST API server",
		Long: `Start a REST API server exposing the same operations as the menu:
- Users (Create, List, Delete with their posts)
- Posts (Create, List per user)

The API runs on HTTP without authentication.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAPI(cmd, apiHost, apiPort, corsOrigin)
		},
	}

	cmd.Flags().StringVarP(&apiPort, "port", "p", "", "Port to run the API server on (overrides config)")
	cmd.Flags().StringVarP(&apiHost, "host", "H", "", "Host to bind the API server to (overrides config)")
	cmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "", "CORS origin to allow (overrides config, use '*' for all origins)")

	return cmd
}

func (a *app) runAPI(cmd *cobra.Command, host, port, corsOrigin string) error {
	apiCfg := a.cfg.API
	if host == "" {
		host = apiCfg.Host
	}
	if port == "" {
		port = apiCfg.Port
	}
	if corsOrigin == "" {
		corsOrigin = apiCfg.CORSOrigin
	}

	defer a.closeDatabase()

	if err := validatePort(port); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🚀 Starting %s API Server\n", a.variant.use)
	fmt.Fprintf(out, "===========================\n")
	fmt.Fprintf(out, "Host: %s\n", host)
	fmt.Fprintf(out, "Port: %s\n", port)
	fmt.Fprintf(out, "CORS Origin: %s\n", corsOrigin)
	fmt.Fprintf(out, "URL: http://%s:%s/api/v1\n", host, port)
	fmt.Fprintln(out)

	ctx, cancel := a.connectContext()
	err := a.database.Ping(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	server := api.NewServer(a.database, api.Options{
		CORSOrigin: corsOrigin,
		RateLimit:  apiCfg.RateLimit,
		Burst:      apiCfg.Burst,
		Timeout:    a.cfg.OperationTimeout,
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	go func() {
		<-c
		fmt.Fprintln(out, "\n🛑 Shutting down API server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("api: shutdown failed: %v", err)
		}
	}()

	fmt.Fprintln(out, "📚 Available Endpoints:")
	fmt.Fprintln(out, "    GET    /api/v1/health             - Health check")
	fmt.Fprintln(out, "    GET    /api/v1/users              - List users")
	fmt.Fprintln(out, "    POST   /api/v1/users              - Create user")
	fmt.Fprintln(out, "    DELETE /api/v1/users/:id          - Delete user and posts")
	fmt.Fprintln(out, "    GET    /api/v1/users/:id/posts    - List user posts")
	fmt.Fprintln(out, "    POST   /api/v1/users/:id/posts    - Create post")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")

	return server.Run(fmt.Sprintf("%s:%s", host, port))
}
