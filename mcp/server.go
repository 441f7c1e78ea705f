// Package mcp exposes the daily diet API as Model Context Protocol tools.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/agleymelo/daily-diet-api/client"
	"github.com/agleymelo/daily-diet-api/internal/logger"
	"github.com/agleymelo/daily-diet-api/mcp/internal/handlers"
)

// config holds all settings for the MCP server. Variables use the
// DAILY_DIET_MCP_ prefix, e.g. DAILY_DIET_MCP_API_URL.
type config struct {
	APIURL            string        `envconfig:"API_URL" default:"http://localhost:3333"`
	Session           string        `envconfig:"SESSION" default:""`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	ServerName        string        `envconfig:"SERVER_NAME" default:"daily-diet-mcp-server"`
	ServerVersion     string        `envconfig:"SERVER_VERSION" default:"0.1.0"`
	HTTPPort          int           `envconfig:"HTTP_PORT" default:"3334"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout   time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout   time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
	APIRequestTimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
}

// loadConfig reads the environment, then lets command line flags override it.
func loadConfig(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{}
	if err := envconfig.Process("DAILY_DIET_MCP", cfg); err != nil {
		return nil, fmt.Errorf("failed to process MCP config: %w", err)
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the daily diet API")
	fs.StringVar(&cfg.Session, "session", cfg.Session, "Existing sessionId cookie value")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.IntVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "Port for the streamable HTTP transport")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// newServer builds the MCP server with every tool registered.
func newServer(cfg *config, c *client.Client) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithToolCapabilities(true),
	)
	for name, h := range map[string]toolRegisterer{
		"user": handlers.NewUserHandler(c),
		"meal": handlers.NewMealHandler(c),
	} {
		if err := h.RegisterTools(s); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", name, err)
		}
	}
	return s, nil
}

// RunMCPServer starts the MCP server over stdio or streamable HTTP.
func RunMCPServer() error {
	cfg, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	// stdout carries the stdio protocol, so logs always go to stderr.
	log.Logger = logger.NewWithWriter("daily-diet-mcp-server", os.Stderr).With().Caller().Logger()
	logger.SetLevel(cfg.LogLevel)

	opts := []client.Option{client.WithHTTPTimeout(cfg.APIRequestTimeout)}
	if cfg.Session != "" {
		opts = append(opts, client.WithSession(cfg.Session))
	}
	log.Info().Str("api_url", cfg.APIURL).Bool("session_preset", cfg.Session != "").Msg("Creating daily diet client")
	dietClient, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}

	s, err := newServer(cfg, dietClient)
	if err != nil {
		return err
	}

	if shouldUseStdio() {
		log.Info().Msg("Starting daily diet MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(cfg, s)
}

func serveHTTP(cfg *config, s *server.MCPServer) error {
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Info().Str("addr", addr).Msg("Starting daily diet MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	srv := &http.Server{
		Addr:         addr,
		Handler:      streamSrv,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: 0, // SSE streams have no deadline
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio picks the transport: MCP_STDIO / MCP_HTTP force one,
// otherwise stdio is used when stdin is not a terminal.
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
