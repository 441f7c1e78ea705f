package mcp

import (
	"context"
	"flag"
	"net/http/httptest"
	"testing"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agleymelo/daily-diet-api/client"
)

var expectedTools = []string{
	"register_user", "log_meal", "list_meals", "get_meal",
	"update_meal", "delete_meal", "diet_metrics",
}

func testServer(t *testing.T) *server.MCPServer {
	t.Helper()
	sdk, err := client.New("http://127.0.0.1:1")
	require.NoError(t, err)
	s, err := newServer(&config{ServerName: "test", ServerVersion: "1.0.0"}, sdk)
	require.NoError(t, err)
	return s
}

func initialize(t *testing.T, ctx context.Context, c *mcpclient.Client) {
	t.Helper()
	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
}

func toolNames(t *testing.T, ctx context.Context, c *mcpclient.Client) []string {
	t.Helper()
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestServerTransports(t *testing.T) {
	s := testServer(t)

	t.Run("InProcess", func(t *testing.T) {
		tr := transport.NewInProcessTransport(s)
		require.NoError(t, tr.Start(context.Background()))
		defer tr.Close()

		c := mcpclient.NewClient(tr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		initialize(t, ctx, c)
		assert.ElementsMatch(t, expectedTools, toolNames(t, ctx, c))
	})

	t.Run("StreamableHTTP", func(t *testing.T) {
		streamSrv := server.NewStreamableHTTPServer(s, server.WithEndpointPath("/mcp"))
		httpSrv := httptest.NewServer(streamSrv)
		defer httpSrv.Close()

		tr, err := transport.NewStreamableHTTP(httpSrv.URL + "/mcp")
		require.NoError(t, err)
		require.NoError(t, tr.Start(context.Background()))
		defer tr.Close()

		c := mcpclient.NewClient(tr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		initialize(t, ctx, c)
		assert.ElementsMatch(t, expectedTools, toolNames(t, ctx, c))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DAILY_DIET_MCP_API_URL", "http://api:3333")
	t.Setenv("DAILY_DIET_MCP_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := loadConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"--port", "4000"})
	require.NoError(t, err)
	assert.Equal(t, "http://api:3333", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4000, cfg.HTTPPort)
	assert.Equal(t, "daily-diet-mcp-server", cfg.ServerName)

	cfg, err = loadConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"--api-url", "http://other"})
	require.NoError(t, err)
	assert.Equal(t, "http://other", cfg.APIURL)
}

func TestShouldUseStdio_EnvOverrides(t *testing.T) {
	t.Setenv("MCP_STDIO", "true")
	assert.True(t, shouldUseStdio())

	t.Setenv("MCP_STDIO", "")
	t.Setenv("MCP_HTTP", "true")
	assert.False(t, shouldUseStdio())
}
