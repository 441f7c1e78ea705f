package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/agleymelo/daily-diet-api/mcp"
)

func main() {
	if err := mcp.RunMCPServer(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
		os.Exit(1)
	}
}
