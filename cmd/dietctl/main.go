package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agleymelo/daily-diet-api/client"
)

type globalFlags struct {
	api     string
	session string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "dietctl",
		Short:         "CLI client for the daily diet REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.api, "api", "a", envOr("DAILY_DIET_API", "http://localhost:3333"), "Daily diet service base URL")
	rootCmd.PersistentFlags().StringVarP(&g.session, "session", "s", os.Getenv("DAILY_DIET_SESSION"), "Session id (env DAILY_DIET_SESSION)")

	rootCmd.AddCommand(newUsersCmd(g), newMealsCmd(g))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (g *globalFlags) client(requireSession bool) (*client.Client, error) {
	if requireSession && g.session == "" {
		return nil, fmt.Errorf("--session (or DAILY_DIET_SESSION) required; run `dietctl users register` first")
	}
	opts := []client.Option{client.WithRetries(2)}
	if g.session != "" {
		opts = append(opts, client.WithSession(g.session))
	}
	return client.New(g.api, opts...)
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
