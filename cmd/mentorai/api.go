package main

import (
	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// --server is persistent so all subcommands inherit it
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8090", "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}
