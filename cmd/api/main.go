// ABOUTME: Main entry point for the Mai Analytics API and fragment tagging CLI
// ABOUTME: Parses the kong command line and dispatches to serve or tag

package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the root command line
type CLI struct {
	Config  string   `short:"c" help:"Analytics options file (YAML)" type:"path"`
	EnvFile []string `name:"env-file" help:"Extra .env files loaded before the environment" type:"path"`

	Serve ServeCmd `cmd:"" default:"1" help:"Start the HTTP API server"`
	Tag   TagCmd   `cmd:"" help:"Tag an HTML fragment read from stdin and write it to stdout"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mai-analytics"),
		kong.Description("Matomo content tracking attributes and cached view counts"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
