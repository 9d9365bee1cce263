// Package main is the entry point for the bonsai CLI.
//
// All functionality lives in internal/cli. Build-time variables are
// injected via ldflags during release builds:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse HEAD)"
package main

import (
	"github.com/mmr-tortoise/bonsai/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
