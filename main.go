package main

import (
	"github.com/joho/godotenv"

	"github.com/Vicking28/daily-ai-news/cmd"
)

// Set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Secrets may live in a local .env during development.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
