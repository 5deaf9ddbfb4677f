package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/skillmap-labs/skillmap-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
