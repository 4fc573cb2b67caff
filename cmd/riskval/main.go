package main

import (
	"os"

	"github.com/wonny/riskval/cmd/riskval/commands"
)

// main is the entry point for the riskval CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/riskval [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
