package main

import (
	"os"

	"github.com/wonny/ratioservice/cmd/ratio/commands"
)

// main is the entry point for the ratio service CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/ratio [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
