package main

import (
	"os"

	"github.com/wonny/siphon/cmd/siphon/commands"
)

// main is the entry point for the siphon CLI
// ⭐ 统一 CLI 入口: go run ./cmd/siphon [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
