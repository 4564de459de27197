// Package main is the entry point for the dungeon server and CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Roguelike dungeon simulation",
	Long: `dungeon runs seeded roguelike playthroughs: it generates floors, simulates
combat, enemy AI and corruption tick by tick, and banks meta-progression between
runs. It serves runs over gRPC and websocket, or plays them headlessly.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	bindConfigFlags(rootCmd)

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(progressionCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
