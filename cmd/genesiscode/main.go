package main

import (
	"os"

	"github.com/spf13/cobra"

	"genesiscode/internal/interfaces/cli/access"
	"genesiscode/internal/interfaces/cli/migrate"
	"genesiscode/internal/interfaces/cli/seed"
	"genesiscode/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "genesiscode",
		Short: "GenesisCode - learning platform access service",
		Long:  `GenesisCode decides which learning paths, levels and exercises a user may open, and manages the entitlements behind those decisions.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
		access.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
