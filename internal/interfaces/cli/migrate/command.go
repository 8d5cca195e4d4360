package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"genesiscode/internal/infrastructure/database"
	"genesiscode/internal/infrastructure/migration"
	"genesiscode/internal/interfaces/cli/bootstrap"
	"genesiscode/internal/shared/constants"
)

var (
	env        string
	configPath string
	name       string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration file for the configured database driver.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func openStrategy(cmd *cobra.Command) (*bootstrap.Runtime, *migration.GooseStrategy, error) {
	rt, err := bootstrap.Init(cmd.Context(), bootstrap.ResolveEnv(env), configPath, false)
	if err != nil {
		return nil, nil, err
	}
	driver := database.DriverName(&rt.Config.Database)
	return rt, migration.NewGooseStrategy(driver, rt.Log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, strategy, err := openStrategy(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running up migrations", "environment", rt.Env)

	if err := strategy.Migrate(rt.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	rt.Log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	rt, strategy, err := openStrategy(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Infow("running down migrations", "environment", rt.Env, "steps", steps)

	if err := strategy.MigrateDown(rt.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	rt.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, strategy, err := openStrategy(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	version, err := strategy.GetVersion(rt.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", rt.Env)
	fmt.Fprintf(out, "  Driver:          %s\n", database.DriverName(&rt.Config.Database))
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(rt.DB); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.LoadConfig(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}

	strategy := migration.NewGooseStrategy(database.DriverName(&cfg.Database), log)
	if err := strategy.Create(name); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created successfully\n", name)
	return nil
}
