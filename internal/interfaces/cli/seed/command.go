package seed

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"genesiscode/internal/infrastructure/permission"
	"genesiscode/internal/infrastructure/repository"
	"genesiscode/internal/infrastructure/seed"
	"genesiscode/internal/interfaces/cli/bootstrap"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/db"
)

var (
	env        string
	configPath string
	file       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog, plans and users from a YAML file",
		Long:  `Insert categories, paths, levels, plans and users described in a YAML seed file. Roles are assigned after the data has committed.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	doc, err := seed.Parse(f)
	if err != nil {
		return err
	}

	rt, err := bootstrap.Init(cmd.Context(), bootstrap.ResolveEnv(env), configPath, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	enforcer, err := permission.NewEnforcer(rt.DB, rt.Config.Auth.CasbinModelPath, rt.Log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}

	repos := repository.NewRepositories(rt.DB, rt.Log)
	seeder := seed.NewSeeder(db.NewTransactionManager(rt.DB), repos.Catalog, repos.Plans, repos.Users, enforcer, rt.Log.Named("seed"))

	res, err := seeder.Apply(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories, %d paths, %d levels, %d plans, %d users\n",
		res.Categories, res.Paths, res.Levels, res.Plans, res.Users)
	return nil
}
