// Package access provides operator commands for inspecting decisions and managing roles.
package access

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	accessDomain "genesiscode/internal/domain/access"
	"genesiscode/internal/infrastructure/cache"
	"genesiscode/internal/infrastructure/permission"
	"genesiscode/internal/interfaces/cli/bootstrap"
	httpRouter "genesiscode/internal/interfaces/http"
	"genesiscode/internal/shared/constants"
)

var (
	env        string
	configPath string

	userID     uint
	pathID     uint
	levelID    uint
	exerciseID uint
	sequential bool

	role string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Inspect access decisions and manage roles",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newCheckCommand(), newRolesCommand())
	return cmd
}

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate access for a user and print the decision as JSON",
		RunE:  runCheck,
	}

	cmd.Flags().UintVar(&userID, "user", 0, "User ID (required)")
	cmd.Flags().UintVar(&pathID, "path", 0, "Learning path ID (required)")
	cmd.Flags().UintVar(&levelID, "level", 0, "Level ID")
	cmd.Flags().UintVar(&exerciseID, "exercise", 0, "Exercise ID (requires --level)")
	cmd.Flags().BoolVar(&sequential, "sequential", false, "Only run the sequential unlock check for --level")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	q := accessDomain.Query{UserID: userID, PathID: pathID, LevelID: levelID, ExerciseID: exerciseID}
	if err := q.Validate(); err != nil {
		return err
	}
	if sequential && levelID == 0 {
		return fmt.Errorf("--sequential requires --level")
	}

	rt, err := bootstrap.Init(cmd.Context(), bootstrap.ResolveEnv(env), configPath, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(rt.DB, rt.Redis, rt.Config, rt.Log)
	if err != nil {
		return err
	}
	engine := container.AccessEngine()

	var decision accessDomain.Decision
	if sequential {
		decision = engine.CheckSequentialLevelAccess(cmd.Context(), userID, pathID, levelID)
	} else {
		decision = engine.EvaluateAccess(cmd.Context(), q)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(decision)
}

func newRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List, grant or revoke a user's roles",
	}
	cmd.PersistentFlags().UintVar(&userID, "user", 0, "User ID (required)")
	_ = cmd.MarkPersistentFlagRequired("user")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the roles assigned to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnforcer(cmd, func(e *permission.Enforcer) error {
				roles, err := e.GetRolesForUser(userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(roles, "\n"))
				return nil
			}, false)
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Assign a role to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnforcer(cmd, func(e *permission.Enforcer) error {
				return e.AddRoleForUser(userID, role)
			}, true)
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove a role from a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnforcer(cmd, func(e *permission.Enforcer) error {
				return e.DeleteRoleForUser(userID, role)
			}, true)
		},
	}

	for _, c := range []*cobra.Command{add, remove} {
		c.Flags().StringVar(&role, "role", constants.RoleAdmin, "Role name")
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

// withEnforcer runs fn against the role store. Mutations drop the user's cached decisions.
func withEnforcer(cmd *cobra.Command, fn func(e *permission.Enforcer) error, mutates bool) error {
	rt, err := bootstrap.Init(cmd.Context(), bootstrap.ResolveEnv(env), configPath, mutates)
	if err != nil {
		return err
	}
	defer rt.Close()

	e, err := permission.NewEnforcer(rt.DB, rt.Config.Auth.CasbinModelPath, rt.Log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := fn(e); err != nil {
		return err
	}

	if mutates && rt.Redis != nil {
		decisions := cache.NewRedisDecisionCache(rt.Redis, rt.Log.Named("cache.decision"))
		if err := decisions.InvalidateUser(cmd.Context(), userID); err != nil {
			rt.Log.Warnw("failed to invalidate cached decisions", "user_id", userID, "error", err)
		}
	}
	return nil
}
