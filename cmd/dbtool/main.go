package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hos-trip-planner/internal/adapters/repositories"
	"hos-trip-planner/internal/app"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/platform/logging"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "dbtool",
	Short:        "Manage the geocode and route cache database",
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the cache schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, s *app.Store, _ *config.Config) error {
			return repositories.InitSchema(ctx, s.DB)
		})
	},
}

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load known locations into the geocode cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, s *app.Store, cfg *config.Config) error {
			path := cfg.SeedPath
			if seedPath != "" {
				path = seedPath
			}
			if err := repositories.InitSchema(ctx, s.DB); err != nil {
				return err
			}
			n, err := repositories.SeedKnownLocations(ctx, s.Geocodes, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d locations from %s\n", n, path)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.Get("CONFIG_FILE", ""), "configuration file (yaml or json)")
	seedCmd.Flags().StringVar(&seedPath, "file", "", "seed file (defaults to seed_path)")
	rootCmd.AddCommand(initCmd, seedCmd)
}

func withStore(ctx context.Context, fn func(context.Context, *app.Store, *config.Config) error) error {
	log := logging.New("dbtool")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	log.Info().Str("dialect", s.Dialect.String()).Msg("connected")
	return fn(ctx, s, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
