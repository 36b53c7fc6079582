package main

import (
	"fmt"
	"os"

	"github.com/samclaus/squadplanner/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what PersistentPreRunE sets up for the subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "squadplanner",
		Short: "Fantasy football auction planner",
		Long: `squadplanner serves a shared auction planning board with a role menu
(P, D, C, A), builds the players database it shows, and checks that the
role menu behaves: exactly one active button, matching the planner state.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			zc := zap.NewProductionConfig()
			level, err := zap.ParseAtomicLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log_level: %w", err)
			}
			zc.Level = level
			if a.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			if a.logger, err = zc.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "squadplanner.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVerifyCmd(a),
		newServeCmd(a),
		newBuildDBCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
