package main

import (
	"fmt"

	"github.com/samclaus/squadplanner/playerdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBuildDBCmd(a *app) *cobra.Command {
	var dir, out string

	cmd := &cobra.Command{
		Use:   "builddb",
		Short: "Aggregate price guide spreadsheets into the players database",
		Long: `Reads every known price guide (fantaboom, fantaclassic, profeta, sos_fanta)
for the current and previous season from --dir, as .xlsx or .csv, and writes
one entry per player and role with min/max/avg prices and per-season stats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = a.cfg.PlayersDB
			}

			db, err := playerdb.Build(dir, playerdb.DefaultSources, a.logger)
			if err != nil {
				return err
			}
			if err := db.Save(out); err != nil {
				return err
			}

			a.logger.Info("Wrote players database", zap.String("path", out), zap.Int("players", db.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", out, playerdb.Summary(db))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory holding the price guide files")
	cmd.Flags().StringVar(&out, "out", "", "output path (default players_db from config)")
	return cmd
}
