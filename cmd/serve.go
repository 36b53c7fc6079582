package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samclaus/squadplanner/playerdb"
	"github.com/samclaus/squadplanner/session"
	"github.com/samclaus/squadplanner/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve shared planning sessions over WebSockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.cfg.Listen
			}

			players, err := playerdb.Load(a.cfg.PlayersDB)
			if errors.Is(err, os.ErrNotExist) {
				a.logger.Warn("No players database, the player pool will be empty", zap.String("path", a.cfg.PlayersDB))
			} else if err != nil {
				return err
			} else {
				a.logger.Info("Loaded players database", zap.Int("players", players.Len()), zap.String("summary", playerdb.Summary(players)))
			}

			var st *store.Store
			if a.cfg.StorePath != "" {
				if st, err = store.Open(a.cfg.StorePath); err != nil {
					return err
				}
				defer st.Close()
			}

			role, err := a.cfg.DefaultRole()
			if err != nil {
				return err
			}

			s := session.NewServer(
				websocket.Upgrader{
					CheckOrigin: func(r *http.Request) bool { return true },
				},
				session.Options{
					Logger:      a.logger,
					Players:     players,
					Store:       st,
					Budget:      a.cfg.Planner.Budget,
					DefaultRole: role,
				},
			)

			mux := http.NewServeMux()
			mux.HandleFunc("/sessions", s.HandleGetSessions)
			mux.HandleFunc("/join", s.HandleJoinSession)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: listen, Handler: mux}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()

			a.logger.Info("Serving", zap.String("listen", listen))

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Hijacked WebSocket connections are not tracked by Shutdown; they
			// end with the process.
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}
