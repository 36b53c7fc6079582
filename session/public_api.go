// Package session serves planner sessions over WebSockets. Each session is a
// shared planning board: every member sees the same active role, player pool,
// budget and targets, and a role click by any member switches the role for
// everyone.
package session

import (
	"net/http"

	"github.com/gorilla/websocket"
	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/playerdb"
	"github.com/samclaus/squadplanner/store"
	"go.uber.org/zap"
)

type Server interface {
	// HandleGetSessions lists the open sessions as JSON.
	HandleGetSessions(http.ResponseWriter, *http.Request)
	// HandleJoinSession upgrades the request to a WebSocket and adds the
	// connection to a new or existing session.
	HandleJoinSession(http.ResponseWriter, *http.Request)
}

// Options configures a Server. Every field is optional.
type Options struct {
	Logger *zap.Logger

	// Players feeds the player pool view; without it the pool is empty and
	// targets need an explicit price.
	Players playerdb.Database

	// Store, when set, persists every session's plan under the session name
	// and restores it when a session with that name is opened again.
	Store *store.Store

	// Budget for new plans; zero means squad.DefaultBudget.
	Budget int

	// DefaultRole new sessions start on; zero means RoleGoalkeeper.
	DefaultRole planner.Role
}

func NewServer(u websocket.Upgrader, opts Options) Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultRole == 0 {
		opts.DefaultRole = planner.RoleGoalkeeper
	}

	return &server{
		upgrader: u,
		opts:     opts,
		sessions: make(map[uint32]*session),
		names:    make(map[string]struct{}),
	}
}
