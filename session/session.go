package session

import (
	"context"
	"sync/atomic"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/squad"
	"go.uber.org/zap"
)

const maxNameLen = 32

type request struct {
	src *client
	msg []byte
}

// session owns one shared plan. All fields below the channels are only
// touched by the processEventsUntilClosed goroutine.
type session struct {
	ID   uint32
	Name string

	register   chan *client
	unregister chan *client
	requests   chan request
	done       chan struct{}

	// Read by the HTTP handlers listing sessions.
	memberCount atomic.Int32

	members  map[*client]struct{}
	started  bool
	plan     *squad.Plan
	switcher *planner.Switcher
	switches switchLog
	opts     Options
	logger   *zap.Logger
}

func newSession(id uint32, name string, plan *squad.Plan, active planner.Role, opts Options) (*session, error) {
	ss := &session{
		ID:         id,
		Name:       name,
		register:   make(chan *client),
		unregister: make(chan *client),
		requests:   make(chan request),
		done:       make(chan struct{}),
		members:    make(map[*client]struct{}),
		plan:       plan,
		opts:       opts,
		logger:     opts.Logger.With(zap.Uint32("session", id), zap.String("session_name", name)),
	}

	sw, err := planner.NewSwitcher(active, planner.NewButtons(), ss.logger, ss)
	if err != nil {
		return nil, err
	}
	ss.switcher = sw

	// Select the starting role so its button is marked before anyone joins.
	if err := sw.Click(active); err != nil {
		return nil, err
	}
	return ss, nil
}

func (ss *session) processEventsUntilClosed() {
	defer close(ss.done)

	ss.logger.Info("Session opened")

	for {
		select {
		case c := <-ss.register:
			ss.addMember(c)
		case c := <-ss.unregister:
			ss.removeMember(c)
		case req := <-ss.requests:
			if _, isMember := ss.members[req.src]; isMember {
				ss.handleRequest(req)
			}
		}

		if ss.started && len(ss.members) == 0 {
			ss.logger.Info("Session closed")
			return
		}
	}
}

func (ss *session) addMember(c *client) {
	ss.started = true

	// The same person may connect twice (another tab); keep only the newest
	// connection for their ID.
	for other := range ss.members {
		if other.id == c.id {
			ss.removeMember(other)
		}
	}

	ss.members[c] = struct{}{}
	ss.memberCount.Store(int32(len(ss.members)))

	c.Send(encodeConnectionState(ss.ID, c.id))
	c.Send(encodeAllMembersState(ss.members))
	c.Send(ss.switches.encodeHistoryState())
	ss.sendView(c, ss.switcher.Active())

	ss.broadcastExcept(c, encodeSetMemberState(c.id, c.name))
	ss.logger.Debug("Member joined", zap.Stringer("client", c.id), zap.String("name", c.name))
}

// removeMember is idempotent: a client kicked for being slow still sends its
// own unregister later.
func (ss *session) removeMember(c *client) {
	if _, isMember := ss.members[c]; !isMember {
		return
	}

	delete(ss.members, c)
	ss.memberCount.Store(int32(len(ss.members)))
	close(c.send)

	// Another connection may still stand in for the same person.
	for other := range ss.members {
		if other.id == c.id {
			return
		}
	}
	ss.broadcast(encodeDeleteMemberState(c.id))
	ss.logger.Debug("Member left", zap.Stringer("client", c.id))
}

func (ss *session) broadcast(msg []byte) {
	for c := range ss.members {
		c.Send(msg)
	}
}

func (ss *session) broadcastExcept(skip *client, msg []byte) {
	for c := range ss.members {
		if c != skip {
			c.Send(msg)
		}
	}
}

// sendView brings a single member up to date with the role view.
func (ss *session) sendView(c *client, r planner.Role) {
	c.Send(encodeActiveRoleState(r))
	c.Send(encodePlayerPoolState(r, ss.opts.Players.Pool(r)))
	c.Send(encodeBudgetState(ss.plan.Summary(r)))
	c.Send(encodeTargetsState(r, ss.plan.Targets(r)))
}

// The session is the view layer for its switcher: every refresh hook becomes a
// state broadcast to all members.

func (ss *session) Render(r planner.Role) {
	ss.broadcast(encodeActiveRoleState(r))
}

func (ss *session) Setup(r planner.Role) {
	ss.broadcast(encodePlayerPoolState(r, ss.opts.Players.Pool(r)))
}

func (ss *session) RefreshBudget(r planner.Role) {
	ss.broadcast(encodeBudgetState(ss.plan.Summary(r)))
}

func (ss *session) RefreshTargets(r planner.Role) {
	ss.broadcast(encodeTargetsState(r, ss.plan.Targets(r)))
}

// refreshPlan re-sends the plan views for the active role without switching.
func (ss *session) refreshPlan() {
	active := ss.switcher.Active()
	ss.RefreshBudget(active)
	ss.RefreshTargets(active)
}

func (ss *session) persist() {
	if ss.opts.Store == nil {
		return
	}

	if err := ss.opts.Store.SavePlan(context.Background(), ss.Name, ss.switcher.Active(), ss.plan); err != nil {
		ss.logger.Error("Failed to save plan", zap.Error(err))
	}
}
