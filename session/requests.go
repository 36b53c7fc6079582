package session

import (
	"math"
	"unicode/utf8"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/squad"
	"go.uber.org/zap"
)

const (
	reqSetName      byte = iota // UTF-8 name
	reqClickRole                // 1-byte role
	reqAddTarget                // 1-byte role, player name, 0, optional big endian uint16 price
	reqRemoveTarget             // 1-byte role, then player name
	reqSetBudget                // big endian uint16 budget
)

// handleRequest should only ever be called by the session's event-processing
// goroutine. Invalid requests are simply ignored, without sending error
// feedback to the client: a well-behaved client never sends them.
func (ss *session) handleRequest(req request) {
	if len(req.msg) < 1 {
		return
	}

	header, body := req.msg[0], req.msg[1:]

	switch header {
	case reqSetName:
		ss.handleSetName(req.src, body)
	case reqClickRole:
		ss.handleClickRole(req.src, body)
	case reqAddTarget:
		ss.handleAddTarget(req.src, body)
	case reqRemoveTarget:
		ss.handleRemoveTarget(req.src, body)
	case reqSetBudget:
		ss.handleSetBudget(req.src, body)
	default:
		ss.logger.Debug("Unknown request", zap.Uint8("header", header), zap.Stringer("client", req.src.id))
	}
}

func (ss *session) handleSetName(src *client, body []byte) {
	if len(body) == 0 || len(body) > maxNameLen || !utf8.Valid(body) {
		return
	}

	src.name = string(body)
	ss.broadcast(encodeSetMemberState(src.id, src.name))
}

func (ss *session) handleClickRole(src *client, body []byte) {
	if len(body) != 1 {
		return
	}

	r := planner.Role(body[0])
	if err := ss.switcher.Click(r); err != nil {
		ss.logger.Debug("Ignoring click", zap.Stringer("client", src.id), zap.Error(err))
		return
	}

	ss.switches.add(src.id, r)
	ss.broadcast(encodeNewSwitchState(src.id, r))
	ss.persist()
}

// handleAddTarget expects a role byte, the player name terminated by a null
// byte and optionally a big-endian uint16 price. Without a price the player's
// average quote from the database is used.
func (ss *session) handleAddTarget(src *client, body []byte) {
	if len(body) < 2 {
		return
	}

	r := planner.Role(body[0])
	nameBytes, rest := takeNullTerminatedString(body[1:])
	if nameBytes == nil || !utf8.Valid(nameBytes) {
		return
	}
	name := string(nameBytes)

	target := squad.Target{Name: name}
	p, known := ss.opts.Players.Lookup(r, name)
	if known {
		target.Name = p.Name
		target.Team = p.Team
	}

	switch {
	case len(rest) == 2:
		target.Price = int(uint16(rest[0])<<8 | uint16(rest[1]))
	case len(rest) == 0 && known:
		target.Price = int(math.Round(p.Prices.Avg))
	default:
		return
	}

	if err := ss.plan.AddTarget(r, target); err != nil {
		ss.logger.Debug("Rejected target", zap.Stringer("client", src.id), zap.String("player", name), zap.Error(err))
		return
	}

	ss.refreshPlan()
	ss.persist()
}

func (ss *session) handleRemoveTarget(src *client, body []byte) {
	if len(body) < 2 {
		return
	}

	if !ss.plan.RemoveTarget(planner.Role(body[0]), string(body[1:])) {
		return
	}

	ss.refreshPlan()
	ss.persist()
}

func (ss *session) handleSetBudget(src *client, body []byte) {
	if len(body) != 2 {
		return
	}

	budget := int(uint16(body[0])<<8 | uint16(body[1]))
	if err := ss.plan.SetBudget(budget); err != nil {
		ss.logger.Debug("Rejected budget", zap.Stringer("client", src.id), zap.Int("budget", budget), zap.Error(err))
		return
	}

	ss.refreshPlan()
	ss.persist()
}
