package session

import (
	"encoding/binary"
	"encoding/json"

	"github.com/google/uuid"
	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/playerdb"
	"github.com/samclaus/squadplanner/squad"
)

// This file contains constants and serialization code for every kind of
// message a session sends to clients to update their state.

const (
	stateConnection    byte = iota // 4-byte session ID (big endian uint32) then 16-byte UUID
	stateAllMembers                // mapping of UUID->name as JSON
	stateSetMember                 // 16-byte UUID then name, for a join or rename
	stateDeleteMember              // 16-byte UUID of the member that left
	stateActiveRole                // 1-byte role
	statePlayerPool                // 1-byte role then JSON array of players
	stateBudget                    // JSON budget summary
	stateTargets                   // 1-byte role then JSON array of targets
	stateSwitchHistory             // uint32 count of switches ever, then retained entries (16-byte UUID, 1-byte role)
	stateNewSwitch                 // 16-byte UUID, 1-byte role
)

func encodeConnectionState(sessionID uint32, clientID uuid.UUID) []byte {
	msg := make([]byte, 0, 1+4+16)
	msg = append(msg, stateConnection)
	msg = binary.BigEndian.AppendUint32(msg, sessionID)
	return append(msg, clientID[:]...)
}

func encodeAllMembersState(members map[*client]struct{}) []byte {
	names := make(map[string]string, len(members))
	for c := range members {
		names[c.id.String()] = c.name
	}
	return appendJSON([]byte{stateAllMembers}, names)
}

func encodeSetMemberState(clientID uuid.UUID, name string) []byte {
	msg := make([]byte, 0, 1+16+len(name))
	msg = append(msg, stateSetMember)
	msg = append(msg, clientID[:]...)
	return append(msg, name...)
}

func encodeDeleteMemberState(clientID uuid.UUID) []byte {
	msg := make([]byte, 0, 1+16)
	msg = append(msg, stateDeleteMember)
	return append(msg, clientID[:]...)
}

func encodeActiveRoleState(r planner.Role) []byte {
	return []byte{stateActiveRole, byte(r)}
}

func encodePlayerPoolState(r planner.Role, pool []playerdb.Player) []byte {
	return appendJSON([]byte{statePlayerPool, byte(r)}, pool)
}

func encodeBudgetState(b squad.Budget) []byte {
	return appendJSON([]byte{stateBudget}, b)
}

func encodeTargetsState(r planner.Role, targets []squad.Target) []byte {
	return appendJSON([]byte{stateTargets, byte(r)}, targets)
}

func encodeNewSwitchState(src uuid.UUID, r planner.Role) []byte {
	msg := make([]byte, 0, 1+16+1)
	msg = append(msg, stateNewSwitch)
	msg = append(msg, src[:]...)
	return append(msg, byte(r))
}

// appendJSON appends v's JSON encoding to prefix. The values encoded here are
// plain data, so a marshalling failure is a programming error.
func appendJSON(prefix []byte, v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic("session: encode state: " + err.Error())
	}
	return append(prefix, raw...)
}
