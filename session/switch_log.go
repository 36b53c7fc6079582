package session

import (
	"encoding/binary"

	"github.com/google/uuid"
	planner "github.com/samclaus/squadplanner"
)

const (
	maxSwitchHistory = 50
	switchEntryLen   = 16 + 1 // 16-byte client UUID, 1-byte role
)

// switchLog is a ring buffer of the most recent role switches, replayed to
// members when they join.
type switchLog struct {
	buff [maxSwitchHistory * switchEntryLen]byte
	hist uint32 // switches ever recorded, not just retained
}

func (sl *switchLog) add(clientID uuid.UUID, r planner.Role) {
	pos := (sl.hist % maxSwitchHistory) * switchEntryLen
	copy(sl.buff[pos:pos+16], clientID[:])
	sl.buff[pos+16] = byte(r)
	sl.hist++
}

func (sl *switchLog) retained() int {
	if sl.hist > maxSwitchHistory {
		return maxSwitchHistory
	}
	return int(sl.hist)
}

// 4 bytes for the uint32 count of switches ever recorded, then the retained
// entries.
func (sl *switchLog) encodedHistoryLen() int {
	return 4 + sl.retained()*switchEntryLen
}

// appendHistory appends the count and the retained entries, oldest first.
func (sl *switchLog) appendHistory(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, sl.hist)

	if sl.hist <= maxSwitchHistory {
		return append(dst, sl.buff[:int(sl.hist)*switchEntryLen]...)
	}

	// The buffer has wrapped: the oldest entry sits where the next write goes
	split := int(sl.hist%maxSwitchHistory) * switchEntryLen
	dst = append(dst, sl.buff[split:]...)
	return append(dst, sl.buff[:split]...)
}

func (sl *switchLog) encodeHistoryState() []byte {
	msg := make([]byte, 0, 1+sl.encodedHistoryLen())
	msg = append(msg, stateSwitchHistory)
	return sl.appendHistory(msg)
}
