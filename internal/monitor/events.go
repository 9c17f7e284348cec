// Package monitor streams bus activity to debugging clients. The same
// framed event format travels two transports: USB serial from a
// physical board (decoded by cmd/tconsole) and websocket frames from a
// simulated run (served by the Hub).
package monitor

import "encoding/binary"

// Event type bytes opening each frame.
const (
	// EventCycle is one serviced bus cycle: romc, dbus, pc0 (big
	// endian), 5 bytes total.
	EventCycle byte = 0xC0
	// EventLoad announces a completed image load: a 64-bit image
	// fingerprint, 9 bytes total.
	EventLoad byte = 0xC1
)

// CycleEvent is one serviced bus cycle as the dispatcher saw it.
type CycleEvent struct {
	ROMC uint8
	DBus uint8
	PC0  uint16
}

// AppendCycle appends the wire form of a cycle event to dst.
func AppendCycle(dst []byte, e CycleEvent) []byte {
	return append(dst, EventCycle, e.ROMC, e.DBus, uint8(e.PC0>>8), uint8(e.PC0))
}

// DecodeCycle parses the body of a cycle event (the four bytes after
// the type byte).
func DecodeCycle(body []byte) (CycleEvent, bool) {
	if len(body) < 4 {
		return CycleEvent{}, false
	}
	return CycleEvent{
		ROMC: body[0],
		DBus: body[1],
		PC0:  uint16(body[2])<<8 | uint16(body[3]),
	}, true
}

// AppendLoad appends the wire form of a load event to dst.
func AppendLoad(dst []byte, fingerprint uint64) []byte {
	dst = append(dst, EventLoad)
	return binary.BigEndian.AppendUint64(dst, fingerprint)
}

// DecodeLoad parses the body of a load event.
func DecodeLoad(body []byte) (uint64, bool) {
	if len(body) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(body), true
}

// BodyLen returns the body length that follows an event type byte, or
// -1 for an unknown type. Stream decoders use it to stay framed.
func BodyLen(event byte) int {
	switch event {
	case EventCycle:
		return 4
	case EventLoad:
		return 8
	}
	return -1
}
