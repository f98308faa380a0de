// Package packet implements the DVRIP wire frame: a fixed 20-byte header
// followed by a variable-length payload.
//
// It solves the same sticky-packet problem any length-prefixed protocol
// does: read the header first to learn the payload length, then read
// exactly that many bytes.
//
// Frame format (all multi-byte fields little-endian):
//
//	0  1  2  3  4        8        12      13 14     16       20
//	┌──┬──┬──┬──┬────────┬────────┬──┬──┬─────┬────────┐
//	│ff│01│ pad │session │ number │a │b │ type │ length │
//	│  │  │     │ uint32 │ uint32 │u8│u8│uint16│ uint32 │
//	└──┴──┴──┴──┴────────┴────────┴──┴──┴─────┴────────┘
//	                                                    └─ payload, length bytes
package packet

import (
	"encoding/binary"
	"fmt"
	"io"

	"dvrip/dverr"
)

const (
	magic   byte = 0xFF
	version byte = 0x01

	// MaxPayload is the largest payload a single packet may carry.
	MaxPayload = 16384

	headerSize = 20
)

// Packet is one frame of the DVRIP wire protocol. Fields A and B are
// overloaded: for control packets they carry a fragment count and a
// fragment index, for stream (data) packets a channel number and an
// end-of-stream flag. Packet itself is agnostic to which interpretation
// applies — that is a message-layer concern.
type Packet struct {
	Session uint32
	Number  uint32
	A       byte
	B       byte
	Type    uint16
	Payload []byte
}

// Fragments returns field A as a fragment count.
func (p Packet) Fragments() int { return int(p.A) }

// Fragment returns field B as a fragment index.
func (p Packet) Fragment() int { return int(p.B) }

// Channel returns field A as a stream channel number.
func (p Packet) Channel() int { return int(p.A) }

// End returns field B as a stream end-of-data flag.
func (p Packet) End() bool { return p.B != 0 }

// Encode writes the packet to w as a single frame.
func Encode(w io.Writer, p Packet) error {
	if len(p.Payload) > MaxPayload {
		return fmt.Errorf("packet: payload of %d bytes exceeds maximum of %d", len(p.Payload), MaxPayload)
	}

	buf := make([]byte, headerSize)
	buf[0] = magic
	buf[1] = version
	// bytes 2-3 are padding, left zero
	binary.LittleEndian.PutUint32(buf[4:8], p.Session)
	binary.LittleEndian.PutUint32(buf[8:12], p.Number)
	buf[12] = p.A
	buf[13] = p.B
	binary.LittleEndian.PutUint16(buf[14:16], p.Type)
	binary.LittleEndian.PutUint32(buf[16:headerSize], uint32(len(p.Payload)))

	if _, err := w.Write(buf); err != nil {
		return err
	}
	if len(p.Payload) == 0 {
		return nil
	}
	_, err := w.Write(p.Payload)
	return err
}

// Decode reads exactly one frame from r.
func Decode(r io.Reader) (Packet, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Packet{}, err
	}

	if buf[0] != magic {
		return Packet{}, dverr.Decodef("packet: invalid DVRIP magic byte 0x%02X", buf[0])
	}
	if buf[1] != version {
		return Packet{}, dverr.Decodef("packet: unknown DVRIP version 0x%02X", buf[1])
	}

	length := binary.LittleEndian.Uint32(buf[16:headerSize])
	if length > MaxPayload {
		return Packet{}, dverr.Decodef("packet: payload of %d bytes exceeds maximum of %d", length, MaxPayload)
	}

	p := Packet{
		Session: binary.LittleEndian.Uint32(buf[4:8]),
		Number:  binary.LittleEndian.Uint32(buf[8:12]),
		A:       buf[12],
		B:       buf[13],
		Type:    binary.LittleEndian.Uint16(buf[14:16]),
	}
	if length > 0 {
		p.Payload = make([]byte, length)
		if _, err := io.ReadFull(r, p.Payload); err != nil {
			return Packet{}, err
		}
	}
	return p, nil
}
