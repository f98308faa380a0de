// Package message implements the DVRIP message model: typed control
// messages that map to and from JSON packet payloads, the reply
// demultiplexing filters that reassemble them out of a packet stream, and
// the closed status-code taxonomy devices report.
package message

import (
	"bytes"
	"encoding/json"
	"errors"

	"dvrip/dverr"
	"dvrip/packet"
)

// Message is anything that can be serialized to and parsed from a DVRIP
// control-packet JSON payload.
type Message interface {
	Type() uint16
	ForJSON() (map[string]any, error)
}

// Decoder builds a Message of a known type from its decoded JSON object.
type Decoder func(map[string]any) (Message, error)

// Request is a Message that expects a particular reply type in response.
type Request interface {
	Message
	ReplyType() uint16
	DecodeReply(map[string]any) (Message, error)
}

// StreamRequest is a Request whose reply additionally opens a raw data
// stream on a second, paired connection — used by the live-view and
// playback claim/data exchange.
type StreamRequest interface {
	Request
	DataType() uint16
}

// ToPackets splits msg's JSON encoding into one or more packets addressed
// to session, all carrying sequence number number.
func ToPackets(session Session, number uint32, msg Message) ([]packet.Packet, error) {
	fields, err := msg.ForJSON()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	chunks := chunk(data, packet.MaxPayload)
	var fragments byte
	if len(chunks) > 1 {
		fragments = byte(len(chunks))
	}
	packets := make([]packet.Packet, len(chunks))
	for i, c := range chunks {
		packets[i] = packet.Packet{
			Session: session.ID,
			Number:  number,
			A:       fragments,
			B:       byte(i),
			Type:    msg.Type(),
			Payload: c,
		}
	}
	return packets, nil
}

func chunk(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return [][]byte{data}
	}
	var chunks [][]byte
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}

// FromPackets reassembles a sequence of same-type, same-number packets
// (ordered by fragment index) into decoded JSON using decode.
func FromPackets(packets []packet.Packet, decode Decoder) (Message, error) {
	var buf bytes.Buffer
	for _, p := range packets {
		if len(p.Payload) == 0 {
			continue
		}
		buf.Write(p.Payload)
	}
	if buf.Len() == 0 {
		return nil, dverr.Decode("no data in DVRIP packet")
	}

	// Some control payloads are zero-padded or backslash-terminated on
	// the wire; strip trailing padding before decoding.
	raw := bytes.TrimRight(buf.Bytes(), "\x00\\")

	var datum any
	if err := json.Unmarshal(raw, &datum); err != nil {
		return nil, dverr.Decodef("invalid JSON in DVRIP packet: %v", err)
	}
	fields, ok := datum.(map[string]any)
	if !ok {
		return nil, dverr.Decode("DVRIP packet payload is not a JSON object")
	}
	msg, err := decode(fields)
	if err != nil {
		// Value converters (hex, IPv4, datetime) report plain errors;
		// surface every decoder failure as a DecodeError.
		var decodeErr *dverr.DecodeError
		if !errors.As(err, &decodeErr) {
			return nil, dverr.Decode(err.Error())
		}
		return nil, err
	}
	return msg, nil
}
