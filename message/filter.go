package message

import (
	"dvrip/dverr"
	"dvrip/packet"
)

// Outcome is the result of feeding one packet to a filter.
type Outcome int

const (
	// Foreign means the packet did not belong to this filter and should
	// be offered to some other waiter, or reported as a stray packet if
	// none exists.
	Foreign Outcome = iota
	// Consumed means the packet was accepted but the filter needs more
	// fragments before it has a complete result.
	Consumed
	// Ready means the filter has produced its final result; it must not
	// be stepped again.
	Ready
)

// ControlFilter reassembles the fragments of a single control-message
// reply out of an interleaved packet stream. It is an explicit,
// resumable state machine rather than a background goroutine: each
// incoming packet is handed to Step, which reports whether the packet
// belonged to this reply and, once all fragments have arrived, the
// decoded message.
type ControlFilter struct {
	replyType uint16
	number    uint32
	decode    Decoder

	started bool
	limit   int
	count   int
	packets []packet.Packet
	seen    []bool
	done    bool
}

// NewControlFilter builds a filter waiting for a reply of replyType to
// the request sent with sequence number, decoded with decode once
// complete.
func NewControlFilter(replyType uint16, number uint32, decode Decoder) *ControlFilter {
	return &ControlFilter{replyType: replyType, number: number, decode: decode}
}

// Step feeds one packet to the filter.
func (f *ControlFilter) Step(p packet.Packet) (Outcome, Message, error) {
	if f.done {
		dverr.Programmer("control filter stepped after completion")
	}

	if p.Type != f.replyType {
		return Foreign, nil, nil
	}
	if p.Number&^1 != f.number&^1 {
		return Foreign, nil, nil
	}

	limit := p.Fragments()
	if limit == 0 {
		limit = 1
	}
	if !f.started {
		f.started = true
		f.limit = limit
		f.packets = make([]packet.Packet, limit)
		f.seen = make([]bool, limit)
	}
	if limit != f.limit {
		return Foreign, nil, dverr.Decode("conflicting fragment counts")
	}
	fragment := p.Fragment()
	if fragment >= f.limit {
		return Foreign, nil, dverr.Decode("invalid fragment number")
	}
	if f.seen[fragment] {
		return Foreign, nil, dverr.Decode("overlapping fragments")
	}

	f.packets[fragment] = p
	f.seen[fragment] = true
	f.count++
	if f.count < f.limit {
		return Consumed, nil, nil
	}

	f.done = true
	msg, err := FromPackets(f.packets, f.decode)
	if err != nil {
		return Ready, nil, err
	}
	return Ready, msg, nil
}

// StreamFilter demultiplexes a raw data stream keyed by packet type,
// yielding one chunk of payload per data packet and a final end-of-stream
// signal from the packet's end flag.
type StreamFilter struct {
	dataType uint16
	ended    bool
}

// NewStreamFilter builds a filter for data packets of dataType.
func NewStreamFilter(dataType uint16) *StreamFilter {
	return &StreamFilter{dataType: dataType}
}

// Step feeds one packet to the filter, returning its payload chunk (which
// may be empty) and whether the stream has now ended.
func (f *StreamFilter) Step(p packet.Packet) (outcome Outcome, chunk []byte, end bool, err error) {
	if f.ended {
		dverr.Programmer("stream filter stepped after end of stream")
	}
	if p.Type != f.dataType {
		return Foreign, nil, false, nil
	}
	if p.End() {
		f.ended = true
	}
	return Ready, p.Payload, f.ended, nil
}

// Ended reports whether the stream has delivered its final chunk.
func (f *StreamFilter) Ended() bool { return f.ended }
