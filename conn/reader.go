package conn

import (
	"context"
	"io"

	"dvrip/dverr"
	"dvrip/message"
	"dvrip/packet"
)

// Reader streams raw data (video frames, a file download) claimed over a
// connection paired with a control connection. It satisfies io.ReadCloser.
type Reader struct {
	conn   *Conn
	filter *message.StreamFilter
	buf    []byte
	eof    bool
}

// Read implements io.Reader, pulling further data packets off the paired
// connection as needed.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		pkt, err := packet.Decode(r.conn.rwc)
		if err != nil {
			return 0, err
		}
		outcome, chunk, end, err := r.filter.Step(pkt)
		if err != nil {
			return 0, err
		}
		if outcome != message.Ready {
			return 0, dverr.Decode("stray packet")
		}
		r.buf = chunk
		if end {
			r.eof = true
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// Close closes the paired data connection.
func (r *Reader) Close() error { return r.conn.Close() }

// Reader opens a second connection to address, claims a raw data stream
// on it, issues request on c to start the stream, and returns a reader
// over the resulting bytes.
//
// The claim is sent on the data connection with sequence number 0 before
// request is sent on the control connection — this ordering, and the
// fixed sequence number, is what lets the device correlate the two
// connections as one session's claim/data pair.
func (c *Conn) Reader(ctx context.Context, address string, claim message.StreamRequest, request message.Request) (*Reader, error) {
	data, err := Dial(ctx, address, WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	data.session = c.session

	if err := data.Send(0, claim); err != nil {
		data.Close()
		return nil, err
	}
	if _, err := c.Request(request); err != nil {
		data.Close()
		return nil, err
	}

	filter := message.NewControlFilter(claim.ReplyType(), 0, claim.DecodeReply)
	reply, err := data.recvControl(filter)
	if err != nil {
		data.Close()
		return nil, err
	}
	if err := signal(int(claim.Type()), reply); err != nil {
		data.Close()
		return nil, err
	}

	return &Reader{conn: data, filter: message.NewStreamFilter(claim.DataType())}, nil
}
