// Package devicesim is a minimal fake DVRIP device used to exercise
// package conn end-to-end without a real DVR on the network. It speaks
// just enough of the protocol to drive conn's tests: login, keep-alive,
// logout, a GetInfo reply that can be forced to fragment, and a
// MonitorClaim/DoMonitor claim-data pair that streams a couple of fake
// video chunks.
//
// It is adapted from the accept-loop shape of a generic RPC server's
// handleConn (one goroutine per connection, sequential frame reads) but
// is not layered on the connection-pooling or service-dispatch machinery
// that shape originally came with — a DVRIP device has no services to
// register, just a handful of fixed message types to answer.
//
// devicesim is test-only infrastructure. It is never imported by
// non-test code.
package devicesim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"dvrip/message"
	"dvrip/packet"
	"dvrip/wire"
)

// Device is a fake DVRIP recorder listening on a loopback port.
type Device struct {
	Username string
	Password string

	// FragmentInfo, when true, pads GetInfoReply's Software field large
	// enough that message.ToPackets splits the reply across more than
	// one packet, exercising conn's fragment-reassembly path.
	FragmentInfo bool

	listener net.Listener
	session  uint32 // atomic, next session id to hand out

	mu     sync.Mutex
	claims map[uint32]net.Conn // session id -> claimed data connection
}

// New starts a fake device on an ephemeral loopback port, accepting
// username/password as valid login credentials (the password hash is
// not actually checked — devicesim is not a security boundary).
func New(username, password string) (*Device, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	d := &Device{
		Username: username,
		Password: password,
		listener: l,
		session:  0x1000,
		claims:   make(map[uint32]net.Conn),
	}
	go d.acceptLoop()
	return d, nil
}

// Address is the "host:port" the device listens on.
func (d *Device) Address() string { return d.listener.Addr().String() }

// Close stops accepting new connections.
func (d *Device) Close() error { return d.listener.Close() }

func (d *Device) acceptLoop() {
	for {
		c, err := d.listener.Accept()
		if err != nil {
			return
		}
		go d.handleConn(c)
	}
}

func (d *Device) handleConn(c net.Conn) {
	defer c.Close()
	var session message.Session

	for {
		p, err := packet.Decode(c)
		if err != nil {
			return
		}

		switch p.Type {
		case message.ClientLogin{}.Type():
			session = d.nextSession()
			reply := message.ClientLoginReply{
				Status: message.OK, Session: session, Timeout: 1,
				Channels: 4, Views: 0, Chassis: "NVR", Encrypt: false,
			}
			if err := d.reply(c, session, p.Number, reply); err != nil {
				return
			}

		case message.ClientLogout{}.Type():
			reply := message.ClientLogoutReply{Status: message.OK, Session: session}
			d.reply(c, session, p.Number, reply)
			return

		case message.KeepAlive{}.Type():
			reply := message.KeepAliveReply{Status: message.OK, Session: session}
			if err := d.reply(c, session, p.Number, reply); err != nil {
				return
			}

		case message.GetInfo{}.Type():
			fields, err := decodeJSON(p.Payload)
			if err != nil {
				return
			}
			name, _ := fields["Name"].(string)
			software := "1.0.0"
			if d.FragmentInfo {
				software = strings.Repeat("1", 20000)
			}
			reply := message.GetInfoReply{
				Status: message.OK, Command: message.Info(name), Session: session,
				System: &message.SystemInfo{
					VideoInChannels: 4, VideoOutChannels: 4, Views: 0, Serial: "DVRSIM0001",
					HardwareVersion: "sim-1", SoftwareVersion: software, Uptime: 60, Chassis: "NVR",
				},
			}
			if err := d.reply(c, session, p.Number, reply); err != nil {
				return
			}

		case message.MonitorClaim{}.Type():
			// The claim arrives on a second connection that never logs
			// in itself — it only carries the session id the client
			// already obtained on its primary connection — so the
			// session here comes from the claim's JSON body, not from
			// a ClientLogin this connection never saw.
			fields, err := decodeJSON(p.Payload)
			if err != nil {
				return
			}
			claimed, err := sessionFromFields(fields)
			if err != nil {
				return
			}
			session = claimed
			d.mu.Lock()
			d.claims[session.ID] = c
			d.mu.Unlock()
			reply := message.MonitorClaimReply{Status: message.OK, Session: session}
			if err := d.reply(c, session, p.Number, reply); err != nil {
				return
			}

		case message.DoMonitor{}.Type():
			d.mu.Lock()
			dataConn := d.claims[session.ID]
			d.mu.Unlock()
			if dataConn != nil {
				if err := d.streamFrames(dataConn); err != nil {
					return
				}
			}
			reply := message.DoMonitorReply{Status: message.OK, Session: session}
			if err := d.reply(c, session, p.Number, reply); err != nil {
				return
			}

		default:
			// Unrecognized message types are silently ignored; devicesim
			// only needs to answer what conn's tests exercise.
		}
	}
}

// streamFrames writes two fake video chunks as data packets of
// MonitorClaim's data type, the second marked end-of-stream.
func (d *Device) streamFrames(c net.Conn) error {
	frames := [][]byte{[]byte("frame-one"), []byte("frame-two")}
	for i, f := range frames {
		var end byte
		if i == len(frames)-1 {
			end = 1
		}
		if err := packet.Encode(c, packet.Packet{Type: message.MonitorClaim{}.DataType(), A: 0, B: end, Payload: f}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) reply(c net.Conn, session message.Session, number uint32, msg message.Message) error {
	packets, err := message.ToPackets(session, number, msg)
	if err != nil {
		return err
	}
	for _, p := range packets {
		if err := packet.Encode(c, p); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) nextSession() message.Session {
	id := atomic.AddUint32(&d.session, 1)
	return message.Session{ID: id}
}

func sessionFromFields(fields map[string]any) (message.Session, error) {
	raw, ok := fields["SessionID"].(string)
	if !ok {
		return message.Session{}, fmt.Errorf("devicesim: no SessionID in payload")
	}
	id, err := wire.ParseHex(raw)
	if err != nil {
		return message.Session{}, err
	}
	return message.Session{ID: id}, nil
}

func decodeJSON(payload []byte) (map[string]any, error) {
	var datum any
	raw := bytes.TrimRight(payload, "\x00\\")
	if err := json.Unmarshal(raw, &datum); err != nil {
		return nil, err
	}
	fields, ok := datum.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("devicesim: payload is not a JSON object")
	}
	return fields, nil
}
