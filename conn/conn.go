// Package conn implements a DVRIP client connection: login, keep-alive,
// logout, request/reply exchange, and the claim/data paired-connection
// streaming reader. A Conn is not safe for concurrent use — DVRIP is a
// strict ping-pong protocol, one request in flight at a time — callers
// that want concurrency should use separate connections (see package
// pool and package fleet).
package conn

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"dvrip/dverr"
	"dvrip/message"
	"dvrip/packet"
)

// DefaultPort is the TCP port DVRIP devices listen for control
// connections on.
const DefaultPort = 34567

// Conn is one DVRIP control connection to a device.
type Conn struct {
	rwc     net.Conn
	logger  *log.Logger
	session message.Session
	number  uint32

	loggedIn bool
	timeout  time.Duration // reply alive interval, set on login
	lastPing time.Time
}

// Option configures a Conn at Dial time.
type Option func(*Conn)

// WithLogger overrides the logger stored on the Conn (the standard logger
// by default), which Reader passes on to the paired data connection. Conn
// itself writes no log lines.
func WithLogger(l *log.Logger) Option {
	return func(c *Conn) { c.logger = l }
}

// Dial connects to a DVRIP device at address ("host:port", defaulting the
// port to DefaultPort when omitted is the caller's responsibility).
func Dial(ctx context.Context, address string, opts ...Option) (*Conn, error) {
	var d net.Dialer
	rwc, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("conn: dial %s: %w", address, err)
	}
	return newConn(rwc, opts...), nil
}

func newConn(rwc net.Conn, opts ...Option) *Conn {
	c := &Conn{rwc: rwc, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the underlying socket without sending a logout.
func (c *Conn) Close() error { return c.rwc.Close() }

// Session returns the connection's current session, the zero Session
// before a successful Login.
func (c *Conn) Session() message.Session { return c.session }

// Send writes one message to the wire under sequence number number, using
// whatever session is currently active.
func (c *Conn) Send(number uint32, msg message.Message) error {
	packets, err := message.ToPackets(c.session, number, msg)
	if err != nil {
		return err
	}
	for _, p := range packets {
		if err := packet.Encode(c.rwc, p); err != nil {
			return err
		}
	}
	return nil
}

// recvControl blocks until filter reaches a Ready outcome, rejecting any
// packet that the filter reports as foreign to it — under the strict
// ping-pong model there is never more than one filter waiting, so any
// such packet is a protocol violation.
func (c *Conn) recvControl(filter *message.ControlFilter) (message.Message, error) {
	for {
		p, err := packet.Decode(c.rwc)
		if err != nil {
			return nil, err
		}
		if high := p.Number &^ 1; high > c.number&^1 {
			c.number = high
		}
		outcome, msg, err := filter.Step(p)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case message.Ready:
			return msg, nil
		case message.Consumed:
			continue
		default:
			return nil, dverr.Decode("stray packet")
		}
	}
}

// Request sends req under the next request-number slot and blocks for its
// reply, returning a RequestError if the device reports failure.
func (c *Conn) Request(req message.Request) (message.Message, error) {
	c.number += 2
	if err := c.Send(c.number, req); err != nil {
		return nil, err
	}
	filter := message.NewControlFilter(req.ReplyType(), c.number, req.DecodeReply)
	reply, err := c.recvControl(filter)
	if err != nil {
		return nil, err
	}
	if err := signal(int(req.Type()), reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func signal(requestType int, reply message.Message) error {
	outcomer, ok := reply.(message.Outcomer)
	if !ok {
		return nil
	}
	status := outcomer.Outcome()
	if status.Success {
		return nil
	}
	return &dverr.RequestError{RequestType: requestType, Status: status.Code, Message: status.Message}
}

// Login authenticates the connection. It must not be called while a
// session is active (after a successful Login and before Logout).
func (c *Conn) Login(username, password string) error {
	if c.loggedIn {
		dverr.Programmer("Login called on an already-authenticated connection")
	}
	c.session = message.Session{}
	req := message.ClientLogin{Username: username, PassHash: message.XMMD5(password)}
	reply, err := c.Request(req)
	if err != nil {
		return err
	}
	lr := reply.(message.ClientLoginReply)
	c.session = lr.Session
	c.timeout = time.Duration(lr.Timeout) * time.Second
	c.loggedIn = true
	c.lastPing = time.Now()
	return nil
}

// Logout ends the session. The connection may be reused for a new Login
// afterwards.
func (c *Conn) Logout() error {
	if !c.loggedIn {
		dverr.Programmer("Logout called without an active session")
	}
	_, err := c.Request(message.ClientLogout{Session: c.session})
	c.loggedIn = false
	c.session = message.Session{}
	return err
}

// KeepAlive pings the device if the login's advertised interval has
// elapsed since the last ping, and is a no-op otherwise. Callers poll
// this periodically rather than running a background goroutine, keeping
// with the single-threaded cooperative model.
func (c *Conn) KeepAlive() error {
	if !c.loggedIn {
		dverr.Programmer("KeepAlive called without an active session")
	}
	if time.Since(c.lastPing) < c.timeout {
		return nil
	}
	_, err := c.Request(message.KeepAlive{Session: c.session})
	if err != nil {
		return err
	}
	c.lastPing = time.Now()
	return nil
}

// Reboot asks the device to restart and closes the connection; the
// session is no longer valid afterwards.
func (c *Conn) Reboot() error {
	req := message.DoOperation{
		Session: c.session,
		Command: message.OperationMachine,
		Machine: &message.MachineOperation{Action: message.MachineReboot},
	}
	_, err := c.Request(req)
	c.loggedIn = false
	c.session = message.Session{}
	closeErr := c.rwc.Close()
	if err != nil {
		return err
	}
	return closeErr
}
