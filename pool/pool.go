// Package pool manages a set of reusable, logged-in DVRIP connections to a
// single device. A DVRIP connection allows only one request in flight at a
// time, so callers that want concurrency borrow a whole connection for the
// duration of their work rather than sharing one the way a multiplexed RPC
// transport would.
//
// Pool design: a buffered channel as a FIFO queue of idle connections.
// Buffered channels are concurrency-safe, and blocking on empty is built in.
package pool

import (
	"context"
	"fmt"
	"sync"

	"dvrip/conn"
)

// Conn wraps a pooled connection with the metadata needed to return or
// discard it.
type Conn struct {
	*conn.Conn
	pool     *Pool
	unusable bool // set true when the caller hits an I/O error on it
}

// Unusable marks the connection for discarding instead of recycling when it
// is returned to the pool, typically after the caller observes an I/O error.
func (c *Conn) Unusable() { c.unusable = true }

// Pool manages a pool of logged-in connections to a single device.
type Pool struct {
	mu       sync.Mutex
	idle     chan *Conn
	address  string
	username string
	password string
	max      int
	cur      int
}

// New creates a connection pool for address, logging in as username/password
// on each connection it creates. Connections are created lazily: the pool
// starts empty and grows on demand up to max.
func New(address, username, password string, max int) *Pool {
	return &Pool{
		idle:     make(chan *Conn, max),
		address:  address,
		username: username,
		password: password,
		max:      max,
	}
}

// Get retrieves a connection from the pool, dialing and logging in a new one
// if the pool is under capacity, or blocking until one is returned if it is
// at capacity.
func (p *Pool) Get(ctx context.Context) (*Conn, error) {
	select {
	case c := <-p.idle:
		if c.unusable {
			return p.createNew(ctx)
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.cur < p.max {
		p.mu.Unlock()
		return p.createNew(ctx)
	}
	p.mu.Unlock()

	select {
	case c := <-p.idle:
		if c.unusable {
			return p.createNew(ctx)
		}
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Put returns a connection to the pool. A connection marked Unusable is
// logged out, closed, and discarded instead of recycled.
func (p *Pool) Put(c *Conn) {
	if c.unusable {
		c.Logout()
		c.Close()
		p.mu.Lock()
		p.cur--
		p.mu.Unlock()
		return
	}
	p.idle <- c
}

// Close logs out and closes every idle connection. Connections currently
// borrowed by a caller are the caller's responsibility to close.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	close(p.idle)
	var firstErr error
	for c := range p.idle {
		if err := c.Logout(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.Close()
		p.cur--
	}
	return firstErr
}

func (p *Pool) createNew(ctx context.Context) (*Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur >= p.max {
		return nil, fmt.Errorf("pool: connection pool for %s exhausted", p.address)
	}

	c, err := conn.Dial(ctx, p.address)
	if err != nil {
		return nil, err
	}
	if err := c.Login(p.username, p.password); err != nil {
		c.Close()
		return nil, err
	}

	p.cur++
	return &Conn{Conn: c, pool: p}, nil
}
