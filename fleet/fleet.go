// Package fleet ties dvrip's registry, loadbalance and pool packages
// together into the client-side analogue of a multi-server RPC client:
// given a named set of DVRIP devices, pick one (by policy) and run an
// operation against a borrowed, logged-in connection to it.
//
// A Fleet never holds more than one pool.Pool per device address, and
// never shares a *conn.Conn between concurrent callers — each Do call
// either reuses an idle pooled connection or dials a fresh one, exactly
// as pool.Pool already guarantees for a single device.
package fleet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dvrip/conn"
	"dvrip/loadbalance"
	"dvrip/pool"
	"dvrip/registry"
)

// Fleet manages a named group of DVRIP devices, picking among them with
// a load-balance policy and pooling logged-in connections per device.
type Fleet struct {
	name     string
	registry registry.Registry
	balancer loadbalance.Balancer
	username string
	password string
	poolSize int

	mu    sync.Mutex
	pools map[string]*pool.Pool // device address -> connection pool
}

// New creates a Fleet named name, backed by reg for device lookup and
// bal for device selection. Every connection it opens logs in as
// username/password; poolSize bounds the number of concurrent
// connections held open per device.
func New(name string, reg registry.Registry, bal loadbalance.Balancer, username, password string, poolSize int) *Fleet {
	return &Fleet{
		name:     name,
		registry: reg,
		balancer: bal,
		username: username,
		password: password,
		poolSize: poolSize,
		pools:    make(map[string]*pool.Pool),
	}
}

// Do picks a device from the fleet's registered set, borrows a pooled,
// logged-in connection to it, and runs fn against that connection. The
// connection is returned to its pool afterward, or discarded if fn
// returns an error (Do marks the connection Unusable on any returned
// error, treating the connection as suspect; this is pessimistic —
// a request error from the device is not a connection problem, but
// erring toward discarding a possibly-good connection costs only a
// reconnect, while reusing a genuinely broken one costs every later
// caller).
func (f *Fleet) Do(ctx context.Context, fn func(*conn.Conn) error) error {
	devices, err := f.registry.Discover(f.name)
	if err != nil {
		return fmt.Errorf("fleet: discover %s: %w", f.name, err)
	}
	device, err := f.balancer.Pick(devices)
	if err != nil {
		return fmt.Errorf("fleet: pick device in %s: %w", f.name, err)
	}

	p := f.poolFor(device.Address)
	pc, err := p.Get(ctx)
	if err != nil {
		return fmt.Errorf("fleet: borrow connection to %s: %w", device.Address, err)
	}

	err = fn(pc.Conn)
	if err != nil {
		pc.Unusable()
	}
	p.Put(pc)
	return err
}

// DoWithAffinity behaves like Do, but uses a consistent-hash balancer to
// prefer routing the same key to the same device across calls (useful
// when repeatedly polling one camera channel should land on the same
// recorder process's state).
func (f *Fleet) DoWithAffinity(ctx context.Context, key string, hash *loadbalance.ConsistentHashBalancer, fn func(*conn.Conn) error) error {
	devices, err := f.registry.Discover(f.name)
	if err != nil {
		return fmt.Errorf("fleet: discover %s: %w", f.name, err)
	}
	device, err := hash.PickForKey(key, devices)
	if err != nil {
		return fmt.Errorf("fleet: pick device in %s for %q: %w", f.name, key, err)
	}

	p := f.poolFor(device.Address)
	pc, err := p.Get(ctx)
	if err != nil {
		return fmt.Errorf("fleet: borrow connection to %s: %w", device.Address, err)
	}

	err = fn(pc.Conn)
	if err != nil {
		pc.Unusable()
	}
	p.Put(pc)
	return err
}

// Sync broadcasts a UDP discovery sweep on iface and registers every
// responding device into the fleet's registry, replacing any prior entry
// at the same address. It is the client-side analogue of a server
// self-registering: DVRIP devices cannot register themselves, so
// something has to poll for them and publish what it finds.
func (f *Fleet) Sync(iface string, timeout time.Duration, ttl int64) error {
	hosts, err := conn.Discover(iface, timeout)
	if err != nil {
		return fmt.Errorf("fleet: discovery sweep: %w", err)
	}
	for _, h := range hosts {
		device := registry.Device{
			Address: h.Address + fmt.Sprintf(":%d", conn.DefaultPort),
			Serial:  h.Serial,
			Weight:  1,
		}
		if err := f.registry.Register(f.name, device, ttl); err != nil {
			return fmt.Errorf("fleet: register %s: %w", device.Address, err)
		}
	}
	return nil
}

func (f *Fleet) poolFor(address string) *pool.Pool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[address]
	if !ok {
		p = pool.New(address, f.username, f.password, f.poolSize)
		f.pools[address] = p
	}
	return p
}

// Close closes every per-device pool the fleet has opened.
func (f *Fleet) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for _, p := range f.pools {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
