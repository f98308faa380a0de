package loadbalance

import (
	"fmt"
	"sync/atomic"

	"dvrip/registry"
)

// RoundRobinBalancer distributes requests evenly across all devices in
// order. Uses an atomic counter for lock-free, goroutine-safe operation.
//
// Best for: a fleet of equal-capacity recorders (same model, same
// channel count) where any device can serve any request equally well.
type RoundRobinBalancer struct {
	counter int64 // atomic counter, incremented on each Pick()
}

// Pick selects the next device in round-robin order.
func (b *RoundRobinBalancer) Pick(devices []registry.Device) (*registry.Device, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("loadbalance: no devices available")
	}
	index := atomic.AddInt64(&b.counter, 1) % int64(len(devices))
	return &devices[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
