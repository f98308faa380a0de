// Package loadbalance provides strategies for picking one DVRIP device
// out of a fleet's registered set.
//
// Three strategies are implemented:
//   - RoundRobin:      equal-capacity devices, spread requests evenly
//   - WeightedRandom:  heterogeneous devices (e.g. different channel counts)
//   - ConsistentHash:  affinity to the same device across repeated polls
package loadbalance

import "dvrip/registry"

// Balancer picks one device from a fleet's current device list.
type Balancer interface {
	// Pick selects one device from devices. Called on every Fleet.Do —
	// implementations must be goroutine-safe.
	Pick(devices []registry.Device) (*registry.Device, error)

	// Name returns the strategy name, for logging.
	Name() string
}
