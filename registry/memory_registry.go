package registry

import "sync"

// MemoryRegistry is an in-process Registry, used directly by a
// single-orchestrator Fleet and by tests that do not want a live etcd
// cluster. Unlike EtcdRegistry it has no TTL expiry: Register/Deregister
// are the only way entries change.
type MemoryRegistry struct {
	mu      sync.Mutex
	fleets  map[string][]Device
	waiters map[string][]chan []Device
}

// NewMemoryRegistry returns an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		fleets:  make(map[string][]Device),
		waiters: make(map[string][]chan []Device),
	}
}

// Register adds device to fleet, replacing any prior entry at the same
// address. ttl is accepted for interface compatibility and ignored.
func (r *MemoryRegistry) Register(fleet string, device Device, ttl int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	devices := r.fleets[fleet]
	for i, d := range devices {
		if d.Address == device.Address {
			devices[i] = device
			r.notifyLocked(fleet)
			return nil
		}
	}
	r.fleets[fleet] = append(devices, device)
	r.notifyLocked(fleet)
	return nil
}

// Deregister removes the device at address from fleet, if present.
func (r *MemoryRegistry) Deregister(fleet string, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	devices := r.fleets[fleet]
	for i, d := range devices {
		if d.Address == address {
			r.fleets[fleet] = append(devices[:i], devices[i+1:]...)
			r.notifyLocked(fleet)
			return nil
		}
	}
	return nil
}

// Discover returns a copy of fleet's current device list.
func (r *MemoryRegistry) Discover(fleet string) ([]Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Device, len(r.fleets[fleet]))
	copy(out, r.fleets[fleet])
	return out, nil
}

// Watch returns a channel receiving fleet's device list on every
// Register/Deregister. The channel is never closed; callers are expected
// to live for the process lifetime or simply stop reading.
func (r *MemoryRegistry) Watch(fleet string) <-chan []Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan []Device, 1)
	r.waiters[fleet] = append(r.waiters[fleet], ch)
	return ch
}

// notifyLocked must be called with mu held.
func (r *MemoryRegistry) notifyLocked(fleet string) {
	if len(r.waiters[fleet]) == 0 {
		return
	}
	snapshot := make([]Device, len(r.fleets[fleet]))
	copy(snapshot, r.fleets[fleet])
	for _, ch := range r.waiters[fleet] {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
