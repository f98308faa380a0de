package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"

	"dvrip/registry"
)

// ConsistentHashBalancer maps keys to devices using a hash ring. The
// same key always maps to the same device (until the device set
// changes), providing affinity — useful when repeatedly polling the
// same camera channel should land on the same recorder even as other
// devices join or leave the fleet.
//
// Virtual nodes: each real device is mapped to N virtual nodes on the
// ring. Without virtual nodes, a handful of devices might cluster
// together on the ring, causing uneven load distribution. 100 virtual
// nodes per device gives statistical uniformity.
//
//	Hash Ring:
//	                  0
//	                ╱   ╲
//	              ╱       ╲
//	         B ●               ● A
//	           │    key ◆──►   │   (clockwise to nearest node → A)
//	         C ●               ● A' (virtual node of A)
//	              ╲       ╱
//	                ╲   ╱
//
// ConsistentHashBalancer does not implement the Balancer interface:
// picking by key, not by a bare device list, is its entire point, so a
// Fleet that wants affinity calls PickForKey directly instead of Pick.
type ConsistentHashBalancer struct {
	replicas int
}

// NewConsistentHashBalancer creates a hash-ring balancer with 100
// virtual nodes per device.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{replicas: 100}
}

// PickForKey rebuilds the hash ring from devices and returns the device
// that owns key. The ring is rebuilt on every call rather than cached,
// since a fleet's device list can change between calls and a stale ring
// would defeat the rebalancing consistent hashing is supposed to give on
// membership changes.
func (b *ConsistentHashBalancer) PickForKey(key string, devices []registry.Device) (*registry.Device, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("loadbalance: no devices available")
	}

	ring := make([]uint32, 0, len(devices)*b.replicas)
	nodes := make(map[uint32]*registry.Device, len(devices)*b.replicas)
	for i := range devices {
		d := &devices[i]
		id := d.Serial
		if id == "" {
			id = d.Address
		}
		for r := 0; r < b.replicas; r++ {
			h := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", id, r)))
			ring = append(ring, h)
			nodes[h] = d
		}
	}
	sort.Slice(ring, func(i, j int) bool { return ring[i] < ring[j] })

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(ring), func(i int) bool { return ring[i] >= hash })
	if idx == len(ring) {
		idx = 0
	}
	return nodes[ring[idx]], nil
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
