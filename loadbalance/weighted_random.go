package loadbalance

import (
	"fmt"
	"math/rand"

	"dvrip/registry"
)

// WeightedRandomBalancer selects devices probabilistically based on
// their weight. A device with weight 10 gets roughly 2x the traffic of
// one with weight 5.
//
// Best for: a mixed fleet (e.g. an NVR with 32 channels alongside a
// standalone DVR with 4) where traffic should lean toward the boxes with
// more capacity.
//
// Algorithm:
//  1. Sum all weights → totalWeight
//  2. Generate random number r in [0, totalWeight)
//  3. Subtract each device's weight from r until r < 0
//  4. The device that makes r negative is selected
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(devices []registry.Device) (*registry.Device, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("loadbalance: no devices available")
	}

	totalWeight := 0
	for _, d := range devices {
		totalWeight += d.Weight
	}
	if totalWeight <= 0 {
		return &devices[rand.Intn(len(devices))], nil
	}

	r := rand.Intn(totalWeight)
	for i := range devices {
		r -= devices[i].Weight
		if r < 0 {
			return &devices[i], nil
		}
	}

	return nil, fmt.Errorf("loadbalance: unexpected error in weighted random selection")
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
