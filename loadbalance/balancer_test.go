package loadbalance

import (
	"fmt"
	"testing"

	"dvrip/registry"
)

var testDevices = []registry.Device{
	{Address: ":34567", Serial: "AAA001", Weight: 10},
	{Address: ":34568", Serial: "AAA002", Weight: 5},
	{Address: ":34569", Serial: "AAA003", Weight: 10},
}

func TestRoundRobin(t *testing.T) {
	b := &RoundRobinBalancer{}

	// Pick 3 times, should cycle through all devices
	results := make([]string, 3)
	for i := 0; i < 3; i++ {
		dev, err := b.Pick(testDevices)
		if err != nil {
			t.Fatal(err)
		}
		results[i] = dev.Address
	}

	// Pick again, should wrap around to first
	dev, _ := b.Pick(testDevices)
	if dev.Address != results[0] {
		t.Fatalf("expect wrap around to %s, got %s", results[0], dev.Address)
	}
}

func TestRoundRobinEmpty(t *testing.T) {
	b := &RoundRobinBalancer{}
	_, err := b.Pick([]registry.Device{})
	if err == nil {
		t.Fatal("expect error for empty device list")
	}
}

func TestWeightedRandom(t *testing.T) {
	b := &WeightedRandomBalancer{}

	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		dev, err := b.Pick(testDevices)
		if err != nil {
			t.Fatal(err)
		}
		counts[dev.Address]++
	}

	// Weight ratio is 10:5:10, so :34567 and :34569 should be ~2x of :34568
	ratio := float64(counts[":34567"]) / float64(counts[":34568"])
	if ratio < 1.5 || ratio > 2.5 {
		t.Fatalf("weight ratio :34567/:34568 = %.2f, expect ~2.0", ratio)
	}
}

func TestConsistentHash(t *testing.T) {
	b := NewConsistentHashBalancer()

	// Same key should always map to the same device
	dev1, _ := b.PickForKey("camera-123", testDevices)
	dev2, _ := b.PickForKey("camera-123", testDevices)
	if dev1.Address != dev2.Address {
		t.Fatalf("same key mapped to different devices: %s vs %s", dev1.Address, dev2.Address)
	}

	// Different keys should (likely) map to different devices
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		dev, _ := b.PickForKey(fmt.Sprintf("camera-%d", i), testDevices)
		seen[dev.Address] = true
	}

	// With 100 different keys and 3 devices, we should hit at least 2
	if len(seen) < 2 {
		t.Fatalf("expect at least 2 different devices, got %d", len(seen))
	}
}
