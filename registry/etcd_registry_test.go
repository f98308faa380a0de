package registry

import (
	"context"
	"testing"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// TestEtcdRegisterAndDiscover exercises EtcdRegistry against a real etcd
// cluster. It skips rather than fails when none is reachable, since an
// etcd endpoint is an external dependency, not something this package
// can stand up itself.
func TestEtcdRegisterAndDiscover(t *testing.T) {
	probe, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{"localhost:2379"},
		DialTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		t.Skipf("etcd client: %v", err)
	}
	defer probe.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := probe.Get(ctx, "dvrip-registry-probe"); err != nil {
		t.Skipf("no reachable etcd cluster: %v", err)
	}

	reg, err := NewEtcdRegistry([]string{"localhost:2379"})
	if err != nil {
		t.Fatal(err)
	}

	dev1 := Device{Address: "127.0.0.1:34567", Serial: "AAA001", Weight: 10}
	dev2 := Device{Address: "127.0.0.1:34568", Serial: "AAA002", Weight: 5}

	if err := reg.Register("lobby", dev1, 10); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("lobby", dev2, 10); err != nil {
		t.Fatal(err)
	}
	defer reg.Deregister("lobby", dev1.Address)
	defer reg.Deregister("lobby", dev2.Address)

	devices, err := reg.Discover("lobby")
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}

	if err := reg.Deregister("lobby", dev1.Address); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	devices, err = reg.Discover("lobby")
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 device after deregister, got %d", len(devices))
	}
	if devices[0].Address != dev2.Address {
		t.Fatalf("expected %s, got %s", dev2.Address, devices[0].Address)
	}
}
