// Package registry also provides an etcd-based Registry, letting several
// orchestrator processes share one fleet inventory rather than each
// keeping its own in-process MemoryRegistry.
//
// etcd is a distributed key-value store with strong consistency (Raft).
// It is used here as a shared phonebook of DVRIP devices:
//
//	Key:   /dvrip/fleet/{fleet}/{address}
//	Value: JSON-encoded Device
//
// Registration uses TTL-based leases: if the registering process (e.g. a
// UDP discovery sweep daemon) stops renewing, the entry expires on its
// own, preventing stale device entries from lingering after a box is
// unplugged.
package registry

import (
	"context"
	"encoding/json"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdRegistry implements Registry using etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

func devicesKey(fleet, address string) string {
	return "/dvrip/fleet/" + fleet + "/" + address
}

func devicesPrefix(fleet string) string {
	return "/dvrip/fleet/" + fleet + "/"
}

// Register adds device to etcd under a TTL-based lease and starts
// renewing it in the background. leaseID is kept local to this call, not
// stored on the struct, so that multiple goroutines sharing one
// EtcdRegistry never race over it.
func (r *EtcdRegistry) Register(fleet string, device Device, ttl int64) error {
	ctx := context.TODO()

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(device)
	if err != nil {
		return err
	}

	if _, err := r.client.Put(ctx, devicesKey(fleet, device.Address), string(val), clientv3.WithLease(lease.ID)); err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes a device from etcd ahead of its lease expiring.
func (r *EtcdRegistry) Deregister(fleet string, address string) error {
	_, err := r.client.Delete(context.TODO(), devicesKey(fleet, address))
	return err
}

// Watch monitors a fleet's prefix in etcd and emits the full device list
// on any change (registration, deregistration, lease expiry).
func (r *EtcdRegistry) Watch(fleet string) <-chan []Device {
	ctx := context.TODO()
	ch := make(chan []Device, 1)
	prefix := devicesPrefix(fleet)

	go func() {
		watchChan := r.client.Watch(ctx, prefix, clientv3.WithPrefix())
		for range watchChan {
			devices, err := r.Discover(fleet)
			if err != nil {
				continue
			}
			ch <- devices
		}
	}()

	return ch
}

// Discover returns every device currently registered under fleet.
func (r *EtcdRegistry) Discover(fleet string) ([]Device, error) {
	resp, err := r.client.Get(context.TODO(), devicesPrefix(fleet), clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var d Device
		if err := json.Unmarshal(kv.Value, &d); err != nil {
			continue // skip malformed entries
		}
		devices = append(devices, d)
	}
	return devices, nil
}
