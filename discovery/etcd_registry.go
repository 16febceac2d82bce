// Package discovery provides the etcd-based implementation of the
// Registry interface.
//
// etcd is a distributed key-value store with strong consistency (Raft).
// We use it as a "distributed phonebook" for servers:
//
//	Key:   /mcproto/{name}/{Addr}
//	Value: JSON-encoded ServerInstance
//
// Announcement uses TTL-based leases: if the server crashes, the lease
// expires and the entry is automatically removed — preventing "ghost"
// server entries a proxy might otherwise keep routing to.
package discovery

import (
	"context"
	"encoding/json"
	"sort"

	clientv3 "go.etcd.io/etcd/client/v3"

	"mcproto/version"
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

// Announce adds a server instance to etcd with a TTL lease.
//
// Flow:
//  1. Create a lease with the given TTL (e.g. 30 seconds).
//  2. Put the key-value pair with the lease attached.
//  3. Start KeepAlive to renew the lease automatically.
//
// leaseID is a local variable, not stored on the struct, so multiple
// servers can share one EtcdRegistry without a data race on it.
func (r *EtcdRegistry) Announce(name string, instance ServerInstance, ttl int64) error {
	ctx := context.TODO()

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, "/mcproto/"+name+"/"+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
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

// Withdraw removes a server instance from etcd.
func (r *EtcdRegistry) Withdraw(name string, addr string) error {
	ctx := context.TODO()
	_, err := r.client.Delete(ctx, "/mcproto/"+name+"/"+addr)
	return err
}

// Watch monitors a server-name prefix and emits the updated instance list
// whenever it changes (new announcements, withdrawals, lease expirations).
func (r *EtcdRegistry) Watch(name string) <-chan []ServerInstance {
	ctx := context.TODO()
	ch := make(chan []ServerInstance, 1)
	prefix := "/mcproto/" + name + "/"

	go func() {
		watchChan := r.client.Watch(ctx, prefix, clientv3.WithPrefix())
		for range watchChan {
			instances, _ := r.Discover(name)
			ch <- instances
		}
	}()

	return ch
}

// Discover returns every currently announced instance for name whose
// Protocol is one this library's version table recognizes, newest release
// first. An instance announcing a protocol version the table has never
// heard of is dropped rather than handed back — a proxy routing purely on
// Discover's order has no other signal to prefer a backend that actually
// speaks a release it knows about, and forwarding unrecognized versions
// blind defeats the point of carrying Protocol on ServerInstance at all.
func (r *EtcdRegistry) Discover(name string) ([]ServerInstance, error) {
	ctx := context.TODO()
	prefix := "/mcproto/" + name + "/"

	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]ServerInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance ServerInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue
		}
		if _, ok := version.Lookup(instance.Protocol); !ok {
			continue
		}
		instances = append(instances, instance)
	}

	sort.Slice(instances, func(i, j int) bool {
		ri, _ := version.Lookup(instances[i].Protocol)
		rj, _ := version.Lookup(instances[j].Protocol)
		return rj.SemVer.LessThan(*ri.SemVer)
	})

	return instances, nil
}
