package discovery

import (
	"testing"
	"time"
)

// TestAnnounceAndDiscover is a live-etcd integration test, the same style
// the teacher used for its registry: it requires a reachable etcd at
// localhost:2379 and is skipped otherwise rather than faked with a mock.
func TestAnnounceAndDiscover(t *testing.T) {
	reg, err := NewEtcdRegistry([]string{"localhost:2379"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Discover("smoke-test"); err != nil {
		t.Skipf("no reachable etcd at localhost:2379: %v", err)
	}

	inst1 := ServerInstance{Addr: "127.0.0.1:25565", Protocol: 767, MOTD: "survival"}
	inst2 := ServerInstance{Addr: "127.0.0.1:25566", Protocol: 767, MOTD: "creative"}

	if err := reg.Announce("lobby", inst1, 10); err != nil {
		t.Fatal(err)
	}
	if err := reg.Announce("lobby", inst2, 10); err != nil {
		t.Fatal(err)
	}
	defer reg.Withdraw("lobby", inst1.Addr)
	defer reg.Withdraw("lobby", inst2.Addr)

	instances, err := reg.Discover("lobby")
	if err != nil {
		t.Fatal(err)
	}
	if len(instances) != 2 {
		t.Fatalf("expect 2 instances, got %d", len(instances))
	}

	if err := reg.Withdraw("lobby", inst1.Addr); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	instances, err = reg.Discover("lobby")
	if err != nil {
		t.Fatal(err)
	}
	if len(instances) != 1 {
		t.Fatalf("expect 1 instance after withdraw, got %d", len(instances))
	}
	if instances[0].Addr != inst2.Addr {
		t.Fatalf("expect %s, got %s", inst2.Addr, instances[0].Addr)
	}
}
