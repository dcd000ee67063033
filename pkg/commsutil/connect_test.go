package commsutil

import "testing"

const connectTestPrefix = "commsutil:connect_test"

func TestConnect_InvalidURL(t *testing.T) {
	nc, err := Connect("invalid://not-a-nats-server", "test-client")
	if err == nil {
		if nc != nil {
			nc.Close()
		}
		t.Fatalf("%s - expected error for invalid URL", connectTestPrefix)
	}
	if nc != nil {
		t.Errorf("%s - expected nil connection on error", connectTestPrefix)
	}
}

func TestConnect_RetriesWhenBrokerUnreachable(t *testing.T) {
	// Port 1 is never a broker. The connection must still be handed back in
	// a retrying state rather than failing startup.
	nc, err := Connect("nats://127.0.0.1:1", "test-client")
	if err != nil {
		t.Fatalf("%s - Connect with unreachable broker failed: %v", connectTestPrefix, err)
	}
	defer nc.Close()

	if nc.IsConnected() {
		t.Errorf("%s - reported connected with no broker listening", connectTestPrefix)
	}
}
