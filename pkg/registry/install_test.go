package registry

import (
	"sync/atomic"
	"testing"
	"time"
)

const installTestPrefix = "registry:install_test"

func TestInstallHandler_OneShot(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("net", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", installTestPrefix, err)
	}

	fired := 0
	r.RegisterInstallHandler(func(name string) bool {
		if name != "net" {
			return false
		}
		fired++
		return true
	})

	r.SetEnabled("net", true)
	r.SetEnabled("net", false)
	r.SetEnabled("net", true)

	if fired != 1 {
		t.Errorf("%s - handler fired %d times across enable cycles, want 1", installTestPrefix, fired)
	}
}

func TestInstallHandler_NotRunOnDisable(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("net", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", installTestPrefix, err)
	}

	fired := 0
	r.RegisterInstallHandler(func(name string) bool { fired++; return true })

	r.SetEnabled("net", false)
	if fired != 0 {
		t.Errorf("%s - handler fired on disable", installTestPrefix)
	}
}

func TestInstallHandler_UnclaimedStaysPending(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("other", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", installTestPrefix, err)
	}
	if err := r.Register("net", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", installTestPrefix, err)
	}

	fired := 0
	r.RegisterInstallHandler(func(name string) bool {
		if name != "net" {
			return false
		}
		fired++
		return true
	})

	// A non-matching enable leaves the handler in place for the real one.
	r.SetEnabled("other", true)
	if fired != 0 {
		t.Fatalf("%s - handler claimed wrong channel", installTestPrefix)
	}
	r.SetEnabled("net", true)
	if fired != 1 {
		t.Errorf("%s - handler fired %d times, want 1", installTestPrefix, fired)
	}
}

func TestInstallHandler_RunsOnProvisionalEnable(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})

	fired := 0
	r.RegisterInstallHandler(func(name string) bool {
		if name != "net" {
			return false
		}
		fired++
		return true
	})

	// Enabling before registration still signals that instrumentation for
	// this area was requested.
	r.SetEnabled("net", true)
	if fired != 1 {
		t.Errorf("%s - handler fired %d times on provisional enable, want 1", installTestPrefix, fired)
	}
}

func TestInstallHandler_OneShotUnderConcurrentEnables(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("net", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", installTestPrefix, err)
	}

	var fired atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	r.RegisterInstallHandler(func(name string) bool {
		if fired.Add(1) == 1 {
			close(entered)
			<-release
		}
		return true
	})

	firstDone := make(chan struct{})
	go func() {
		r.SetEnabled("net", true)
		close(firstDone)
	}()
	<-entered

	// Second enable arrives while the first is still inside the handler.
	secondDone := make(chan struct{})
	go func() {
		r.SetEnabled("net", true)
		close(secondDone)
	}()
	select {
	case <-secondDone:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s - concurrent SetEnabled blocked behind a running handler", installTestPrefix)
	}

	close(release)
	<-firstDone

	if got := fired.Load(); got != 1 {
		t.Errorf("%s - handler fired %d times for one channel, want 1", installTestPrefix, got)
	}
}

func TestInstallHandler_MayCallBackIntoRegistry(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})

	r.RegisterInstallHandler(func(name string) bool {
		if name != "net" {
			return false
		}
		// Handlers run outside the registry lock, so registering from inside
		// one must not deadlock.
		_ = r.Register("net", "installed by handler")
		return true
	})

	r.SetEnabled("net", true)
	if !r.ShouldLog("net") {
		t.Errorf("%s - channel registered by handler did not pick up provisional enable", installTestPrefix)
	}
}
