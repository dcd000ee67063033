package registry

import (
	"log/slog"
	"strings"
	"testing"
)

const emitTestPrefix = "registry:emit_test"

// captureListener collects every dispatched entry.
type captureListener struct {
	entries []*Entry
}

func (l *captureListener) HandleEntry(e *Entry) {
	l.entries = append(l.entries, e)
}

func newEnabledRegistry(t *testing.T, name string) (*Registry, *captureListener) {
	t.Helper()
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register(name, "test channel"); err != nil {
		t.Fatalf("%s - Register failed: %v", emitTestPrefix, err)
	}
	r.SetEnabled(name, true)
	rec := &captureListener{}
	r.AddListener(rec)
	return r, rec
}

func TestLog_DisabledChannelNeverInvokesThunks(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("quiet", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", emitTestPrefix, err)
	}

	msgCalls, dataCalls := 0, 0
	err := r.Log("quiet", &LogInput{
		Message: func() any { msgCalls++; return "never" },
		Data:    func() any { dataCalls++; return nil },
	})
	if err != nil {
		t.Fatalf("%s - Log on disabled channel returned error: %v", emitTestPrefix, err)
	}
	if msgCalls != 0 || dataCalls != 0 {
		t.Errorf("%s - thunk calls = (%d, %d), want (0, 0)", emitTestPrefix, msgCalls, dataCalls)
	}

	// Same contract for a channel that does not exist at all.
	if err := r.Log("missing", &LogInput{Message: func() any { msgCalls++; return "never" }}); err != nil {
		t.Fatalf("%s - Log on unknown channel returned error: %v", emitTestPrefix, err)
	}
	if msgCalls != 0 {
		t.Errorf("%s - message thunk invoked for unknown channel", emitTestPrefix)
	}
}

func TestLog_DispatchesMessageAndData(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	err := r.Log("foo", &LogInput{
		Message: func() any { return "bar" },
		Data:    func() any { return map[string]int{"x": 1, "y": 2, "z": 3} },
	})
	if err != nil {
		t.Fatalf("%s - Log failed: %v", emitTestPrefix, err)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("%s - got %d entries, want 1", emitTestPrefix, len(rec.entries))
	}
	e := rec.entries[0]
	if e.Channel != "foo" {
		t.Errorf("%s - entry channel = %q, want %q", emitTestPrefix, e.Channel, "foo")
	}
	if e.Message != "bar" {
		t.Errorf("%s - entry message = %q, want %q", emitTestPrefix, e.Message, "bar")
	}
	if string(e.Data) != `{"x":1,"y":2,"z":3}` {
		t.Errorf("%s - entry data = %s, want {\"x\":1,\"y\":2,\"z\":3}", emitTestPrefix, e.Data)
	}
}

func TestLog_NonStringMessage(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	if err := r.Log("foo", &LogInput{Message: func() any { return 42 }}); err != nil {
		t.Fatalf("%s - Log failed: %v", emitTestPrefix, err)
	}
	if rec.entries[0].Message != "42" {
		t.Errorf("%s - message = %q, want %q", emitTestPrefix, rec.entries[0].Message, "42")
	}
	if rec.entries[0].Data != nil {
		t.Errorf("%s - data = %s, want nil without a data thunk", emitTestPrefix, rec.entries[0].Data)
	}
}

func TestLog_EncoderConvertsData(t *testing.T) {
	type opaque struct{ ch chan int } // not JSON-encodable as-is

	r, rec := newEnabledRegistry(t, "foo")

	err := r.Log("foo", &LogInput{
		Message: func() any { return "encoded" },
		Data:    func() any { return opaque{ch: make(chan int)} },
		Encoder: func(v any) any { return map[string]string{"kind": "opaque"} },
	})
	if err != nil {
		t.Fatalf("%s - Log with encoder failed: %v", emitTestPrefix, err)
	}
	if string(rec.entries[0].Data) != `{"kind":"opaque"}` {
		t.Errorf("%s - encoded data = %s, want {\"kind\":\"opaque\"}", emitTestPrefix, rec.entries[0].Data)
	}
}

func TestLog_EncodeFailurePropagates(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	err := r.Log("foo", &LogInput{
		Message: func() any { return "bad data" },
		Data:    func() any { return make(chan int) },
	})
	if err == nil {
		t.Fatalf("%s - expected encode error for unencodable data", emitTestPrefix)
	}
	if !strings.Contains(err.Error(), "foo") {
		t.Errorf("%s - encode error %v does not name the channel", emitTestPrefix, err)
	}
	if len(rec.entries) != 0 {
		t.Errorf("%s - listener received %d entries after encode failure, want 0", emitTestPrefix, len(rec.entries))
	}
}

func TestLog_ListenerOrder(t *testing.T) {
	r := NewRegistry(NewRegistryParams{})
	if err := r.Register("foo", ""); err != nil {
		t.Fatalf("%s - Register failed: %v", emitTestPrefix, err)
	}
	r.SetEnabled("foo", true)

	var order []string
	first := NewFuncListener(func(e *Entry) { order = append(order, "first") })
	second := NewFuncListener(func(e *Entry) { order = append(order, "second") })
	r.AddListener(first)
	r.AddListener(second)

	if err := r.LogMessage("foo", func() any { return "x" }); err != nil {
		t.Fatalf("%s - LogMessage failed: %v", emitTestPrefix, err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("%s - dispatch order = %v, want [first second]", emitTestPrefix, order)
	}
}

func TestLog_DuplicateListenerNoOp(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	// Second add of the same listener value must not double dispatch.
	r.AddListener(rec)

	if err := r.LogMessage("foo", func() any { return "once" }); err != nil {
		t.Fatalf("%s - LogMessage failed: %v", emitTestPrefix, err)
	}
	if len(rec.entries) != 1 {
		t.Errorf("%s - got %d entries, want 1 after duplicate add", emitTestPrefix, len(rec.entries))
	}
}

func TestLog_RemovedListenerStopsReceiving(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	if err := r.LogMessage("foo", func() any { return "one" }); err != nil {
		t.Fatalf("%s - LogMessage failed: %v", emitTestPrefix, err)
	}
	r.RemoveListener(rec)
	if err := r.LogMessage("foo", func() any { return "two" }); err != nil {
		t.Fatalf("%s - LogMessage failed: %v", emitTestPrefix, err)
	}

	if len(rec.entries) != 1 {
		t.Errorf("%s - got %d entries, want 1 after removal", emitTestPrefix, len(rec.entries))
	}
}

func TestLog_LevelAndStack(t *testing.T) {
	r, rec := newEnabledRegistry(t, "foo")

	err := r.Log("foo", &LogInput{
		Message:      func() any { return "with stack" },
		Level:        slog.LevelError,
		CaptureStack: true,
	})
	if err != nil {
		t.Fatalf("%s - Log failed: %v", emitTestPrefix, err)
	}

	e := rec.entries[0]
	if e.Level != slog.LevelError {
		t.Errorf("%s - level = %v, want %v", emitTestPrefix, e.Level, slog.LevelError)
	}
	if len(e.Stack) == 0 {
		t.Errorf("%s - stack not captured", emitTestPrefix)
	}
}

func TestLog_NilInput(t *testing.T) {
	r, _ := newEnabledRegistry(t, "foo")

	if err := r.Log("foo", nil); err == nil {
		t.Errorf("%s - nil input accepted, want INVALID_ARGUMENT", emitTestPrefix)
	}
	if err := r.Log("foo", &LogInput{}); err == nil {
		t.Errorf("%s - missing message thunk accepted, want INVALID_ARGUMENT", emitTestPrefix)
	}
}
