package fuzzer_test

import (
	"testing"

	"github.com/edgecover/fuzzer/fuzzer"
)

func TestEventsFiresRegisteredHandlers(t *testing.T) {
	events := fuzzer.NewEvents()

	var gotCrash, gotOther int
	events.On(fuzzer.EventCrashFound, func(fuzzer.EventPayload) { gotCrash++ })
	events.On(fuzzer.EventCrashFound, func(fuzzer.EventPayload) { gotCrash++ })
	events.On(fuzzer.EventValidProgramFound, func(fuzzer.EventPayload) { gotOther++ })

	events.Fire(fuzzer.EventCrashFound, fuzzer.EventPayload{})

	if gotCrash != 2 {
		t.Fatalf("expected both EventCrashFound handlers to fire, got %d calls", gotCrash)
	}
	if gotOther != 0 {
		t.Fatalf("expected the EventValidProgramFound handler not to fire, got %d calls", gotOther)
	}
}

func TestEventsFireWithNoHandlersIsANoop(t *testing.T) {
	events := fuzzer.NewEvents()
	events.Fire(fuzzer.EventShutdown, fuzzer.EventPayload{})
}

func TestEventsPayloadIsPassedThrough(t *testing.T) {
	events := fuzzer.NewEvents()
	want := fuzzer.EventPayload{LogEntry: &fuzzer.Entry{Message: "hi"}}

	var got fuzzer.EventPayload
	events.On(fuzzer.EventLog, func(p fuzzer.EventPayload) { got = p })
	events.Fire(fuzzer.EventLog, want)

	if got.LogEntry == nil || got.LogEntry.Message != "hi" {
		t.Fatalf("expected the payload to be passed through unchanged")
	}
}
