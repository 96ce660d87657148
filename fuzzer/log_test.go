package fuzzer_test

import (
	"strings"
	"testing"

	"github.com/edgecover/fuzzer/fuzzer"
)

func TestLogAccumulatesEntries(t *testing.T) {
	log := fuzzer.NewLog()
	log.Infof("built %d instructions", 3)
	log.Warnf("falling back to literal")
	log.Errorf("splice failed")

	if len(log.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(log.Entries))
	}
	if !log.ContainsErrors() {
		t.Fatalf("expected ContainsErrors to be true")
	}
	if !strings.Contains(log.String(), "splice failed") {
		t.Fatalf("expected String() to mention the error entry")
	}
}

func TestLogWithoutErrorsReportsNone(t *testing.T) {
	log := fuzzer.NewLog()
	log.Infof("ok")
	if log.ContainsErrors() {
		t.Fatalf("expected ContainsErrors to be false")
	}
}

func TestLogClear(t *testing.T) {
	log := fuzzer.NewLog()
	log.Errorf("boom")
	log.Clear()
	if len(log.Entries) != 0 {
		t.Fatalf("expected Clear to empty the log")
	}
}

func TestLogAssociateInstruction(t *testing.T) {
	log := fuzzer.NewLog()
	log.Warnf("suspicious literal")
	log.AssociateInstruction(7)
	if log.Entries[0].InstructionIdx != 7 {
		t.Fatalf("expected the entry to be associated with instruction 7, got %d", log.Entries[0].InstructionIdx)
	}
}
