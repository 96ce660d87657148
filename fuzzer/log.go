// This file defines the Log struct and associated methods. A Fuzzer's event
// bus carries a Log entry on every "log" lifecycle event (EventLog).
package fuzzer

import (
	"bytes"
	"fmt"
)

// A Severity indicates whether a log entry describes an informational
// message, a warning, or an error.
type Severity int

const (
	Info    Severity = iota // informational message
	Warning                 // warning, something to be cautious of
	Error                   // the run is, or might be, compromised
)

// An Entry is a single entry in a Log: a severity, a message, and,
// optionally, the instruction index it concerns.
type Entry struct {
	Severity       Severity
	Message        string
	InstructionIdx int // -1 if the entry is not associated with one
}

func (entry *Entry) String() string {
	var buffer bytes.Buffer
	switch entry.Severity {
	case Info:
		// No prefix
	case Warning:
		buffer.WriteString("Warning: ")
	case Error:
		buffer.WriteString("Error: ")
	}
	if entry.InstructionIdx >= 0 {
		fmt.Fprintf(&buffer, "instruction %d: ", entry.InstructionIdx)
	}
	buffer.WriteString(entry.Message)
	return buffer.String()
}

// A Log accumulates Entries for later presentation; a Fuzzer carries exactly
// one, cleared at the start of each build iteration.
type Log struct {
	Entries []*Entry
}

// NewLog returns a new Log with no entries.
func NewLog() *Log {
	return &Log{Entries: []*Entry{}}
}

// Clear removes all Entries from the log.
func (log *Log) Clear() {
	log.Entries = []*Entry{}
}

// Infof adds an informational entry.
func (log *Log) Infof(format string, v ...interface{}) {
	log.log(Info, format, v...)
}

// Warnf adds an entry with Warning severity.
func (log *Log) Warnf(format string, v ...interface{}) {
	log.log(Warning, format, v...)
}

// Errorf adds an entry with Error severity.
func (log *Log) Errorf(format string, v ...interface{}) {
	log.log(Error, format, v...)
}

func (log *Log) log(severity Severity, format string, v ...interface{}) {
	log.Entries = append(log.Entries, &Entry{
		Severity:       severity,
		Message:        fmt.Sprintf(format, v...),
		InstructionIdx: -1,
	})
}

// AssociateInstruction attaches idx to the most recently-logged entry.
func (log *Log) AssociateInstruction(idx int) {
	if len(log.Entries) == 0 {
		return
	}
	log.Entries[len(log.Entries)-1].InstructionIdx = idx
}

func (log *Log) String() string {
	var buffer bytes.Buffer
	for _, entry := range log.Entries {
		buffer.WriteString(entry.String())
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// ContainsErrors returns true if the log contains at least one Error entry.
func (log *Log) ContainsErrors() bool {
	for _, entry := range log.Entries {
		if entry.Severity == Error {
			return true
		}
	}
	return false
}
