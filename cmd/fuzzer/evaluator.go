package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
)

// HashEvaluator is a minimal standalone Evaluator: since the real
// shared-memory coverage bitmap a target reports through is an
// implementation detail the Runner/Evaluator interfaces deliberately leave
// out (fuzzer/contracts.go), this derives a pseudo coverage edge from an
// FNV-1a hash of each fixed-size window of a run's stdout, enough to drive
// the engine end to end against a target with no real instrumentation
// wired in yet. A production deployment replaces this with an Evaluator
// reading the target's actual bitmap.
type HashEvaluator struct {
	seen map[uint32]bool
}

func NewHashEvaluator() *HashEvaluator {
	return &HashEvaluator{seen: map[uint32]bool{}}
}

const windowSize = 64

func edgesFor(data []byte) fuzzer.EdgeAspects {
	if len(data) == 0 {
		return nil
	}
	var edges []uint32
	for i := 0; i < len(data); i += windowSize {
		end := i + windowSize
		if end > len(data) {
			end = len(data)
		}
		h := fnv.New32a()
		h.Write(data[i:end])
		edges = append(edges, h.Sum32())
	}
	return fuzzer.NewEdgeAspects(edges)
}

func (e *HashEvaluator) evaluate(execution fuzzer.Execution, seen map[uint32]bool) (fuzzer.Aspects, bool) {
	candidate := edgesFor(execution.Stdout)
	var fresh []uint32
	for _, edge := range candidate {
		if !seen[edge] {
			seen[edge] = true
			fresh = append(fresh, edge)
		}
	}
	if len(fresh) == 0 {
		return fuzzer.EdgeAspects(nil), false
	}
	return fuzzer.NewEdgeAspects(fresh), true
}

func (e *HashEvaluator) Evaluate(execution fuzzer.Execution) (fuzzer.Aspects, bool) {
	return e.evaluate(execution, e.seen)
}

func (e *HashEvaluator) EvaluateCrash(execution fuzzer.Execution) (fuzzer.Aspects, bool) {
	return edgesFor(execution.Stdout), true
}

func (e *HashEvaluator) HasAspects(execution fuzzer.Execution, aspects fuzzer.Aspects) bool {
	want, ok := aspects.(fuzzer.EdgeAspects)
	if !ok {
		return false
	}
	got := edgesFor(execution.Stdout)
	return len(want.Intersect(got)) == len(want)
}

func (e *HashEvaluator) ComputeAspectIntersection(program *ir.Program, aspects fuzzer.Aspects) (fuzzer.Aspects, bool) {
	want, ok := aspects.(fuzzer.EdgeAspects)
	if !ok {
		return nil, false
	}
	return want, true
}

func (e *HashEvaluator) ExportState() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e.seen); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *HashEvaluator) ImportState(state []byte) error {
	seen := map[uint32]bool{}
	if err := gob.NewDecoder(bytes.NewReader(state)).Decode(&seen); err != nil {
		return fmt.Errorf("%w: %v", fuzzer.ErrEvaluatorStateImportError, err)
	}
	e.seen = seen
	return nil
}

func (e *HashEvaluator) ResetState() {
	e.seen = map[uint32]bool{}
}
