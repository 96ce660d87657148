package fuzzer

import "errors"

// Error kinds the core surfaces. BuilderInvariantViolation is modeled
// separately as ir.InvariantViolation, since it is raised directly by the
// ir/builder packages rather than by the driver; the remaining four are
// sentinel values wrapped with fmt.Errorf("...: %w", ...) at their call
// sites so callers can errors.Is against them without losing context.
var (
	// ErrSpliceFailed: no candidate root existed in the donor, or the
	// chosen root yielded an empty slice. Non-fatal; the build loop
	// swallows it and counts it toward the consecutive-failure budget.
	ErrSpliceFailed = errors.New("fuzzer: splice failed")

	// ErrCodeGeneratorFailed: a generator's strict inputs were not found
	// in scope. Non-fatal; reported as zero instructions emitted.
	ErrCodeGeneratorFailed = errors.New("fuzzer: code generator failed")

	// ErrEvaluatorStateImportError: the shape of an imported evaluator
	// state is incompatible with the current instrumentation. Fatal
	// unless the caller supplies a fresh state.
	ErrEvaluatorStateImportError = errors.New("fuzzer: evaluator state import error")

	// ErrRunnerCrashed and ErrTimedOut are not errors for the core — the
	// evaluator consumes these outcomes directly from an Execution — but
	// are provided as sentinels for callers that want to propagate them
	// through an error-returning path anyway (e.g. a CLI reporting a
	// reproduction run).
	ErrRunnerCrashed = errors.New("fuzzer: runner crashed")
	ErrTimedOut      = errors.New("fuzzer: runner timed out")
)
