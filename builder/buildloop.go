package builder

// minBudgetForRecursiveGeneration is the smallest remaining instruction
// budget at which a recursive generator (one that itself opens nested
// blocks, like an if-generator that recurses into its own body) is still
// allowed to recurse; below it, recursive generators are skipped so a
// shrinking budget actually terminates.
const minBudgetForRecursiveGeneration = 5

// maxConsecutiveFailedAttempts bounds how many times in a row Build may
// pick a generator that produces nothing before giving up — the safety
// valve against an unlucky run of no-ops stalling forever.
const maxConsecutiveFailedAttempts = 10

// buildingState tracks one level of an active Build call: its initial
// budget and mode, whether recursion was allowed when it started, and how
// many recursive blocks BuildRecursive has run under it. BuildRecursive
// does not split the budget among those blocks.
type buildingState struct {
	initialBudget        int
	mode                 Mode
	recursiveAllowed     bool
	nextRecursiveBlock   int
	totalRecursiveBlocks int
}

// Build runs the build loop for roughly n instructions, sampling
// context-compatible generators from table uniformly at random (a real
// fuzzer wraps table selection with a bandit; see package bandit) until
// the budget is spent or generation stalls out.
func (b *Builder) Build(n int, mode Mode, table *GeneratorTable) {
	state := &buildingState{initialBudget: n, mode: mode, recursiveAllowed: n >= minBudgetForRecursiveGeneration}
	b.buildStack = append(b.buildStack, state)
	defer func() { b.buildStack = b.buildStack[:len(b.buildStack)-1] }()

	prevMode := b.mode
	b.mode = mode
	defer func() { b.mode = prevMode }()

	generated := 0
	failures := 0
	for generated < n {
		candidates := table.applicable(b.Context())
		if n-generated < minBudgetForRecursiveGeneration {
			var nonRecursive []CodeGenerator
			for _, g := range candidates {
				if !g.IsRecursive {
					nonRecursive = append(nonRecursive, g)
				}
			}
			candidates = nonRecursive
		}
		if len(candidates) == 0 {
			break
		}
		g := candidates[b.rng.Intn(len(candidates))]

		before := b.code.Len()
		g.Run(b)
		produced := b.code.Len() - before

		if produced == 0 {
			failures++
			if failures >= maxConsecutiveFailedAttempts {
				break
			}
			continue
		}
		failures = 0
		generated += produced
	}
}

// RecursionAllowed reports whether the innermost active Build call still
// permits a recursive generator to open nested blocks, per the remaining
// budget captured when that Build started.
func (b *Builder) RecursionAllowed() bool {
	if len(b.buildStack) == 0 {
		return true
	}
	return b.buildStack[len(b.buildStack)-1].recursiveAllowed
}

// BuildRecursive runs each of blocks in turn, but only if the enclosing
// Build call still allows recursion; a recursive generator that calls this
// when the budget is too small to bother should simply skip its nested
// content rather than force it, since the caller (Build) already accounts
// the parent generator's own instructions toward the budget regardless.
func (b *Builder) BuildRecursive(blocks ...func()) {
	if !b.RecursionAllowed() {
		return
	}
	state := b.buildStack[len(b.buildStack)-1]
	for _, block := range blocks {
		state.nextRecursiveBlock++
		state.totalRecursiveBlocks++
		block()
	}
}
