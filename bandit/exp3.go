// Package bandit implements the Exp3.1 scheduler: two independent
// instances run side by side in a real engine, one choosing among mutators,
// one among a sliding cache of corpus programs, but both sit on the same
// generic engine in this file — only the reward computation differs, and
// that lives with each caller, not here.
package bandit

import (
	"math"
	"math/rand"
)

// arm holds one action's running statistics: weight, invocation count, the
// reward sums a z-score needs, and the accumulated estimated reward G the
// epoch advance rule watches.
type arm struct {
	weight               float64
	invocationCount       int64
	sumOfRewards          float64
	sumOfSquaredRewards   float64
	lastNormalizedReward  float64
	estimatedReward       float64 // G_a
}

// Exp3 is one Exp3.1 instance over a fixed number of actions. It knows
// nothing about what an action represents — the mutator bandit and the
// program-cache bandit both wrap an Exp3 and supply their own reward
// computation and action identities.
type Exp3 struct {
	arms  []arm
	epoch int
	gamma float64
	rng   *rand.Rand

	iterations int64
}

// New returns an Exp3 instance over k actions, all weights initialized to
// 1 and epoch 0.
func New(k int, rng *rand.Rand) *Exp3 {
	if k <= 0 {
		panic("bandit: k must be positive")
	}
	e := &Exp3{arms: make([]arm, k), rng: rng}
	for i := range e.arms {
		e.arms[i].weight = 1
	}
	e.gamma = gammaForEpoch(0, k)
	return e
}

// K reports the number of actions.
func (e *Exp3) K() int { return len(e.arms) }

// bestActionGuess computes g(r) = (K·lnK / (e−1)) · 4^r.
func bestActionGuess(r, k int) float64 {
	return (float64(k) * math.Log(float64(k)) / (math.E - 1)) * math.Pow(4, float64(r))
}

// gammaForEpoch computes γ = min(1, √((K·lnK) / ((e−1)·g(r)))).
func gammaForEpoch(r, k int) float64 {
	g := bestActionGuess(r, k)
	if g == 0 {
		return 1
	}
	return math.Min(1, math.Sqrt((float64(k)*math.Log(float64(k)))/((math.E-1)*g)))
}

func (e *Exp3) totalWeight() float64 {
	var sum float64
	for i := range e.arms {
		sum += e.arms[i].weight
	}
	return sum
}

// probabilities returns the current selection probability of every arm:
// (1−γ)·w_a/Σw + γ/K.
func (e *Exp3) probabilities() []float64 {
	k := len(e.arms)
	sum := e.totalWeight()
	probs := make([]float64, k)
	for i := range e.arms {
		probs[i] = (1-e.gamma)*(e.arms[i].weight/sum) + e.gamma/float64(k)
	}
	return probs
}

// Select samples one arm index from the current distribution.
func (e *Exp3) Select() int {
	probs := e.probabilities()
	x := e.rng.Float64()
	var cumulative float64
	for i, p := range probs {
		cumulative += p
		if x < cumulative {
			return i
		}
	}
	return len(probs) - 1
}

// Probability returns arm a's current selection probability, for callers
// (tests, telemetry) that want it without drawing a sample.
func (e *Exp3) Probability(a int) float64 {
	return e.probabilities()[a]
}

// normalize applies per-action z-score logistic normalization of a raw
// throughput reward into (−1, 1), using the arm's own running mean and
// standard deviation.
func (a *arm) normalize(raw float64) float64 {
	if a.invocationCount == 0 {
		return 0
	}
	n := float64(a.invocationCount)
	mean := a.sumOfRewards / n
	variance := a.sumOfSquaredRewards/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0
	}
	z := (raw - mean) / stddev
	return 2/(1+math.Exp(-z)) - 1
}

// Update records the outcome of running arm a once, with raw (pre-
// normalization) throughput reward, and performs the weight update and
// epoch-advance check. Update must be called once per invocation, in the
// order invocations actually happened — the engine's ordering guarantee.
func (e *Exp3) Update(a int, raw float64) {
	arm := &e.arms[a]

	p := e.Probability(a)
	normalized := arm.normalize(raw)
	arm.lastNormalizedReward = normalized
	arm.invocationCount++
	arm.sumOfRewards += raw
	arm.sumOfSquaredRewards += raw * raw

	xhat := normalized / p
	arm.estimatedReward += xhat
	k := float64(len(e.arms))
	arm.weight *= math.Exp(e.gamma * xhat / k)

	e.iterations++
	e.advanceEpochIfNeeded()
}

// advanceEpochIfNeeded implements: if max_a G_a > g(r) − K/γ, reset that
// arm's G to 0, increment r, and recompute γ.
func (e *Exp3) advanceEpochIfNeeded() {
	k := len(e.arms)
	threshold := bestActionGuess(e.epoch, k) - float64(k)/e.gamma

	maxIdx := -1
	var maxG float64
	for i := range e.arms {
		if maxIdx == -1 || e.arms[i].estimatedReward > maxG {
			maxIdx = i
			maxG = e.arms[i].estimatedReward
		}
	}
	if maxG > threshold {
		e.arms[maxIdx].estimatedReward = 0
		e.epoch++
		e.gamma = gammaForEpoch(e.epoch, k)
	}
}

// RescaleWeights rescales every weight linearly into [1, 2K], preserving
// relative order, to keep the exponential weight update from overflowing
// over a long-running fuzzer session. Intended to be called periodically.
func (e *Exp3) RescaleWeights() {
	k := float64(len(e.arms))
	minW, maxW := math.Inf(1), math.Inf(-1)
	for i := range e.arms {
		if e.arms[i].weight < minW {
			minW = e.arms[i].weight
		}
		if e.arms[i].weight > maxW {
			maxW = e.arms[i].weight
		}
	}
	if maxW == minW {
		for i := range e.arms {
			e.arms[i].weight = 1
		}
		return
	}
	for i := range e.arms {
		norm := (e.arms[i].weight - minW) / (maxW - minW)
		e.arms[i].weight = 1 + norm*(2*k-1)
	}
}

// Restart implements the restart rule: rescale weights, and clear every
// epoch/trial/reward counter, starting the instance over at epoch 0
// without forgetting how many actions it tracks.
func (e *Exp3) Restart() {
	e.RescaleWeights()
	e.epoch = 0
	e.iterations = 0
	e.gamma = gammaForEpoch(0, len(e.arms))
	for i := range e.arms {
		e.arms[i].invocationCount = 0
		e.arms[i].sumOfRewards = 0
		e.arms[i].sumOfSquaredRewards = 0
		e.arms[i].lastNormalizedReward = 0
		e.arms[i].estimatedReward = 0
	}
}

// ResetArm replaces arm i's state as though it were a brand-new action:
// weight back to 1, every running statistic cleared. The program cache
// bandit uses this when a cache slot is regenerated with a freshly-drawn
// program, since that slot's history no longer describes the action now
// sitting in it.
func (e *Exp3) ResetArm(i int) {
	e.arms[i] = arm{weight: 1}
}

// Iterations reports how many Update calls this instance has processed
// since the last Restart.
func (e *Exp3) Iterations() int64 { return e.iterations }

// Epoch reports the current epoch r.
func (e *Exp3) Epoch() int { return e.epoch }

// ArmSnapshot is a read-only view of one arm's state, for tests and
// telemetry.
type ArmSnapshot struct {
	Weight               float64
	InvocationCount       int64
	SumOfRewards          float64
	SumOfSquaredRewards   float64
	LastNormalizedReward  float64
	EstimatedReward       float64
}

// Snapshot returns a copy of every arm's current state, in arm-index
// order.
func (e *Exp3) Snapshot() []ArmSnapshot {
	out := make([]ArmSnapshot, len(e.arms))
	for i, a := range e.arms {
		out[i] = ArmSnapshot{
			Weight:              a.weight,
			InvocationCount:      a.invocationCount,
			SumOfRewards:         a.sumOfRewards,
			SumOfSquaredRewards:  a.sumOfSquaredRewards,
			LastNormalizedReward: a.lastNormalizedReward,
			EstimatedReward:      a.estimatedReward,
		}
	}
	return out
}
