package bandit

import (
	"math"
	"math/rand"
	"testing"
)

// Directly exercises the arm-selection formula with two arms and a
// hand-set weight ratio, skipping Update entirely.
func TestArmSelectionProbabilityFormula(t *testing.T) {
	e := New(2, rand.New(rand.NewSource(1)))
	e.gamma = 0
	e.arms[0].weight = 1
	e.arms[1].weight = 3

	got := e.Probability(1)
	want := 0.75 // (1-0)*3/4 + 0/2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Probability(1) = %v, want %v", got, want)
	}
}

// Two arms weighted [1, 3], γ=0 — over many draws, arm 2 should be
// picked close to 75% of the time.
func TestArmSelectionDistributionMatchesWeights(t *testing.T) {
	e := New(2, rand.New(rand.NewSource(42)))
	e.gamma = 0
	e.arms[0].weight = 1
	e.arms[1].weight = 3

	const n = 10000
	count := 0
	for i := 0; i < n; i++ {
		if e.Select() == 1 {
			count++
		}
	}
	p := float64(count) / n
	// Binomial stddev at p=0.75, n=10000.
	sigma := math.Sqrt(0.75 * 0.25 / n)
	if math.Abs(p-0.75) > 3*sigma {
		t.Fatalf("observed P(arm 2)=%v, want within 3 sigma (%v) of 0.75", p, sigma)
	}
}

// invocation_count and sum_of_rewards must never decrease across Update
// calls, regardless of reward sign or epoch advances.
func TestMonotonicCounters(t *testing.T) {
	e := New(3, rand.New(rand.NewSource(7)))
	var prevInvocations [3]int64
	var prevSum [3]float64
	for i := 0; i < 500; i++ {
		a := i % 3
		reward := math.Abs(math.Sin(float64(i))) // throughput rewards are never negative
		e.Update(a, reward)
		snap := e.Snapshot()
		if snap[a].InvocationCount < prevInvocations[a] {
			t.Fatalf("invocation count decreased at step %d", i)
		}
		if snap[a].SumOfRewards < prevSum[a]-1e-9 {
			t.Fatalf("sum_of_rewards decreased at step %d", i)
		}
		prevInvocations[a] = snap[a].InvocationCount
		prevSum[a] = snap[a].SumOfRewards
	}
}

// An arm whose cumulative estimated reward crosses g(r) − K/γ must
// trigger an epoch advance, which bumps r and γ and zeroes that arm's G.
func TestEpochAdvancesWhenThresholdCrossed(t *testing.T) {
	e := New(2, rand.New(rand.NewSource(11)))
	startEpoch := e.Epoch()
	startGamma := e.gamma

	advanced := false
	for i := 0; i < 100000 && !advanced; i++ {
		e.Update(0, 1.0)
		if e.Epoch() > startEpoch {
			advanced = true
		}
	}
	if !advanced {
		t.Fatalf("expected repeated max-reward updates to eventually advance the epoch")
	}
	if e.gamma == startGamma {
		t.Fatalf("expected gamma to be recomputed after an epoch advance")
	}
	if e.arms[0].estimatedReward != 0 {
		t.Fatalf("expected the triggering arm's estimated reward to reset to 0, got %v", e.arms[0].estimatedReward)
	}
}

// Rescaling must keep every weight within [1, 2K] and never invert the
// relative order of two arms.
func TestRescaleWeightsPreservesOrderAndBounds(t *testing.T) {
	e := New(4, rand.New(rand.NewSource(3)))
	e.arms[0].weight = 0.1
	e.arms[1].weight = 5
	e.arms[2].weight = 5
	e.arms[3].weight = 1000

	e.RescaleWeights()

	k := float64(e.K())
	for i, a := range e.arms {
		if a.weight < 1-1e-9 || a.weight > 2*k+1e-9 {
			t.Fatalf("arm %d weight %v out of [1, %v]", i, a.weight, 2*k)
		}
	}
	if !(e.arms[0].weight < e.arms[1].weight && e.arms[1].weight == e.arms[2].weight && e.arms[2].weight < e.arms[3].weight) {
		t.Fatalf("rescale did not preserve relative order: %+v", e.arms)
	}
}

func TestRestartClearsCountersButKeepsArmCount(t *testing.T) {
	e := New(2, rand.New(rand.NewSource(9)))
	e.Update(0, 0.5)
	e.Update(1, -0.2)
	e.Restart()

	if e.K() != 2 {
		t.Fatalf("Restart changed arm count: %d", e.K())
	}
	if e.Epoch() != 0 || e.Iterations() != 0 {
		t.Fatalf("Restart did not clear epoch/iteration counters")
	}
	for i, snap := range e.Snapshot() {
		if snap.InvocationCount != 0 || snap.SumOfRewards != 0 || snap.EstimatedReward != 0 {
			t.Fatalf("arm %d not cleared: %+v", i, snap)
		}
	}
}
