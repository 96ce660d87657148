// The fuzzer command drives the engine in package fuzzer against an
// external instrumented target, as a spf13/cobra command.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/generators"
	"github.com/edgecover/fuzzer/ir"
	"github.com/edgecover/fuzzer/mutators"
)

var log = logrus.New()

type runFlags struct {
	targetBinary string
	targetArgs   []string
	instances    int
	iterations   int
	timeout      time.Duration

	windowSize            int
	restartThreshold       int64
	cacheSize             int
	minMutationsPerSample int
	regenerateThreshold   int

	generatorBudget int
	verbose         bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "fuzzer --target <binary>",
		Short: "coverage-guided fuzzing engine driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(cmd.Context(), flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.targetBinary, "target", "", "path to the instrumented target binary (required)")
	pf.StringSliceVar(&flags.targetArgs, "target-arg", nil, "extra argument passed to the target binary (repeatable)")
	pf.IntVar(&flags.instances, "instances", 1, "number of independent, process-level fuzzing instances to launch")
	pf.IntVar(&flags.iterations, "iterations", 0, "iterations per instance; 0 runs until interrupted")
	pf.DurationVar(&flags.timeout, "timeout", time.Second, "per-execution timeout")
	pf.IntVar(&flags.windowSize, "window-size", 100, "iterations per critical-mass window (bandit cadence)")
	pf.Int64Var(&flags.restartThreshold, "restart-threshold", 1_000_000, "iterations before a bandit restart")
	pf.IntVar(&flags.cacheSize, "cache-size", 32, "program-cache bandit arm count")
	pf.IntVar(&flags.minMutationsPerSample, "min-mutations-per-sample", 50, "mutations before a cache slot is regenerated")
	pf.IntVar(&flags.regenerateThreshold, "regenerate-threshold", 50, "windows between whole-cache regenerations")
	pf.IntVar(&flags.generatorBudget, "generator-budget", 8, "instructions GenerateMutator appends per call")
	pf.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")
	cmd.MarkPersistentFlagRequired("target")

	return cmd
}

func run(ctx context.Context, flags *runFlags) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < flags.instances; i++ {
		instance := i
		group.Go(func() error {
			return runInstance(ctx, flags, instance)
		})
	}
	return group.Wait()
}

// runInstance owns one single-threaded Fuzzer end to end: each instance's
// serial queue is untouched by the others; only this launcher is
// concurrent. instance seeds the PRNG so parallel instances explore
// different parts of the search space rather than lockstepping.
func runInstance(ctx context.Context, flags *runFlags, instance int) error {
	instanceLog := log.WithField("instance", instance)

	rng := rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(instance)*0x9E3779B97F4A7C15))
	b := builder.New(rng.Int63(), JSEnvironment{}, analysis.NewPropertyTypes())

	events := fuzzer.NewEvents()
	events.On(fuzzer.EventCrashFound, func(p fuzzer.EventPayload) {
		instanceLog.Warnf("crash found after program %p", p.Program)
	})
	events.On(fuzzer.EventLog, func(p fuzzer.EventPayload) {
		if p.LogEntry != nil {
			instanceLog.Debug(p.LogEntry.String())
		}
	})

	corpus := fuzzer.NewDefaultCorpus(rng, 1000)
	runner := &ProcessRunner{Binary: flags.targetBinary, Args: flags.targetArgs}
	evaluator := NewHashEvaluator()
	lifter := NewJSLifter()

	table := generators.DefaultTable()
	allMutators := []fuzzer.Mutator{
		mutators.NewSpliceMutator(),
		mutators.NewGenerateMutator(table, flags.generatorBudget),
		mutators.NewOperationMutator(),
	}

	cfg := fuzzer.Config{
		WindowSize:            flags.windowSize,
		RestartThreshold:      flags.restartThreshold,
		CacheSize:             flags.cacheSize,
		MinMutationsPerSample: flags.minMutationsPerSample,
		RegenerateThreshold:   flags.regenerateThreshold,
		Timeout:               flags.timeout,
	}
	f := fuzzer.New(cfg, b, events, corpus, runner, evaluator, lifter, allMutators, rng)
	f.SeedCache(seedPrograms(b, flags.cacheSize))

	instanceLog.Info("starting fuzzing loop")
	for i := 0; flags.iterations == 0 || i < flags.iterations; i++ {
		select {
		case <-ctx.Done():
			instanceLog.Info("shutting down")
			return nil
		default:
		}

		_, _, err := f.RunIteration(ctx)
		if err != nil {
			instanceLog.Errorf("iteration %d: %v", i, err)
		}
		if i%1000 == 0 && i > 0 {
			instanceLog.Infof("iteration %d, corpus size %d", i, f.Corpus().Size())
		}
	}
	return nil
}

// seedPrograms builds n trivial programs to bootstrap the program-cache
// bandit before the corpus has any real entries of its own.
func seedPrograms(b *builder.Builder, n int) []*ir.Program {
	seeds := make([]*ir.Program, 0, n)
	for i := 0; i < n; i++ {
		b.Reset()
		b.LoadInt(int64(i))
		seeds = append(seeds, ir.Finalize(b.Code(), nil, []string{"seed"}))
	}
	return seeds
}
