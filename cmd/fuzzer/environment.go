package main

import "github.com/edgecover/fuzzer/builder"

// JSEnvironment is the default builder.Environment a standalone CLI run
// wires in: a small, fixed curated set of interesting values, builtins, and
// property/method names common across JS engines. A target-specific
// deployment would instead derive this from the engine under test, but
// named-by-interface external discovery of that surface is out of scope
// here (contracts.go's Lifter/Runner/Evaluator already leave the concrete
// target out of the core).
type JSEnvironment struct{}

func (JSEnvironment) InterestingIntegers() []int64 {
	return []int64{0, 1, -1, 2, 10, -10, 100, 1 << 31, -(1 << 31), 1<<31 - 1, -(1<<31 - 1)}
}

func (JSEnvironment) InterestingFloats() []float64 {
	return []float64{0, -0, 1.1, -1.1, 0.1, 1e300, -1e300}
}

func (JSEnvironment) Builtins() []string {
	return []string{"Object", "Array", "Function", "String", "Number", "Boolean", "Math", "JSON", "Promise"}
}

func (JSEnvironment) PropertiesForReading() []string {
	return []string{"length", "constructor", "prototype", "name", "value", "x", "y"}
}

func (JSEnvironment) PropertiesForWriting() []string {
	return []string{"length", "value", "x", "y"}
}

func (JSEnvironment) PropertiesForDefining() []string {
	return []string{"x", "y", "z"}
}

func (JSEnvironment) Methods() []string {
	return []string{"toString", "valueOf", "push", "pop", "slice", "map", "forEach"}
}

var _ builder.Environment = JSEnvironment{}
