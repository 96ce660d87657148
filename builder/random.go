package builder

import (
	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/ir"
)

// interestingBias is the probability that a random scalar is drawn from
// the environment's curated list of interesting values, rather than
// uniformly.
const interestingBias = 0.6

func (b *Builder) RandomInt() int64 {
	ints := b.env.InterestingIntegers()
	if len(ints) > 0 && b.rng.Float64() < interestingBias {
		return ints[b.rng.Intn(len(ints))]
	}
	switch b.rng.Intn(3) {
	case 0:
		return int64(b.rng.Intn(21) - 10)
	case 1:
		return int64(b.rng.Intn(2_000_000) - 1_000_000)
	default:
		return b.rng.Int63()
	}
}

func (b *Builder) RandomFloat() float64 {
	floats := b.env.InterestingFloats()
	if len(floats) > 0 && b.rng.Float64() < interestingBias {
		return floats[b.rng.Intn(len(floats))]
	}
	return (b.rng.Float64() - 0.5) * 2e10
}

var commonStrings = []string{"", "a", "foo", "bar", "toString", "constructor", "0", "-1", "length"}

func (b *Builder) RandomString() string {
	if b.rng.Float64() < 0.5 {
		return commonStrings[b.rng.Intn(len(commonStrings))]
	}
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	n := b.rng.Intn(8)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[b.rng.Intn(len(alphabet))]
	}
	return string(out)
}

var regExpAtoms = []string{`\d+`, `[a-z]+`, `.*`, `^$`, `\s`, `(abc)+`}

func (b *Builder) RandomRegExpPatternAndFlags() (pattern, flags string) {
	pattern = regExpAtoms[b.rng.Intn(len(regExpAtoms))]
	allFlags := "gimsuy"
	n := b.rng.Intn(3)
	for i := 0; i < n; i++ {
		flags += string(allFlags[b.rng.Intn(len(allFlags))])
	}
	return pattern, flags
}

func (b *Builder) RandomBuiltin() (string, bool) {
	builtins := b.env.Builtins()
	if len(builtins) == 0 {
		return "", false
	}
	return builtins[b.rng.Intn(len(builtins))], true
}

func (b *Builder) randomFrom(choices []string) (string, bool) {
	if len(choices) == 0 {
		return "", false
	}
	return choices[b.rng.Intn(len(choices))], true
}

func (b *Builder) RandomPropertyForReading() (string, bool) { return b.randomFrom(b.env.PropertiesForReading()) }
func (b *Builder) RandomPropertyForWriting() (string, bool) { return b.randomFrom(b.env.PropertiesForWriting()) }
func (b *Builder) RandomPropertyForDefining() (string, bool) {
	return b.randomFrom(b.env.PropertiesForDefining())
}
func (b *Builder) RandomMethod() (string, bool) { return b.randomFrom(b.env.Methods()) }

// RandomVariable returns an arbitrary visible variable, or false if there
// are none — which can only happen before any variable has ever been
// defined in this build.
func (b *Builder) RandomVariable() (ir.Variable, bool) {
	vars := b.scope.VisibleVariables().Variables()
	if len(vars) == 0 {
		return ir.Invalid, false
	}
	return vars[b.rng.Intn(len(vars))], true
}

// RandomVariableOfType implements the type-matching contract: in
// Conservative mode only statically-compatible variables are considered;
// in Aggressive mode Unknown-typed variables are admitted too, and failing
// that any visible variable at all. This method must not panic merely
// because no variable matches — callers use the returned bool.
func (b *Builder) RandomVariableOfType(t analysis.Type) (ir.Variable, bool) {
	vars := b.scope.VisibleVariables().Variables()

	var matching []ir.Variable
	var unknown []ir.Variable
	for _, v := range vars {
		vt := b.types.TypeOf(v)
		if vt.Kind == analysis.Unknown && t.Kind != analysis.Anything {
			unknown = append(unknown, v)
		} else if vt.IsSubtypeOf(t) {
			matching = append(matching, v)
		}
	}
	if len(matching) > 0 {
		return matching[b.rng.Intn(len(matching))], true
	}
	if b.mode == Aggressive {
		if len(unknown) > 0 {
			return unknown[b.rng.Intn(len(unknown))], true
		}
		return b.RandomVariable()
	}
	return ir.Invalid, false
}

// RandomVariables returns up to n distinct visible variables, fewer if
// fewer are in scope.
func (b *Builder) RandomVariables(n int) []ir.Variable {
	vars := b.scope.VisibleVariables().Variables()
	if n > len(vars) {
		n = len(vars)
	}
	b.rng.Shuffle(len(vars), func(i, j int) { vars[i], vars[j] = vars[j], vars[i] })
	return vars[:n]
}

// reuseOrLoad looks up a visible variable already known to hold value (via
// the reuse map), filtering by current visibility rather than actively
// invalidating on scope exit — a variable from a scope that has since
// closed simply stops being found here. Falls back to load when nothing
// qualifies.
func reuseOrLoad[K comparable](b *Builder, reuse map[K][]ir.Variable, value K, load func() ir.Variable) ir.Variable {
	visible := b.scope.VisibleVariables()
	for _, v := range reuse[value] {
		if visible.Contains(v) {
			return v
		}
	}
	return load()
}

func (b *Builder) ReuseOrLoadInt(value int64) ir.Variable {
	return reuseOrLoad(b, b.intReuse, value, func() ir.Variable { return b.LoadInt(value) })
}

func (b *Builder) ReuseOrLoadFloat(value float64) ir.Variable {
	return reuseOrLoad(b, b.floatReuse, value, func() ir.Variable { return b.LoadFloat(value) })
}

func (b *Builder) ReuseOrLoadString(value string) ir.Variable {
	return reuseOrLoad(b, b.stringReuse, value, func() ir.Variable { return b.LoadString(value) })
}

// RandomArgumentsFor synthesizes an argument list matching sig as closely
// as possible: a plain parameter pulls a type-compatible visible variable
// (falling back to a fresh literal of some kind when none is in scope), a
// rest parameter pulls zero or more.
func (b *Builder) RandomArgumentsFor(sig ir.Signature) []ir.Variable {
	var args []ir.Variable
	for _, p := range sig.Parameters {
		switch p {
		case ir.ParamRest:
			n := b.rng.Intn(3)
			args = append(args, b.RandomVariables(n)...)
		default:
			if v, ok := b.RandomVariableOfType(analysis.Of(analysis.Anything)); ok {
				args = append(args, v)
			} else {
				args = append(args, b.LoadInt(b.RandomInt()))
			}
		}
	}
	return args
}
