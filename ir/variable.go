// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the fuzzer's intermediate representation: variables,
// instructions, the operation catalog, append-only code lists, and
// finalized programs. Nothing in this package understands any particular
// surface language; it only enforces the structural invariants that every
// analyzer and builder downstream relies on.
package ir

import "fmt"

// MaxVariables bounds how many variables a single Code may define. Chosen
// to match the width of the dense variable-number space a VariableSet is
// expected to index efficiently.
const MaxVariables = 1 << 16

// Variable is a non-negative integer identifier, unique within the Code
// that defines it. Variables carry no type of their own; inference lives
// in the analysis package.
type Variable int

// Invalid is returned by lookups that found nothing; no instruction ever
// produces it.
const Invalid Variable = -1

func (v Variable) String() string {
	if v == Invalid {
		return "<invalid>"
	}
	return fmt.Sprintf("v%d", int(v))
}
