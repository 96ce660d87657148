// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"github.com/bits-and-blooms/bitset"
)

// VariableSet is a dense, bitset-backed set of Variables. All operations
// are O(words) or better, which matters here: the splicer (package splice)
// rebuilds sets like this on every instruction of every donor program it
// considers.
//
// The zero value is an empty set ready to use.
type VariableSet struct {
	bits *bitset.BitSet
}

// NewVariableSet returns an empty set with room pre-allocated for
// variables up to (but not including) n, avoiding reallocation for the
// common case of a set sized to a Code's current variable count.
func NewVariableSet(n int) VariableSet {
	if n < 0 {
		n = 0
	}
	return VariableSet{bits: bitset.New(uint(n))}
}

// VarSetOf returns a VariableSet containing exactly the given variables.
func VarSetOf(vars ...Variable) VariableSet {
	var s VariableSet
	for _, v := range vars {
		s.Insert(v)
	}
	return s
}

func (s *VariableSet) ensure() *bitset.BitSet {
	if s.bits == nil {
		s.bits = &bitset.BitSet{}
	}
	return s.bits
}

// Insert adds v to the set.
func (s *VariableSet) Insert(v Variable) {
	s.ensure().Set(uint(v))
}

// Remove deletes v from the set, if present.
func (s *VariableSet) Remove(v Variable) {
	if s.bits == nil {
		return
	}
	s.bits.Clear(uint(v))
}

// Contains reports whether v is a member of the set.
func (s VariableSet) Contains(v Variable) bool {
	if s.bits == nil || v < 0 {
		return false
	}
	return s.bits.Test(uint(v))
}

// Len returns the number of members in the set.
func (s VariableSet) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether the set has no members.
func (s VariableSet) IsEmpty() bool {
	return s.bits == nil || s.bits.None()
}

// Clone returns an independent copy of s.
func (s VariableSet) Clone() VariableSet {
	if s.bits == nil {
		return VariableSet{}
	}
	return VariableSet{bits: s.bits.Clone()}
}

// Union returns a new set containing every variable in s or other.
func (s VariableSet) Union(other VariableSet) VariableSet {
	switch {
	case s.bits == nil:
		return other.Clone()
	case other.bits == nil:
		return s.Clone()
	default:
		return VariableSet{bits: s.bits.Union(other.bits)}
	}
}

// UnionWith mutates s in place to also contain every variable in other.
func (s *VariableSet) UnionWith(other VariableSet) {
	if other.bits == nil {
		return
	}
	s.ensure().InPlaceUnion(other.bits)
}

// Intersection returns a new set containing only variables in both s and
// other.
func (s VariableSet) Intersection(other VariableSet) VariableSet {
	if s.bits == nil || other.bits == nil {
		return VariableSet{}
	}
	return VariableSet{bits: s.bits.Intersection(other.bits)}
}

// Subtract returns a new set containing the variables in s that are not in
// other.
func (s VariableSet) Subtract(other VariableSet) VariableSet {
	if s.bits == nil {
		return VariableSet{}
	}
	if other.bits == nil {
		return s.Clone()
	}
	return VariableSet{bits: s.bits.Difference(other.bits)}
}

// SubtractFrom mutates s in place, removing every variable that is also in
// other.
func (s *VariableSet) SubtractFrom(other VariableSet) {
	if s.bits == nil || other.bits == nil {
		return
	}
	s.bits.InPlaceDifference(other.bits)
}

// Disjoint reports whether s and other share no members.
func (s VariableSet) Disjoint(other VariableSet) bool {
	if s.bits == nil || other.bits == nil {
		return true
	}
	return s.bits.IntersectionCardinality(other.bits) == 0
}

// IsSubsetOf reports whether every member of s is also a member of other.
func (s VariableSet) IsSubsetOf(other VariableSet) bool {
	if s.bits == nil {
		return true
	}
	if other.bits == nil {
		return s.bits.None()
	}
	return other.bits.IsSuperSet(s.bits)
}

// Equal compares the logical contents of two sets: trailing zero words do
// not affect equality, so a set built with a large capacity hint and one
// built incrementally compare equal once they hold the same members.
func (s VariableSet) Equal(other VariableSet) bool {
	switch {
	case s.bits == nil && other.bits == nil:
		return true
	case s.bits == nil:
		return other.bits.None()
	case other.bits == nil:
		return s.bits.None()
	default:
		return s.bits.Equal(other.bits)
	}
}

// ForEach calls f for every member of the set in ascending order. f must
// not mutate the set.
func (s VariableSet) ForEach(f func(Variable)) {
	if s.bits == nil {
		return
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		f(Variable(i))
	}
}

// Variables returns the members of the set as a sorted slice.
func (s VariableSet) Variables() []Variable {
	out := make([]Variable, 0, s.Len())
	s.ForEach(func(v Variable) { out = append(out, v) })
	return out
}
