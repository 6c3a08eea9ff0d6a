// Copyright 2024 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package value provides the opaque SQL value domain consumed by predicate
// evaluation: a small set of datum types with three-valued equality and a
// distinguished NULL marker. All concrete types are comparable so that
// values can be deduplicated as map keys.
package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/inlist/pkg/sql/sem/tri"
)

// Value is a single SQL value.
type Value interface {
	// EqualTV is three-valued equality: it returns tri.Unknown whenever
	// either operand is Null, and a definite answer otherwise.
	EqualTV(other Value) tri.Bool
	// Size returns the accounted in-memory footprint of the value in bytes.
	Size() int64

	String() string
}

type nullVal struct{}

// Null is the NULL marker. Comparing anything with Null yields tri.Unknown.
var Null Value = nullVal{}

// IsNull reports whether v is the NULL marker.
func IsNull(v Value) bool {
	return v == Null
}

func (nullVal) EqualTV(Value) tri.Bool { return tri.Unknown }
func (nullVal) Size() int64            { return 0 }
func (nullVal) String() string         { return "NULL" }

// Int is an INT datum.
type Int int64

// Float is a FLOAT8 datum.
type Float float64

// Str is a STRING datum.
type Str string

// Bool is a BOOL datum.
type Bool bool

func (d Int) EqualTV(other Value) tri.Bool {
	switch t := other.(type) {
	case nullVal:
		return tri.Unknown
	case Int:
		return tri.FromBool(d == t)
	case Float:
		return tri.FromBool(float64(d) == float64(t))
	default:
		return tri.False
	}
}

func (d Int) Size() int64    { return 8 }
func (d Int) String() string { return strconv.FormatInt(int64(d), 10) }

func (d Float) EqualTV(other Value) tri.Bool {
	if math.IsNaN(float64(d)) {
		// NaN equals nothing, not even itself, but the answer is definite.
		if IsNull(other) {
			return tri.Unknown
		}
		return tri.False
	}
	switch t := other.(type) {
	case nullVal:
		return tri.Unknown
	case Int:
		return tri.FromBool(float64(d) == float64(t))
	case Float:
		return tri.FromBool(d == t)
	default:
		return tri.False
	}
}

func (d Float) Size() int64 { return 8 }

func (d Float) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}

func (d Str) EqualTV(other Value) tri.Bool {
	switch t := other.(type) {
	case nullVal:
		return tri.Unknown
	case Str:
		return tri.FromBool(d == t)
	default:
		return tri.False
	}
}

// strOverhead approximates the string header and allocator slop.
const strOverhead = 16

func (d Str) Size() int64    { return strOverhead + int64(len(d)) }
func (d Str) String() string { return "'" + string(d) + "'" }

func (d Bool) EqualTV(other Value) tri.Bool {
	switch t := other.(type) {
	case nullVal:
		return tri.Unknown
	case Bool:
		return tri.FromBool(d == t)
	default:
		return tri.False
	}
}

func (d Bool) Size() int64    { return 1 }
func (d Bool) String() string { return strconv.FormatBool(bool(d)) }

// Canonical returns the form of v to use as a set key. Values that compare
// equal under EqualTV must canonicalize identically, so whole floats in the
// int64 range collapse to Int. Everything else is already canonical.
func Canonical(v Value) Value {
	if f, ok := v.(Float); ok {
		d := float64(f)
		if d == math.Trunc(d) && d >= -(1<<63) && d < (1<<63) {
			return Int(int64(d))
		}
	}
	return v
}

// Parse converts a literal into a Value. It accepts NULL, booleans, integer
// and float literals, and single-quoted strings. Used by tests and tooling.
func Parse(s string) (Value, error) {
	switch {
	case s == "NULL" || s == "null":
		return Null, nil
	case s == "true":
		return Bool(true), nil
	case s == "false":
		return Bool(false), nil
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		return Str(s[1 : len(s)-1]), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if strings.ContainsAny(s, ".eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
	}
	return nil, errors.Newf("could not parse %q as a value", s)
}
