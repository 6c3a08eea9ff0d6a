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

// Package tri implements the three-valued logic required by SQL NULL
// semantics. A comparison involving NULL yields neither true nor false but
// Unknown, and Unknown must be kept distinct from false so that predicate
// evaluation can let a later definite answer override it.
package tri

// Bool is a three-valued boolean. The zero value is Unknown.
type Bool int8

const (
	// Unknown is the result of a comparison poisoned by NULL.
	Unknown Bool = iota
	// False is a definite non-match.
	False
	// True is a definite match.
	True
)

// FromBool converts a regular boolean into a definite tri.Bool.
func FromBool(b bool) Bool {
	if b {
		return True
	}
	return False
}

func (b Bool) String() string {
	switch b {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unknown"
	}
}

// SafeValue implements the redact.SafeValue interface.
func (b Bool) SafeValue() {}
