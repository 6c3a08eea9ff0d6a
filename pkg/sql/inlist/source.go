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

package inlist

import "github.com/cockroachdb/inlist/pkg/sql/sem/value"

// ValueSource is a single-pass producer of list elements. Pulling an element
// is destructive: once consumed it can only be re-observed through the
// checker's cache. There is no restart and no peeking.
type ValueSource interface {
	// Next returns the next element, or ok=false once the source is
	// exhausted. Next must not be called again after it returns ok=false.
	Next() (_ value.Value, ok bool)
}

type sliceSource struct {
	vals []value.Value
}

// NewSliceSource returns a ValueSource over the given elements.
func NewSliceSource(vals []value.Value) ValueSource {
	return &sliceSource{vals: vals}
}

func (s *sliceSource) Next() (value.Value, bool) {
	if len(s.vals) == 0 {
		return nil, false
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v, true
}
