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

// Package inlist implements the cached membership test behind IN-list
// predicates in row-at-a-time execution. The same list expression is probed
// once per input row; rescanning the list for every row would be quadratic,
// so a checker consumes the list at most once, caching the elements it has
// seen and answering later probes from the cache.
//
// A checker is a small state machine. Each Contains call returns the
// successor checker along with the result; callers must rebind their
// reference and never probe a superseded state again:
//
//	res, checker, err = checker.Contains(ctx, probe)
//
// Results follow SQL three-valued semantics: a NULL probe is always
// tri.Unknown, and a NULL anywhere in the list turns would-be-false answers
// into tri.Unknown.
package inlist

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/inlist/pkg/sql/sem/tri"
	"github.com/cockroachdb/inlist/pkg/sql/sem/value"
	"github.com/cockroachdb/inlist/pkg/util/mon"
)

// Checker answers "is this value a member of that list" for one IN-list
// evaluation site. One checker serves one evaluation site (not one row),
// strictly sequentially.
type Checker interface {
	// Contains evaluates the membership of probe and returns the checker to
	// use for the next probe. The receiver is superseded by the returned
	// checker; probing a superseded or closed checker is a programming
	// error. A non-nil error (memory budget exhaustion) aborts the
	// evaluation; the returned checker can still be closed.
	Contains(ctx context.Context, probe value.Value) (tri.Bool, Checker, error)

	// Close releases any accounted memory held by the checker. Idempotent.
	// The checker must not be probed after Close.
	Close(ctx context.Context)

	String() string
}

// setEntryOverhead approximates the per-entry cost of the cache set's map
// bucket on top of the value's own footprint.
const setEntryOverhead = 48

// buildingUp scans the source lazily while populating the cache set. It
// remains current until the source is exhausted or proven to contain only
// NULLs.
type buildingUp struct {
	src ValueSource
	// seen is keyed by value.Canonical forms so that lookups agree with
	// EqualTV across numeric types.
	seen map[value.Value]struct{}
	acc  *mon.BoundAccount
	// sawNull records that a NULL list element was observed; it turns every
	// non-match into tri.Unknown, for this call and all later ones.
	sawNull bool
	// spent is set once the checker has been superseded or closed.
	spent bool
}

// NewChecker returns a checker over the given source, starting in the
// building-up state. Cached elements are accounted against acc; the bytes
// are released by Close, or handed to the successor state on transition.
//
// An empty source is permitted: the first Contains call observes the
// exhaustion and collapses to the null-only terminal state, so every probe
// of an empty list yields tri.Unknown. Callers that know statically that a
// list can never match should construct AlwaysFalse instead.
func NewChecker(src ValueSource, acc *mon.BoundAccount) Checker {
	return &buildingUp{
		src:  src,
		seen: make(map[value.Value]struct{}),
		acc:  acc,
	}
}

func (c *buildingUp) Contains(
	ctx context.Context, probe value.Value,
) (tri.Bool, Checker, error) {
	if c.spent {
		return tri.Unknown, nil, errSpent()
	}
	if value.IsNull(probe) {
		return tri.Unknown, c, nil
	}
	if _, ok := c.seen[value.Canonical(probe)]; ok {
		return tri.True, c, nil
	}

	// Scan forward in list order. The first definite match short-circuits
	// the scan, leaving the remaining elements in the source for future
	// calls. NULL elements are never cached (their equality can't be
	// tested); they poison non-match results instead.
	found := false
	exhausted := false
	for !found {
		v, ok := c.src.Next()
		if !ok {
			exhausted = true
			break
		}
		if value.IsNull(v) {
			c.sawNull = true
			continue
		}
		k := value.Canonical(v)
		if _, dup := c.seen[k]; !dup {
			if err := c.acc.Grow(ctx, k.Size()+setEntryOverhead); err != nil {
				return tri.Unknown, c, err
			}
			c.seen[k] = struct{}{}
		}
		if v.EqualTV(probe) == tri.True {
			found = true
		}
	}

	var res tri.Bool
	switch {
	case found:
		res = tri.True
	case c.sawNull:
		res = tri.Unknown
	default:
		res = tri.False
	}

	if len(c.seen) == 0 {
		// Nothing cacheable was ever produced: the source was empty or held
		// only NULLs. No probe can ever get a definite answer.
		c.spent = true
		c.acc.Clear(ctx)
		return tri.Unknown, NullOnly(), nil
	}
	if !exhausted {
		return res, c, nil
	}

	// Full scan done; hand the cache set and the precomputed miss verdict
	// to the terminal state.
	c.spent = true
	miss := tri.False
	if c.sawNull {
		miss = tri.Unknown
	}
	next := &completed{seen: c.seen, miss: miss, acc: c.acc}
	c.seen = nil
	return res, next, nil
}

func (c *buildingUp) Close(ctx context.Context) {
	if c.spent {
		return
	}
	c.spent = true
	c.acc.Clear(ctx)
	c.seen = nil
}

func (c *buildingUp) String() string { return "building" }

// completed holds the finished cache set after the source has been fully
// consumed. miss is the verdict for probes not in the set: tri.False, or
// tri.Unknown if the list contained a NULL anywhere.
type completed struct {
	seen   map[value.Value]struct{}
	miss   tri.Bool
	acc    *mon.BoundAccount
	closed bool
}

func (c *completed) Contains(
	ctx context.Context, probe value.Value,
) (tri.Bool, Checker, error) {
	if c.closed {
		return tri.Unknown, nil, errSpent()
	}
	if value.IsNull(probe) {
		return tri.Unknown, c, nil
	}
	if _, ok := c.seen[value.Canonical(probe)]; ok {
		return tri.True, c, nil
	}
	return c.miss, c, nil
}

func (c *completed) Close(ctx context.Context) {
	if c.closed {
		return
	}
	c.closed = true
	c.acc.Clear(ctx)
	c.seen = nil
}

func (c *completed) String() string { return "completed" }

type alwaysFalse struct{}

// AlwaysFalse returns the terminal checker for lists statically known to
// contain nothing matchable, e.g. x IN (). Every probe, NULL included,
// yields tri.False.
func AlwaysFalse() Checker { return alwaysFalse{} }

func (alwaysFalse) Contains(
	ctx context.Context, probe value.Value,
) (tri.Bool, Checker, error) {
	return tri.False, alwaysFalse{}, nil
}

func (alwaysFalse) Close(ctx context.Context) {}
func (alwaysFalse) String() string            { return "always-false" }

type nullOnly struct{}

// NullOnly returns the terminal checker for lists that can never produce a
// definite answer: empty lists or lists holding only NULLs. Every probe
// yields tri.Unknown.
func NullOnly() Checker { return nullOnly{} }

func (nullOnly) Contains(
	ctx context.Context, probe value.Value,
) (tri.Bool, Checker, error) {
	return tri.Unknown, nullOnly{}, nil
}

func (nullOnly) Close(ctx context.Context) {}
func (nullOnly) String() string            { return "null-only" }

func errSpent() error {
	return errors.AssertionFailedf(
		"Contains called on a superseded or closed checker")
}
