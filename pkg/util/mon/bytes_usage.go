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

// Package mon provides byte-level accounting of memory usage against a fixed
// budget. A BytesMonitor owns the budget; BoundAccounts draw from it and must
// be closed to give the bytes back. Growth past the budget fails fast with an
// error marked ErrBudgetExceeded rather than letting the process run out of
// memory.
package mon

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/inlist/pkg/util/humanizeutil"
	"github.com/cockroachdb/redact"
)

// ErrBudgetExceeded is the sentinel wrapped by errors returned when an
// allocation would push a monitor past its budget. Test with errors.Is.
var ErrBudgetExceeded = errors.New("memory budget exceeded")

// BytesMonitor tracks the cumulative bytes allocated by its accounts against
// a fixed budget. Monitors and their accounts are used from a single logical
// evaluation stream; there is no internal locking.
type BytesMonitor struct {
	name      redact.SafeString
	limit     int64
	allocated int64
}

// NewMonitor creates a monitor with the given budget in bytes.
func NewMonitor(name redact.SafeString, limit int64) *BytesMonitor {
	return &BytesMonitor{name: name, limit: limit}
}

// NewUnlimitedMonitor creates a monitor with no effective budget.
func NewUnlimitedMonitor(name redact.SafeString) *BytesMonitor {
	return NewMonitor(name, math.MaxInt64)
}

// Name returns the monitor's name.
func (m *BytesMonitor) Name() redact.SafeString { return m.name }

// AllocBytes returns the bytes currently allocated from this monitor.
func (m *BytesMonitor) AllocBytes() int64 { return m.allocated }

// Stop shuts the monitor down. All accounts must have been closed; leftover
// bytes indicate an accounting leak and are treated as a programming error.
func (m *BytesMonitor) Stop(ctx context.Context) {
	if m.allocated != 0 {
		panic(errors.AssertionFailedf(
			"%s monitor stopping with %s leftover bytes",
			m.name, humanizeutil.IBytes(m.allocated)))
	}
}

func (m *BytesMonitor) reserve(n int64) error {
	if m.allocated > m.limit-n {
		return errors.Wrapf(ErrBudgetExceeded,
			"%s: %s requested, %s already allocated, budget %s",
			m.name, humanizeutil.IBytes(n), humanizeutil.IBytes(m.allocated),
			humanizeutil.IBytes(m.limit))
	}
	m.allocated += n
	return nil
}

func (m *BytesMonitor) release(n int64) {
	if n > m.allocated {
		panic(errors.AssertionFailedf(
			"%s monitor releasing %d bytes with only %d allocated",
			m.name, n, m.allocated))
	}
	m.allocated -= n
}

// BoundAccount tracks the bytes a single owner has drawn from a monitor.
// The zero value is a standalone account not connected to any monitor; it
// accepts all growth, which is useful in tests and benchmarks.
type BoundAccount struct {
	used int64
	mon  *BytesMonitor
}

// MakeBoundAccount creates an account that draws from the monitor.
func (m *BytesMonitor) MakeBoundAccount() BoundAccount {
	return BoundAccount{mon: m}
}

// Used returns the bytes currently held by the account.
func (b *BoundAccount) Used() int64 { return b.used }

// Monitor returns the account's monitor, or nil for a standalone account.
func (b *BoundAccount) Monitor() *BytesMonitor { return b.mon }

// Grow reserves x additional bytes. On failure the account is unchanged.
func (b *BoundAccount) Grow(ctx context.Context, x int64) error {
	if b.mon != nil {
		if err := b.mon.reserve(x); err != nil {
			return err
		}
	}
	b.used += x
	return nil
}

// Shrink releases x of the account's bytes back to the monitor.
func (b *BoundAccount) Shrink(ctx context.Context, x int64) {
	if x > b.used {
		panic(errors.AssertionFailedf(
			"shrinking %d bytes from an account holding only %d", x, b.used))
	}
	if b.mon != nil {
		b.mon.release(x)
	}
	b.used -= x
}

// Clear releases all of the account's bytes. The account remains usable.
func (b *BoundAccount) Clear(ctx context.Context) {
	b.Shrink(ctx, b.used)
}

// Close releases all of the account's bytes.
func (b *BoundAccount) Close(ctx context.Context) {
	b.Clear(ctx)
}
