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

package mon

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestBoundAccount(t *testing.T) {
	ctx := context.Background()
	m := NewMonitor("test", 1000)
	acc := m.MakeBoundAccount()

	require.NoError(t, acc.Grow(ctx, 400))
	require.NoError(t, acc.Grow(ctx, 400))
	require.Equal(t, int64(800), acc.Used())
	require.Equal(t, int64(800), m.AllocBytes())

	acc.Shrink(ctx, 300)
	require.Equal(t, int64(500), acc.Used())
	require.Equal(t, int64(500), m.AllocBytes())

	acc.Clear(ctx)
	require.Zero(t, acc.Used())
	require.Zero(t, m.AllocBytes())

	// Close after Clear is a no-op.
	acc.Close(ctx)
	m.Stop(ctx)
}

func TestBudgetExceeded(t *testing.T) {
	ctx := context.Background()
	m := NewMonitor("test", 100)
	acc := m.MakeBoundAccount()

	require.NoError(t, acc.Grow(ctx, 60))
	err := acc.Grow(ctx, 60)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBudgetExceeded)
	// The sentinel must be visible to the stdlib unwrap chain, not only to
	// cockroachdb/errors.
	require.True(t, goerrors.Is(err, ErrBudgetExceeded))
	require.True(t, errors.Is(err, ErrBudgetExceeded))
	require.Regexp(t, "memory budget exceeded", err)

	// A failed Grow leaves the account unchanged.
	require.Equal(t, int64(60), acc.Used())
	acc.Close(ctx)
	m.Stop(ctx)
}

func TestStandaloneAccount(t *testing.T) {
	ctx := context.Background()
	var acc BoundAccount
	require.NoError(t, acc.Grow(ctx, 1<<40))
	require.Equal(t, int64(1<<40), acc.Used())
	require.Nil(t, acc.Monitor())
	acc.Close(ctx)
	require.Zero(t, acc.Used())
}

func TestMonitorLeakPanics(t *testing.T) {
	ctx := context.Background()
	m := NewMonitor("test", 1000)
	acc := m.MakeBoundAccount()
	require.NoError(t, acc.Grow(ctx, 10))
	require.Panics(t, func() { m.Stop(ctx) })
	acc.Close(ctx)
	m.Stop(ctx)
}

func TestShrinkBelowZeroPanics(t *testing.T) {
	ctx := context.Background()
	m := NewMonitor("test", 1000)
	acc := m.MakeBoundAccount()
	require.NoError(t, acc.Grow(ctx, 10))
	require.Panics(t, func() { acc.Shrink(ctx, 20) })
	acc.Close(ctx)
	m.Stop(ctx)
}

func TestAssertionOnLeak(t *testing.T) {
	ctx := context.Background()
	m := NewMonitor("test", 1000)
	acc := m.MakeBoundAccount()
	require.NoError(t, acc.Grow(ctx, 10))
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.HasAssertionFailure(err))
		acc.Close(ctx)
	}()
	m.Stop(ctx)
}
