// SPDX-License-Identifier: MIT

package execution_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/katalvlaran/latentree/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by one second per call.
func fakeClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func fixed(res core.LearningResult, err error) execution.LearnFunc {
	return func(context.Context, *dataset.Dataset) (core.LearningResult, error) { return res, err }
}

func TestRun_TagsResult(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	w := execution.NewWrapper(execution.WithClock(fakeClock()), execution.WithIDs(func() uuid.UUID { return id }))
	net := core.NewNetwork()
	learned := core.NewLearningResult(net, -12.5, core.AIC)

	r, err := w.Run(context.Background(), 7, nil, fixed(learned, nil))
	require.NoError(t, err)
	assert.Equal(t, id, r.ID())
	assert.Equal(t, 7, r.Index())
	assert.Same(t, net, r.Model())
	assert.Equal(t, -12.5, r.Score())
	assert.Equal(t, core.AIC, r.ScoreType())
	assert.Equal(t, learned, r.LearningResult())
	assert.Equal(t, time.Second, r.Elapsed())
	assert.True(t, r.Finish().After(r.Start()))
}

func TestRun_PassesErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	w := execution.NewWrapper()
	r, err := w.Run(context.Background(), 0, nil, fixed(core.LearningResult{}, boom))
	assert.Same(t, boom, err)
	assert.Zero(t, r.Index())
}

func TestResult_EqualAndKey(t *testing.T) {
	id := uuid.New()
	learned := core.NewLearningResult(core.NewNetwork(), -1, core.BIC)
	run := func(index int) execution.Result {
		w := execution.NewWrapper(execution.WithClock(fakeClock()), execution.WithIDs(func() uuid.UUID { return id }))
		r, err := w.Run(context.Background(), index, nil, fixed(learned, nil))
		require.NoError(t, err)
		return r
	}

	a, b, c := run(1), run(1), run(2)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestRun_UniqueIDs(t *testing.T) {
	w := execution.NewWrapper()
	learned := core.NewLearningResult(core.NewNetwork(), 0, core.BIC)
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 100; i++ {
		r, err := w.Run(context.Background(), i, nil, fixed(learned, nil))
		require.NoError(t, err)
		assert.False(t, seen[r.ID()])
		seen[r.ID()] = true
	}
}
