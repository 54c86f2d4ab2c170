// SPDX-License-Identifier: MIT

package execution

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
)

// LearnFunc learns a model from a dataset.
type LearnFunc func(ctx context.Context, d *dataset.Dataset) (core.LearningResult, error)

// Result is the outcome of one timed learning call.
type Result struct {
	learned core.LearningResult
	id      uuid.UUID
	index   int
	start   time.Time
	finish  time.Time
}

// LearningResult returns the wrapped result.
func (r Result) LearningResult() core.LearningResult { return r.learned }

// Model returns the learned model.
func (r Result) Model() *core.Network { return r.learned.Model() }

// Score returns the model score.
func (r Result) Score() float64 { return r.learned.Score() }

// ScoreType returns the score type.
func (r Result) ScoreType() core.ScoreType { return r.learned.ScoreType() }

// ID returns the process-unique identifier of the run.
func (r Result) ID() uuid.UUID { return r.id }

// Index returns the caller-supplied sequence index.
func (r Result) Index() int { return r.index }

// Start returns the wall-clock time the call began.
func (r Result) Start() time.Time { return r.start }

// Finish returns the wall-clock time the call returned.
func (r Result) Finish() time.Time { return r.finish }

// Elapsed returns Finish - Start.
func (r Result) Elapsed() time.Duration { return r.finish.Sub(r.start) }

// Equal reports whether every field of r and o matches. Models compare by identity.
func (r Result) Equal(o Result) bool {
	return r.learned.Model() == o.learned.Model() &&
		r.learned.Score() == o.learned.Score() &&
		r.learned.ScoreType() == o.learned.ScoreType() &&
		r.id == o.id &&
		r.index == o.index &&
		r.start.Equal(o.start) &&
		r.finish.Equal(o.finish)
}

// Key returns a hash over every field except the model, consistent with Equal for results
// of the same model.
func (r Result) Key() uint64 {
	var buf [8]byte
	h := xxhash.New()
	_, _ = h.Write(r.id[:])
	for _, v := range []uint64{
		math.Float64bits(r.learned.Score()),
		uint64(r.learned.ScoreType()),
		uint64(int64(r.index)),
		uint64(r.start.UnixNano()),
		uint64(r.finish.UnixNano()),
	} {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Wrapper times learning calls. It is safe for concurrent use when its clock and ID
// source are.
type Wrapper struct {
	now    func() time.Time
	newID  func() uuid.UUID
	logger *slog.Logger
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(w *Wrapper) { w.now = now } }

// WithIDs replaces uuid.New.
func WithIDs(newID func() uuid.UUID) Option { return func(w *Wrapper) { w.newID = newID } }

// WithLogger sets the logger; each finished call is logged at Debug.
func WithLogger(l *slog.Logger) Option { return func(w *Wrapper) { w.logger = l } }

// NewWrapper returns a Wrapper using time.Now and random UUIDs.
func NewWrapper(opts ...Option) *Wrapper {
	w := &Wrapper{now: time.Now, newID: uuid.New}
	for _, fn := range opts {
		fn(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	return w
}

// Run calls fn(ctx, d) and tags its result with index. An error from fn is returned as
// is, with a zero Result.
func (w *Wrapper) Run(ctx context.Context, index int, d *dataset.Dataset, fn LearnFunc) (Result, error) {
	start := w.now()
	learned, err := fn(ctx, d)
	finish := w.now()
	if err != nil {
		return Result{}, err
	}
	r := Result{
		learned: learned,
		id:      w.newID(),
		index:   index,
		start:   start,
		finish:  finish,
	}
	w.logger.Debug("learning call finished",
		slog.String("id", r.id.String()),
		slog.Int("index", index),
		slog.Duration("elapsed", r.Elapsed()),
		slog.Float64("score", learned.Score()))
	return r, nil
}
