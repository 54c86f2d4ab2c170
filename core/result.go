// SPDX-License-Identifier: MIT

package core

import "fmt"

// ScoreType selects how a raw log-likelihood becomes a comparable score.
type ScoreType int

const (
	// LogLikelihood uses the log-likelihood as-is.
	LogLikelihood ScoreType = iota
	// BIC subtracts dimension * ln(N) / 2.
	BIC
	// AIC subtracts dimension.
	AIC
)

// String implements fmt.Stringer.
func (s ScoreType) String() string {
	switch s {
	case LogLikelihood:
		return "loglikelihood"
	case BIC:
		return "bic"
	case AIC:
		return "aic"
	default:
		return fmt.Sprintf("ScoreType(%d)", int(s))
	}
}

// ParseScoreType maps "loglikelihood", "bic" or "aic" onto a ScoreType.
// Errors: ErrUnknownScoreType.
func ParseScoreType(s string) (ScoreType, error) {
	switch s {
	case "loglikelihood", "ll":
		return LogLikelihood, nil
	case "bic":
		return BIC, nil
	case "aic":
		return AIC, nil
	default:
		return 0, fmt.Errorf("core: ParseScoreType(%q): %w", s, ErrUnknownScoreType)
	}
}

// Valid reports whether s is one of the three known score types.
func (s ScoreType) Valid() bool { return s >= LogLikelihood && s <= AIC }

// LearningResult is the immutable outcome of one learning step: a model, its score and the
// score type the score was computed under. Scores of different types are never comparable.
type LearningResult struct {
	model     *Network
	score     float64
	scoreType ScoreType
}

// NewLearningResult bundles a model with its score.
func NewLearningResult(model *Network, score float64, t ScoreType) LearningResult {
	return LearningResult{model: model, score: score, scoreType: t}
}

// Model returns the learned network. Callers must Clone it before editing.
func (r LearningResult) Model() *Network { return r.model }

// Score returns the score value.
func (r LearningResult) Score() float64 { return r.score }

// ScoreType returns the type the score was computed under.
func (r LearningResult) ScoreType() ScoreType { return r.scoreType }

// Better reports whether r strictly beats other. Results of different score types are
// never better than each other.
func (r LearningResult) Better(other LearningResult) bool {
	return r.scoreType == other.scoreType && r.score > other.score
}
