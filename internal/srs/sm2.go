// Package srs implements the SM-2 spaced repetition algorithm and the
// due-set selection used to schedule question reviews.
package srs

import (
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Quality grades on the SM-2 scale (0-5).
const (
	QualityBlackout  = 0 // complete blackout
	QualityWrong     = 1 // incorrect, recalled on seeing the answer
	QualityWrongEasy = 2 // incorrect, but the answer seemed easy in hindsight
	QualityHard      = 3 // correct with serious difficulty
	QualityHesitant  = 4 // correct after hesitation
	QualityPerfect   = 5 // perfect recall
)

// Review is the scheduling state computed for a single answer submission.
// It is a value; the caller is responsible for persisting it.
type Review struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewAt   time.Time
	LastReviewedAt time.Time
}

// CorrectnessToQuality maps the evaluator's binary result onto the SM-2
// quality scale. The hesitant flag is accepted for a future richer signal
// but no caller currently sets it.
func CorrectnessToQuality(correct, hesitant bool) int {
	if !correct {
		return QualityWrongEasy
	}
	if hesitant {
		return QualityHesitant
	}
	return QualityPerfect
}

// ComputeNextReview applies SM-2 to the prior state of a (user, question)
// pair and returns the updated state. quality must be in [0, 5]; prior
// values must come from a previously computed Review or the default state
// (EF 2.5, interval 0, repetitions 0). Inputs are not validated.
func ComputeNextReview(quality int, priorEaseFactor float64, priorIntervalDays, priorRepetitions int, now time.Time) Review {
	q := float64(quality)
	ef := priorEaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}

	var repetitions, intervalDays int
	if quality < QualityHard {
		// Lapse: the streak resets and the item comes back tomorrow.
		repetitions = 0
		intervalDays = 1
	} else {
		repetitions = priorRepetitions + 1
		switch repetitions {
		case 1:
			intervalDays = 1
		case 2:
			intervalDays = 6
		default:
			// The prior interval grows by the updated ease factor,
			// rounded half away from zero.
			intervalDays = int(math.Round(float64(priorIntervalDays) * ef))
		}
	}

	return Review{
		EaseFactor:     ef,
		IntervalDays:   intervalDays,
		Repetitions:    repetitions,
		NextReviewAt:   now.AddDate(0, 0, intervalDays),
		LastReviewedAt: now,
	}
}
