package srs

import (
	"math"
	"time"
)

// MasteredIntervalDays is the minimum interval for a record to count as
// mastered once its streak reaches MasteredRepetitions.
const (
	MasteredRepetitions  = 3
	MasteredIntervalDays = 21
	masteryCeilingDays   = 180
	masteryCeilingEase   = 3.0
)

// Bucket is the coarse progress classification shown on the progress tabs.
// It never feeds back into scheduling.
type Bucket string

const (
	BucketNew      Bucket = "new"
	BucketLearning Bucket = "learning"
	BucketMastered Bucket = "mastered"

	// BucketReviewing covers records with a full streak whose interval has
	// not yet grown past the mastered threshold. It is excluded from the
	// three main tabs on purpose.
	BucketReviewing Bucket = "reviewing"
)

// IsDue reports whether a record scheduled for nextReviewAt is eligible
// for review. A record is due the instant its scheduled time arrives.
func IsDue(nextReviewAt, now time.Time) bool {
	return !now.Before(nextReviewAt)
}

// Classify maps a record's streak and interval onto a progress bucket.
func Classify(repetitions, intervalDays int) Bucket {
	switch {
	case repetitions == 0:
		return BucketNew
	case repetitions < MasteredRepetitions:
		return BucketLearning
	case intervalDays >= MasteredIntervalDays:
		return BucketMastered
	default:
		return BucketReviewing
	}
}

// MasteryPercent scores a record's progress on a continuous 0-100 scale.
// It is a derived display metric, separate from the bucket partition.
func MasteryPercent(repetitions, intervalDays int, easeFactor float64) int {
	switch {
	case repetitions == 0:
		return 0
	case repetitions == 1:
		return 25
	case repetitions == 2:
		return 50
	}

	if intervalDays < MasteredIntervalDays {
		progress := math.Min(float64(intervalDays)/float64(MasteredIntervalDays), 1)
		return int(math.Round(50 + progress*19))
	}

	intervalPart := math.Min(float64(intervalDays)/masteryCeilingDays, 1) * 20
	easePart := math.Min((easeFactor-MinEaseFactor)/(masteryCeilingEase-MinEaseFactor), 1) * 10
	percent := int(math.Round(70 + intervalPart + easePart))
	if percent > 100 {
		percent = 100
	}
	return percent
}
