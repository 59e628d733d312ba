package review

import (
	"math/rand"
	"sort"
	"time"
)

// Due returns the records eligible for review at now, ordered by ascending
// next-review time (most overdue first). Ties order by question ID so the
// result is deterministic.
func Due(records []Record, now time.Time) []Record {
	var due []Record
	for _, r := range records {
		if r.IsDue(now) {
			due = append(due, r)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].QuestionID < due[j].QuestionID
	})

	return due
}

// Shuffle randomizes the presentation order of an already-selected due
// set. The randomness source is injected so callers can pin it in tests.
func Shuffle(records []Record, rng *rand.Rand) {
	rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}
