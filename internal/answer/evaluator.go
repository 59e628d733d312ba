// Package answer grades learner submissions against question content.
// It produces the single correctness signal consumed by the scheduler.
package answer

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/sgellert/vinoquiz/internal/question"
)

// DefaultFuzzyThreshold is the minimum name similarity accepted for
// map-to-text answers.
const DefaultFuzzyThreshold = 0.8

// Submission is a learner's answer to one question. Only the fields
// matching the question's type are read.
type Submission struct {
	SelectedIndex   int     `json:"selected_index"`
	SelectedIndices []int   `json:"selected_indices"`
	Text            string  `json:"text"`
	Longitude       float64 `json:"longitude"`
	Latitude        float64 `json:"latitude"`
}

// Evaluator grades submissions.
type Evaluator struct {
	fuzzyThreshold float64
}

// NewEvaluator creates an Evaluator. A non-positive threshold falls back
// to DefaultFuzzyThreshold.
func NewEvaluator(fuzzyThreshold float64) *Evaluator {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Evaluator{fuzzyThreshold: fuzzyThreshold}
}

// Evaluate reports whether the submission answers the question correctly.
func (e *Evaluator) Evaluate(q question.Question, sub Submission) (bool, error) {
	switch q.Type {
	case question.TypeSingleChoice:
		return sub.SelectedIndex == q.Payload.CorrectIndex, nil
	case question.TypeMultiSelect:
		return sameIndexSet(sub.SelectedIndices, q.Payload.CorrectIndices), nil
	case question.TypeFreeText:
		return normalizeText(sub.Text) == normalizeText(q.Payload.AnswerText), nil
	case question.TypeMapClick:
		return regionContains(q.Payload.Region, sub.Longitude, sub.Latitude), nil
	case question.TypeMapToText:
		return e.matchesRegionName(sub.Text, q.Payload.AcceptedNames), nil
	default:
		return false, fmt.Errorf("cannot evaluate question %d: unknown type %q", q.ID, q.Type)
	}
}

// sameIndexSet compares selections as sets: order and duplicates are
// irrelevant.
func sameIndexSet(selected, correct []int) bool {
	if len(correct) == 0 {
		return false
	}

	want := make(map[int]bool, len(correct))
	for _, idx := range correct {
		want[idx] = true
	}

	seen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		if !want[idx] {
			return false
		}
		seen[idx] = true
	}
	return len(seen) == len(want)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func regionContains(region [][2]float64, longitude, latitude float64) bool {
	if len(region) < 3 {
		return false
	}

	ring := make(orb.Ring, 0, len(region)+1)
	for _, pt := range region {
		ring = append(ring, orb.Point{pt[0], pt[1]})
	}
	// planar containment expects a closed ring.
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	return planar.PolygonContains(orb.Polygon{ring}, orb.Point{longitude, latitude})
}

func (e *Evaluator) matchesRegionName(text string, acceptedNames []string) bool {
	normalized := normalizeText(text)
	if normalized == "" {
		return false
	}

	for _, name := range acceptedNames {
		if levenshtein.Similarity(normalized, normalizeText(name), nil) >= e.fuzzyThreshold {
			return true
		}
	}
	return false
}
