// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package milestone

import (
	"sort"

	"github.com/civicpulse/ledger/models"
)

// Result holds the thresholds crossed by a count change, in ascending
// threshold order.
type Result struct {
	Crossed []models.Milestone
}

// Highest returns the largest crossed threshold, if any.
func (r Result) Highest() (models.Milestone, bool) {
	if len(r.Crossed) == 0 {
		return models.Milestone{}, false
	}
	return r.Crossed[len(r.Crossed)-1], true
}

// Evaluate reports which milestone thresholds were crossed when a
// petition's signature count moved from prev to new. A threshold t is
// crossed when prev < t <= new. Pure: no I/O, no side effects, and the
// input slice is never mutated.
func Evaluate(prev, newCount int, thresholds []models.Milestone) Result {
	sorted := make([]models.Milestone, len(thresholds))
	copy(sorted, thresholds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	var crossed []models.Milestone
	for _, m := range sorted {
		if prev < m.Threshold && m.Threshold <= newCount {
			crossed = append(crossed, m)
		}
	}
	return Result{Crossed: crossed}
}

// GoalReached reports whether the signature goal was crossed by the move
// from prev to new. A goal of zero or less never triggers.
func GoalReached(prev, newCount, goal int) bool {
	return goal > 0 && prev < goal && newCount >= goal
}
