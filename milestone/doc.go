// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package milestone evaluates signature-count threshold crossings.

# Evaluation

Evaluate reports which thresholds a count change crossed:

	result := milestone.Evaluate(prev, newCount, thresholds)
	if m, ok := result.Highest(); ok {
		// m.Threshold was just crossed
	}

A threshold t is crossed when prev < t <= newCount. A burst that jumps
several thresholds at once reports all of them, in ascending order.

GoalReached applies the same rule to the signature goal:

	if milestone.GoalReached(prev, newCount, goal) { ... }

# Purity

The package does no I/O and never mutates its inputs. The ledger
service calls it after a committed signature insert and decorates the
SignatureAdded event with the result.
*/
package milestone
