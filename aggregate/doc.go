// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate computes read models over the vote population.

# Engine

Engine is strictly read-only and holds only a database handle:

	agg := aggregate.NewEngine(db)
	tally, err := agg.Tally(ctx, pollID, aggregate.Filter{})

Given a valid poll id it always returns a result, even for a poll with
zero votes; it never returns lifecycle errors.

# Tally

Per-option counts and percentages. Options with no votes appear with
zero counts; percentages are rounded to two decimals and an empty
population yields 0% for every option.

# Breakdown

Cross-tabulation of one demographic dimension (region, age_bracket,
gender) against options. Votes without a value for the dimension land
in the "unspecified" bucket. Unknown dimensions are rejected with
ErrInvalidRequest, never guessed at.

# Sentiment

A reproducible keyword heuristic over option labels and ratings: a
vote is positive on an affirmative-lexicon match or a rating >= 7,
negative on a negative-lexicon match or a rating <= 3, neutral
otherwise. Label matches win over ratings. The scalar is
round((positive-negative)/total*100), in [-100, 100].

Score is a pure function over the loaded vote set; a real classifier
could replace it without changing the contract.

# Filters

Every aggregation accepts a Filter narrowing the population by exact
demographic match. Empty fields match everything.
*/
package aggregate
