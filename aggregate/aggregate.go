// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/civicpulse/ledger/models"
)

// Filter narrows an aggregation to votes carrying matching demographic
// tags. Empty fields match everything. The filter is a closed structure
// on purpose: the set of dimensions is part of the engine's contract.
type Filter struct {
	Region     string
	AgeBracket string
	Gender     string
}

func (f Filter) isZero() bool {
	return f.Region == "" && f.AgeBracket == "" && f.Gender == ""
}

// clauses returns SQL conditions for the filter against vote alias v,
// with placeholders continuing from the given argument offset.
func (f Filter) clauses(offset int) (string, []any) {
	var cond string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		cond += fmt.Sprintf(" AND v.%s = $%d", column, offset+len(args))
	}
	add("region", f.Region)
	add("age_bracket", f.AgeBracket)
	add("gender", f.Gender)
	return cond, args
}

// Engine computes read models over the vote population. Strictly
// read-only: given a valid poll id it always returns a result, never a
// lifecycle error.
type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// Tally returns per-option counts and percentages for a poll. Options
// with no matching votes appear with zero counts; an empty population
// yields 0% for every option.
func (e *Engine) Tally(ctx context.Context, pollID string, f Filter) (models.TallyResult, error) {
	// Filter placeholders come first so that placeholder numbering
	// follows textual order, which SQLite requires for $N parameters.
	cond, args := f.clauses(0)
	query := fmt.Sprintf(`
		SELECT o.id, o.label, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN vote v ON v.option_id = o.id%s
		WHERE o.poll_id = $%d
		GROUP BY o.id, o.label, o.position
		ORDER BY o.position
	`, cond, len(args)+1)

	rows, err := e.db.QueryContext(ctx, query, append(args, pollID)...)
	if err != nil {
		return models.TallyResult{}, fmt.Errorf("failed to tally poll %s: %w", pollID, err)
	}
	defer rows.Close()

	result := models.TallyResult{PollID: pollID, Options: []models.OptionTally{}}
	for rows.Next() {
		var t models.OptionTally
		if err := rows.Scan(&t.OptionID, &t.Label, &t.Votes); err != nil {
			return models.TallyResult{}, err
		}
		result.Total += t.Votes
		result.Options = append(result.Options, t)
	}
	if err := rows.Err(); err != nil {
		return models.TallyResult{}, err
	}

	for i := range result.Options {
		result.Options[i].Percent = percent(result.Options[i].Votes, result.Total)
	}
	return result, nil
}

// Breakdown maps each value of a demographic dimension to per-option
// vote counts. Votes without a value for the dimension land in the
// "unspecified" bucket.
func (e *Engine) Breakdown(ctx context.Context, pollID, dimension string, f Filter) (models.Breakdown, error) {
	var column string
	switch dimension {
	case models.DimensionRegion:
		column = "region"
	case models.DimensionAgeBracket:
		column = "age_bracket"
	case models.DimensionGender:
		column = "gender"
	default:
		return models.Breakdown{}, fmt.Errorf("%w: unknown dimension %q", models.ErrInvalidRequest, dimension)
	}

	cond, args := f.clauses(1)
	query := `
		SELECT COALESCE(v.` + column + `, 'unspecified'), v.option_id, COUNT(*)
		FROM vote v
		WHERE v.poll_id = $1` + cond + `
		GROUP BY COALESCE(v.` + column + `, 'unspecified'), v.option_id
	`

	rows, err := e.db.QueryContext(ctx, query, append([]any{pollID}, args...)...)
	if err != nil {
		return models.Breakdown{}, fmt.Errorf("failed to break down poll %s: %w", pollID, err)
	}
	defer rows.Close()

	b := models.Breakdown{
		PollID:    pollID,
		Dimension: dimension,
		Values:    make(map[string]map[string]int),
	}
	for rows.Next() {
		var value, optionID string
		var count int
		if err := rows.Scan(&value, &optionID, &count); err != nil {
			return models.Breakdown{}, err
		}
		if b.Values[value] == nil {
			b.Values[value] = make(map[string]int)
		}
		b.Values[value][optionID] = count
	}
	return b, rows.Err()
}

// Sentiment loads the (option label, rating) pairs of a poll's vote
// population and scores them with the lexicon heuristic.
func (e *Engine) Sentiment(ctx context.Context, pollID string, f Filter) (models.SentimentResult, error) {
	cond, args := f.clauses(1)
	query := `
		SELECT o.label, v.rating
		FROM vote v
		JOIN poll_option o ON o.id = v.option_id
		WHERE v.poll_id = $1` + cond + `
	`

	rows, err := e.db.QueryContext(ctx, query, append([]any{pollID}, args...)...)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("failed to load votes for poll %s: %w", pollID, err)
	}
	defer rows.Close()

	var entries []SentimentEntry
	for rows.Next() {
		var entry SentimentEntry
		if err := rows.Scan(&entry.Label, &entry.Rating); err != nil {
			return models.SentimentResult{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return models.SentimentResult{}, err
	}

	return Score(entries), nil
}

// percent is round(n/total*100, 2), with a zero total yielding 0.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*100*100) / 100
}
