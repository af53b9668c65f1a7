// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math"
	"strings"

	"github.com/civicpulse/ledger/models"
)

// SentimentEntry is one vote as the sentiment heuristic sees it: the
// chosen option's label and the numeric rating, if any.
type SentimentEntry struct {
	Label  string
	Rating *int
}

// Keyword lexicons for the sentiment heuristic. Deliberately simple and
// reproducible; a classifier could replace Score without changing its
// contract (vote set in, scalar plus counts out).
var affirmativeLexicon = wordSet(
	"yes", "support", "agree", "approve", "accept", "favor",
	"good", "great", "excellent", "love", "like", "happy",
	"beneficial", "helpful",
)

var negativeLexicon = wordSet(
	"no", "oppose", "disagree", "reject", "against",
	"bad", "terrible", "awful", "dislike", "angry",
	"harmful", "useless", "worried",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Score computes the heuristic sentiment of a vote population. A vote is
// positive when its label matches the affirmative lexicon or its rating
// is >= 7, negative on a negative-lexicon match or rating <= 3, neutral
// otherwise. Label matches win over ratings. The scalar is
// round((positive-negative)/total*100), in [-100, 100]; an empty
// population scores 0.
func Score(entries []SentimentEntry) models.SentimentResult {
	var out models.SentimentResult
	for _, e := range entries {
		out.Total++
		switch {
		case matchesLexicon(e.Label, affirmativeLexicon):
			out.Positive++
		case matchesLexicon(e.Label, negativeLexicon):
			out.Negative++
		case e.Rating != nil && *e.Rating >= 7:
			out.Positive++
		case e.Rating != nil && *e.Rating <= 3:
			out.Negative++
		default:
			out.Neutral++
		}
	}
	if out.Total > 0 {
		out.Score = int(math.Round(float64(out.Positive-out.Negative) / float64(out.Total) * 100))
	}
	return out
}

// matchesLexicon reports whether any word of the label, lowercased and
// stripped of punctuation, is in the lexicon.
func matchesLexicon(label string, lexicon map[string]struct{}) bool {
	for _, word := range strings.Fields(strings.ToLower(label)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !('a' <= r && r <= 'z')
		})
		if _, ok := lexicon[word]; ok {
			return true
		}
	}
	return false
}
