package tui

import (
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"outlay/internal/expense"
)

// recentOnly keeps expenses dated within the trailing window of days,
// today inclusive. The cutoff is a calendar boundary, not a rolling
// 24h*days duration, matching how people read "last 7 days".
func recentOnly(list []expense.Expense, now time.Time, days int) []expense.Expense {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)
	var out []expense.Expense
	for _, e := range list {
		if e.Date.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// typo tolerance for per-word matches
const maxEditDistance = 2

// fuzzyFilter returns expenses whose description matches the query:
// substring matches rank first, then words within edit distance of the
// query. The relative order of equally ranked rows is preserved.
func fuzzyFilter(list []expense.Expense, query string) []expense.Expense {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	type ranked struct {
		e     expense.Expense
		score int
	}
	var matches []ranked
	for _, e := range list {
		score, ok := matchScore(strings.ToLower(e.Description), q)
		if ok {
			matches = append(matches, ranked{e: e, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score < matches[j].score })
	out := make([]expense.Expense, len(matches))
	for i, m := range matches {
		out[i] = m.e
	}
	return out
}

func matchScore(description, query string) (int, bool) {
	if strings.Contains(description, query) {
		return 0, true
	}
	best := maxEditDistance + 1
	for _, word := range strings.Fields(description) {
		if d := levenshtein.ComputeDistance(word, query); d < best {
			best = d
		}
	}
	if best > maxEditDistance {
		return 0, false
	}
	return best, true
}
