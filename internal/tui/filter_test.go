package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outlay/internal/expense"
)

func TestRecentOnly(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	list := []expense.Expense{
		{ID: "today", Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
		{ID: "edge", Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{ID: "old", Date: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)},
		{ID: "ancient", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := recentOnly(list, now, 7)
	require.Len(t, got, 2)
	require.Equal(t, "today", got[0].ID)
	require.Equal(t, "edge", got[1].ID)
}

func TestRecentOnlyEmpty(t *testing.T) {
	require.Empty(t, recentOnly(nil, time.Now(), 7))
}

func TestFuzzyFilterEmptyQueryReturnsAll(t *testing.T) {
	list := []expense.Expense{{ID: "1"}, {ID: "2"}}
	require.Equal(t, list, fuzzyFilter(list, ""))
	require.Equal(t, list, fuzzyFilter(list, "   "))
}

func TestFuzzyFilterSubstring(t *testing.T) {
	list := []expense.Expense{
		{ID: "1", Description: "Morning coffee"},
		{ID: "2", Description: "Lunch"},
		{ID: "3", Description: "Coffee beans"},
	}
	got := fuzzyFilter(list, "coffee")
	require.Len(t, got, 2)
	require.Equal(t, "1", got[0].ID)
	require.Equal(t, "3", got[1].ID)
}

func TestFuzzyFilterToleratesTypos(t *testing.T) {
	list := []expense.Expense{
		{ID: "1", Description: "Morning coffee"},
		{ID: "2", Description: "Lunch"},
	}
	got := fuzzyFilter(list, "cofee")
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
}

func TestFuzzyFilterRanksSubstringFirst(t *testing.T) {
	list := []expense.Expense{
		{ID: "typo", Description: "cofee shop"},
		{ID: "exact", Description: "coffee shop"},
	}
	got := fuzzyFilter(list, "coffee")
	require.Len(t, got, 2)
	require.Equal(t, "exact", got[0].ID)
	require.Equal(t, "typo", got[1].ID)
}

func TestFuzzyFilterNoMatch(t *testing.T) {
	list := []expense.Expense{{ID: "1", Description: "Rent"}}
	require.Empty(t, fuzzyFilter(list, "groceries"))
}

func TestFuzzyFilterCaseInsensitive(t *testing.T) {
	list := []expense.Expense{{ID: "1", Description: "COFFEE"}}
	require.Len(t, fuzzyFilter(list, "coffee"), 1)
}
