package expense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Coffee", Amount: 3.50, Date: day("2026-08-01")})
	s.Add(Expense{ID: "2", Description: "Lunch", Amount: 12.00, Date: day("2026-08-02")})

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "Coffee", all[0].Description)
	require.Equal(t, "Lunch", all[1].Description)
}

func TestUpdatePatchesFieldsInPlace(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Book", Amount: 14.99, Date: day("2026-08-01")})

	amount := 19.99
	s.Update("1", Patch{Amount: &amount})

	e, ok := s.Get("1")
	require.True(t, ok)
	require.Equal(t, "1", e.ID)
	require.Equal(t, "Book", e.Description)
	require.Equal(t, 19.99, e.Amount)

	s.Delete("1")
	require.Zero(t, s.Len())
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Coffee", Amount: 3.50})
	ch := s.Subscribe()

	desc := "Tea"
	s.Update("nope", Patch{Description: &desc})

	require.Equal(t, []Expense{{ID: "1", Description: "Coffee", Amount: 3.50}}, s.All())
	select {
	case <-ch:
		t.Fatal("no-op update must not signal subscribers")
	default:
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Coffee"})
	s.Delete("nope")
	require.Equal(t, 1, s.Len())
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Coffee"})
	s.Add(Expense{ID: "2", Description: "Lunch"})
	s.Add(Expense{ID: "3", Description: "Bus"})

	s.Delete("2")

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "1", all[0].ID)
	require.Equal(t, "3", all[1].ID)
}

func TestSetAllReplacesCollection(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "old", Description: "stale"})

	s.SetAll([]Expense{
		{ID: "a", Description: "Rent"},
		{ID: "b", Description: "Groceries"},
	})
	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].ID)

	s.SetAll(nil)
	require.Zero(t, s.Len())
}

func TestAllReturnsACopy(t *testing.T) {
	s := NewStore()
	s.Add(Expense{ID: "1", Description: "Coffee"})

	got := s.All()
	got[0].Description = "tampered"

	e, _ := s.Get("1")
	require.Equal(t, "Coffee", e.Description)
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()

	s.Add(Expense{ID: "1"})
	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after Add")
	}

	amount := 5.0
	s.Update("1", Patch{Amount: &amount})
	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after Update")
	}
}

func TestSlowSubscriberNeverBlocksMutators(t *testing.T) {
	s := NewStore()
	_ = s.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Add(Expense{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutators blocked on an undrained subscriber")
	}
}
