package recurring

import (
	"testing"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/ptr"
)

func dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(time.DateOnly)
	}
	return out
}

func assertDates(t *testing.T, got []time.Time, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences %v, got %d: %v", len(want), want, len(got), dates(got))
	}
	for i, w := range want {
		if got[i].Format(time.DateOnly) != w {
			t.Errorf("occurrence %d: expected %s, got %s", i, w, got[i].Format(time.DateOnly))
		}
	}
}

func TestBetweenWeekly(t *testing.T) {
	rule := weeklySundays()

	t.Run("every sunday in january", func(t *testing.T) {
		got := Between(rule,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07", "2024-01-14", "2024-01-21", "2024-01-28")
	})

	t.Run("window before anchor is empty before it", func(t *testing.T) {
		got := Between(rule,
			time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07")
	})

	t.Run("inverted range yields nothing", func(t *testing.T) {
		got := Between(rule,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		if len(got) != 0 {
			t.Errorf("expected empty result, got %v", dates(got))
		}
	})

	t.Run("until caps results inside the window", func(t *testing.T) {
		capped := rule
		capped.Until = ptr.To(time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC))
		got := Between(capped,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07", "2024-01-14")
	})

	t.Run("count caps total occurrences from the anchor", func(t *testing.T) {
		capped := rule
		capped.Count = ptr.To(3)
		got := Between(capped,
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
		// Occurrences 1 and 2 (Jan 7, Jan 14) fall before the window and
		// still consume the budget; only the third remains.
		assertDates(t, got, "2024-01-21")
	})
}

func TestBetweenOrderingAndUniqueness(t *testing.T) {
	rule := domain.RecurrenceRule{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		ByWeekday: []time.Weekday{time.Sunday, time.Wednesday, time.Friday},
		StartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}

	got := Between(rule,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	seen := make(map[string]bool)
	for i, d := range got {
		key := d.Format(time.DateOnly)
		if seen[key] {
			t.Errorf("duplicate occurrence %s", key)
		}
		seen[key] = true
		if i > 0 && !got[i-1].Before(d) {
			t.Errorf("occurrences out of order at index %d: %s then %s",
				i, got[i-1].Format(time.DateOnly), key)
		}
	}
}

func TestNext(t *testing.T) {
	rule := weeklySundays()

	t.Run("next three sundays from a wednesday", func(t *testing.T) {
		got := Next(rule, 3, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-14", "2024-01-21", "2024-01-28")
	})

	t.Run("from date included when it matches", func(t *testing.T) {
		got := Next(rule, 2, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-14", "2024-01-21")
	})

	t.Run("from before anchor starts at anchor", func(t *testing.T) {
		got := Next(rule, 1, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07")
	})

	t.Run("until exhausts before count", func(t *testing.T) {
		capped := rule
		capped.Until = ptr.To(time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC))
		got := Next(capped, 5, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07", "2024-01-14", "2024-01-21")
	})

	t.Run("rule count exhausts before requested count", func(t *testing.T) {
		capped := rule
		capped.Count = ptr.To(2)
		got := Next(capped, 5, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		assertDates(t, got, "2024-01-07", "2024-01-14")
	})

	t.Run("zero count yields nothing", func(t *testing.T) {
		if got := Next(rule, 0, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
			t.Errorf("expected empty result, got %v", dates(got))
		}
	})
}

// TestNextNeverMatchingRule verifies the scan ceiling: a degenerate rule must
// return an empty result promptly instead of looping forever.
func TestNextNeverMatchingRule(t *testing.T) {
	rule := domain.RecurrenceRule{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		ByWeekday: []time.Weekday{},
		StartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}

	done := make(chan []time.Time, 1)
	go func() {
		done <- Next(rule, 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	}()

	select {
	case got := <-done:
		if len(got) != 0 {
			t.Errorf("expected no occurrences from a degenerate rule, got %v", dates(got))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not terminate: scan ceiling is not enforced")
	}
}

func TestBetweenDegenerateInterval(t *testing.T) {
	rule := weeklySundays()
	rule.Interval = 0

	done := make(chan []time.Time, 1)
	go func() {
		done <- Between(rule,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	}()

	select {
	case got := <-done:
		if len(got) != 0 {
			t.Errorf("expected no occurrences for interval 0, got %v", dates(got))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Between did not terminate for interval 0")
	}
}
