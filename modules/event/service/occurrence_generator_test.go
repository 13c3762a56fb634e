package service

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// checkSequence verifies the invariants every generated sequence must hold:
// strictly increasing, duplicate-free, and sharing the anchor's time-of-day.
func checkSequence(t *testing.T, anchor time.Time, dates []time.Time) {
	t.Helper()
	for i, d := range dates {
		if i > 0 && !dates[i-1].Before(d) {
			t.Fatalf("sequence not strictly increasing at %d: %v >= %v", i, dates[i-1], d)
		}
		h, m, s := d.Clock()
		ah, am, as := anchor.Clock()
		if h != ah || m != am || s != as {
			t.Fatalf("occurrence %d lost the anchor's time-of-day: got %02d:%02d:%02d, want %02d:%02d:%02d",
				i, h, m, s, ah, am, as)
		}
	}
}

func TestGenerateDaily(t *testing.T) {
	g := NewOccurrenceGenerator()
	anchor := date(2025, time.January, 1, 10, 30)

	tests := []struct {
		name      string
		frequency int
		end       EndCondition
		want      []time.Time
	}{
		{
			name:      "every day for five occurrences",
			frequency: 1,
			end:       EndCondition{Type: EndCount, Count: 5},
			want: []time.Time{
				date(2025, time.January, 1, 10, 30),
				date(2025, time.January, 2, 10, 30),
				date(2025, time.January, 3, 10, 30),
				date(2025, time.January, 4, 10, 30),
				date(2025, time.January, 5, 10, 30),
			},
		},
		{
			name:      "every third day",
			frequency: 3,
			end:       EndCondition{Type: EndCount, Count: 4},
			want: []time.Time{
				date(2025, time.January, 1, 10, 30),
				date(2025, time.January, 4, 10, 30),
				date(2025, time.January, 7, 10, 30),
				date(2025, time.January, 10, 10, 30),
			},
		},
		{
			name:      "until boundary is inclusive",
			frequency: 1,
			end:       EndCondition{Type: EndUntil, Until: date(2025, time.January, 3, 10, 30)},
			want: []time.Time{
				date(2025, time.January, 1, 10, 30),
				date(2025, time.January, 2, 10, 30),
				date(2025, time.January, 3, 10, 30),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &RecurrenceRule{
				StartDate: anchor,
				Pattern:   PatternDaily,
				Frequency: tt.frequency,
				End:       tt.end,
			}
			got, appErr := g.Generate(rule)
			if appErr != nil {
				t.Fatalf("unexpected error: %v", appErr)
			}
			checkSequence(t, anchor, got)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d occurrences, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Fatalf("occurrence %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateUntilBeforeAnchorIsEmpty(t *testing.T) {
	g := NewOccurrenceGenerator()
	rule := &RecurrenceRule{
		StartDate: date(2025, time.June, 10, 9, 0),
		Pattern:   PatternDaily,
		Frequency: 1,
		End:       EndCondition{Type: EndUntil, Until: date(2025, time.June, 1, 9, 0)},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("an empty result must not be an error, got: %v", appErr)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero occurrences, got %d", len(got))
	}
}

func TestGenerateMonthlyClipsToMonthLength(t *testing.T) {
	g := NewOccurrenceGenerator()
	anchor := date(2025, time.January, 31, 18, 0)

	rule := &RecurrenceRule{
		StartDate:  anchor,
		Pattern:    PatternMonthly,
		Frequency:  1,
		DayOfMonth: 31,
		End:        EndCondition{Type: EndCount, Count: 4},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	checkSequence(t, anchor, got)

	want := []time.Time{
		date(2025, time.January, 31, 18, 0),
		date(2025, time.February, 28, 18, 0), // clipped, not March 3rd
		date(2025, time.March, 31, 18, 0),
		date(2025, time.April, 30, 18, 0), // clipped
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateMonthlyLeapYear(t *testing.T) {
	g := NewOccurrenceGenerator()
	rule := &RecurrenceRule{
		StartDate:  date(2024, time.January, 31, 12, 0),
		Pattern:    PatternMonthly,
		Frequency:  1,
		DayOfMonth: 31,
		End:        EndCondition{Type: EndCount, Count: 2},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(got) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(got))
	}
	if want := date(2024, time.February, 29, 12, 0); !got[1].Equal(want) {
		t.Fatalf("leap February occurrence = %v, want %v", got[1], want)
	}
}

func TestGenerateMonthlyEveryOtherMonth(t *testing.T) {
	g := NewOccurrenceGenerator()
	rule := &RecurrenceRule{
		StartDate:  date(2025, time.January, 15, 8, 0),
		Pattern:    PatternMonthly,
		Frequency:  2,
		DayOfMonth: 15,
		End:        EndCondition{Type: EndCount, Count: 3},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	want := []time.Time{
		date(2025, time.January, 15, 8, 0),
		date(2025, time.March, 15, 8, 0),
		date(2025, time.May, 15, 8, 0),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateWeeklySelectedDays(t *testing.T) {
	g := NewOccurrenceGenerator()
	// Monday January 6th 2025
	anchor := date(2025, time.January, 6, 9, 0)

	rule := &RecurrenceRule{
		StartDate:  anchor,
		Pattern:    PatternWeekly,
		Frequency:  1,
		DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		End:        EndCondition{Type: EndCount, Count: 6},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	checkSequence(t, anchor, got)

	// Two weeks of Mon/Wed/Fri
	want := []time.Time{
		date(2025, time.January, 6, 9, 0),
		date(2025, time.January, 8, 9, 0),
		date(2025, time.January, 10, 9, 0),
		date(2025, time.January, 13, 9, 0),
		date(2025, time.January, 15, 9, 0),
		date(2025, time.January, 17, 9, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
		switch got[i].Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Fatalf("occurrence %d landed on %v", i, got[i].Weekday())
		}
	}
}

func TestGenerateWeeklyEmptyDaysUsesAnchorWeekday(t *testing.T) {
	g := NewOccurrenceGenerator()
	// Tuesday January 7th 2025
	anchor := date(2025, time.January, 7, 19, 0)

	rule := &RecurrenceRule{
		StartDate: anchor,
		Pattern:   PatternWeekly,
		Frequency: 2,
		End:       EndCondition{Type: EndCount, Count: 3},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	want := []time.Time{
		date(2025, time.January, 7, 19, 0),
		date(2025, time.January, 21, 19, 0),
		date(2025, time.February, 4, 19, 0),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateWeeklySkipsDaysBeforeAnchor(t *testing.T) {
	g := NewOccurrenceGenerator()
	// Wednesday January 8th 2025; Monday the 6th is in the same week but
	// before the anchor and must not be emitted.
	anchor := date(2025, time.January, 8, 14, 0)

	rule := &RecurrenceRule{
		StartDate:  anchor,
		Pattern:    PatternCustom,
		Frequency:  1,
		DaysOfWeek: []time.Weekday{time.Monday, time.Friday},
		End:        EndCondition{Type: EndCount, Count: 3},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	want := []time.Time{
		date(2025, time.January, 10, 14, 0), // Friday of the anchor week
		date(2025, time.January, 13, 14, 0), // Monday
		date(2025, time.January, 17, 14, 0), // Friday
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateOpenEndedStopsAtSafetyCap(t *testing.T) {
	g := &OccurrenceGenerator{MaxOccurrences: 10}
	rule := &RecurrenceRule{
		StartDate: date(2025, time.January, 1, 10, 0),
		Pattern:   PatternDaily,
		Frequency: 1,
		End:       EndCondition{Type: EndOpenEnded},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(got) != 10 {
		t.Fatalf("open-ended rule generated %d occurrences, want the cap of 10", len(got))
	}
}

func TestGenerateCountBoundedBySafetyCap(t *testing.T) {
	g := &OccurrenceGenerator{MaxOccurrences: 5}
	rule := &RecurrenceRule{
		StartDate: date(2025, time.January, 1, 10, 0),
		Pattern:   PatternDaily,
		Frequency: 1,
		End:       EndCondition{Type: EndCount, Count: 100},
	}

	got, appErr := g.Generate(rule)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(got) != 5 {
		t.Fatalf("got %d occurrences, want cap of 5", len(got))
	}
}

func TestGenerateRejectsMalformedRules(t *testing.T) {
	g := NewOccurrenceGenerator()
	anchor := date(2025, time.January, 1, 10, 0)

	tests := []struct {
		name string
		rule RecurrenceRule
	}{
		{
			name: "zero frequency",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternDaily, Frequency: 0,
				End: EndCondition{Type: EndCount, Count: 3}},
		},
		{
			name: "day of month too large",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternMonthly, Frequency: 1, DayOfMonth: 32,
				End: EndCondition{Type: EndCount, Count: 3}},
		},
		{
			name: "day of month missing",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternMonthly, Frequency: 1,
				End: EndCondition{Type: EndCount, Count: 3}},
		},
		{
			name: "zero count",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternDaily, Frequency: 1,
				End: EndCondition{Type: EndCount, Count: 0}},
		},
		{
			name: "weekday out of range",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternWeekly, Frequency: 1,
				DaysOfWeek: []time.Weekday{time.Weekday(7)},
				End:        EndCondition{Type: EndCount, Count: 3}},
		},
		{
			name: "unknown pattern",
			rule: RecurrenceRule{StartDate: anchor, Pattern: Pattern("yearly"), Frequency: 1,
				End: EndCondition{Type: EndCount, Count: 3}},
		},
		{
			name: "unknown end condition",
			rule: RecurrenceRule{StartDate: anchor, Pattern: PatternDaily, Frequency: 1,
				End: EndCondition{Type: EndConditionType("never")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, appErr := g.Generate(&tt.rule); appErr == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
