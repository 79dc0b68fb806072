package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanEditExpenseByDate(t *testing.T) {
	expenseDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same month", time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC), true},
		{"deadline day morning", time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), true},
		{"last second", time.Date(2025, 7, 3, 23, 59, 59, 0, time.UTC), true},
		{"day after deadline", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), false},
		{"months later", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditExpenseByDate(expenseDate, tt.now, 3))
		})
	}
}

func TestCanEditExpenseByDate_YearRollover(t *testing.T) {
	december := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)

	assert.True(t, CanEditExpenseByDate(december, time.Date(2026, 1, 3, 23, 0, 0, 0, time.UTC), 3))
	assert.False(t, CanEditExpenseByDate(december, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), 3))
}

func TestCanEditExpenseByDate_NegativeOffsetZone(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Dates parsed from YYYY-MM-DD are UTC midnight.
	expenseDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, CanEditExpenseByDate(expenseDate, time.Date(2025, 6, 20, 12, 0, 0, 0, newYork), 3))
	assert.True(t, CanEditExpenseByDate(expenseDate, time.Date(2025, 7, 3, 23, 59, 59, 0, newYork), 3))
	assert.False(t, CanEditExpenseByDate(expenseDate, time.Date(2025, 7, 4, 0, 0, 0, 0, newYork), 3))
}

func TestCanEditExpenseByDate_InvalidDayFallsBack(t *testing.T) {
	expenseDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, CanEditExpenseByDate(expenseDate, time.Date(2025, 7, 3, 22, 0, 0, 0, time.UTC), 0))
	assert.False(t, CanEditExpenseByDate(expenseDate, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), 99))
}

func TestCanUndo(t *testing.T) {
	t0 := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		actor string
		now   time.Time
		want  bool
	}{
		{"owner inside window", "owner", t0.Add(4*time.Minute + 59*time.Second), true},
		{"owner at window edge", "owner", t0.Add(5 * time.Minute), true},
		{"owner after window", "owner", t0.Add(5*time.Minute + time.Second), false},
		{"other user immediately", "someone", t0, false},
		{"other user later", "someone", t0.Add(time.Hour), false},
		{"no actor", "", t0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUndo("owner", t0, tt.actor, tt.now, DefaultUndoWindow))
		})
	}
}

func TestDeadline(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	d := Deadline(2025, time.June, 3, loc)

	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 3, d.Day())
	assert.Equal(t, 23, d.Hour())
	assert.Equal(t, 59, d.Second())
	assert.True(t, d.Before(time.Date(2025, 6, 4, 0, 0, 0, 0, loc)))
}
