// Package guard holds the temporal mutation policies. Every check is a
// function of the caller's now and stored timestamps; nothing runs on a timer.
package guard

import "time"

const (
	DefaultDeadlineDay  = 3
	DefaultUnlockWindow = time.Hour
	DefaultUndoWindow   = 5 * time.Minute
)

// Deadline is the last instant of day in (year, month), in loc. Days past the
// end of the month roll into the next one.
func Deadline(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-1), loc)
}

// NormalizeDay falls back to DefaultDeadlineDay outside 1..28.
func NormalizeDay(day int) int {
	if day < 1 || day > 28 {
		return DefaultDeadlineDay
	}
	return day
}

// CanEditExpenseByDate reports whether an expense dated expenseDate may still
// be changed at now. The month closes at the end of deadlineDay of the
// following month. There is no unlock. expenseDate is a calendar date, so its
// own year and month are used as is; only the deadline is placed in now's zone.
func CanEditExpenseByDate(expenseDate, now time.Time, deadlineDay int) bool {
	year, month, _ := expenseDate.Date()
	deadline := Deadline(year, month+1, NormalizeDay(deadlineDay), now.Location())
	return !now.After(deadline)
}

// CanUndo reports whether ownerID's record clocked at clockTime may be undone
// by actorID at now without elevated permission.
func CanUndo(ownerID string, clockTime time.Time, actorID string, now time.Time, window time.Duration) bool {
	if actorID == "" || actorID != ownerID {
		return false
	}
	if window <= 0 {
		window = DefaultUndoWindow
	}
	return now.Sub(clockTime) <= window
}
