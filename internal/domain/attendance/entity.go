package attendance

import (
	"time"
)

type Type string

const (
	TypeClockIn   Type = "CLOCK_IN"
	TypeClockOut  Type = "CLOCK_OUT"
	TypeWakeUp    Type = "WAKE_UP"
	TypeDeparture Type = "DEPARTURE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeClockIn, TypeClockOut, TypeWakeUp, TypeDeparture:
		return true
	}
	return false
}

type Attendance struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	Date      time.Time `json:"date"` // calendar day of ClockTime
	ClockTime time.Time `json:"clock_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CorrectionStatus string

const (
	CorrectionApproved CorrectionStatus = "APPROVED"
)

// Correction is an append-only audit row of a clock time edit. It is never
// read back to rebuild Attendance.ClockTime.
type Correction struct {
	ID           string           `json:"id"`
	AttendanceID string           `json:"attendance_id"`
	OldTime      time.Time        `json:"old_time"`
	NewTime      time.Time        `json:"new_time"`
	Reason       string           `json:"reason"`
	Comment      *string          `json:"comment,omitempty"`
	Status       CorrectionStatus `json:"status"`
	ApprovedBy   string           `json:"approved_by"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Day truncates t to its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
