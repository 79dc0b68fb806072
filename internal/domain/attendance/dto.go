package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

// RecordAttendanceRequest records a clock event. ClockTime defaults to now.
type RecordAttendanceRequest struct {
	UserID    string  `json:"user_id"`
	Type      Type    `json:"type"`
	ClockTime *string `json:"clock_time,omitempty"`

	ParsedClockTime *time.Time `json:"-"`
}

func (r *RecordAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of CLOCK_IN, CLOCK_OUT, WAKE_UP, DEPARTURE",
		})
	}

	if r.ClockTime != nil {
		if t, ok := validator.IsValidDateTime(*r.ClockTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_time",
				Message: "clock_time must be an ISO8601 timestamp",
			})
		} else {
			r.ParsedClockTime = &t
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CorrectionRequest edits the clock time of an attendance record.
type CorrectionRequest struct {
	AttendanceID string  `json:"attendance_id"`
	NewTime      string  `json:"new_time"`
	Reason       string  `json:"reason"`
	Comment      *string `json:"comment,omitempty"`

	ParsedNewTime time.Time `json:"-"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if t, ok := validator.IsValidDateTime(r.NewTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "new_time",
			Message: "new_time must be an ISO8601 timestamp",
		})
	} else {
		r.ParsedNewTime = t
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListAttendanceFilter narrows a scoped attendance listing.
type ListAttendanceFilter struct {
	UserID *string
	Type   *Type
	From   *time.Time
	To     *time.Time
}
