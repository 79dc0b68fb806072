package shift

import (
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

// RequestShiftRequest is a self-service shift registration.
type RequestShiftRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Parsed by Validate
	ParsedDate time.Time `json:"-"`
}

func (r *RequestShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if date, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = date
	}

	errs = append(errs, validateTimes(r.StartTime, r.EndTime)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ForceRegisterEntry is one shift of a privileged bulk registration.
type ForceRegisterEntry struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	ParsedDate time.Time `json:"-"`
}

type ForceRegisterRequest struct {
	Entries []ForceRegisterEntry `json:"entries"`
}

func (r *ForceRegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	}

	for i := range r.Entries {
		e := &r.Entries[i]
		if validator.IsEmpty(e.UserID) {
			errs = append(errs, validator.ValidationError{
				Field:   "entries.user_id",
				Message: "user_id is required",
			})
		}
		if date, ok := validator.IsValidDate(e.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "entries.date",
				Message: "date must be in YYYY-MM-DD format",
			})
		} else {
			e.ParsedDate = date
		}
		errs = append(errs, validateTimes(e.StartTime, e.EndTime)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateTimes(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startT, startOK := validator.IsValidClock(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}
	endT, endOK := validator.IsValidClock(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}
	if startOK && endOK && !startT.Before(endT) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}
	return errs
}

// ListShiftFilter narrows a scoped shift listing.
type ListShiftFilter struct {
	UserID *string
	From   *time.Time
	To     *time.Time
	Status *Status
}

type LockRequest struct {
	UserID string `json:"user_id"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}

func (r *LockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !validator.IsValidMonth(r.Year, r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "year/month is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
