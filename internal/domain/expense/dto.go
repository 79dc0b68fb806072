package expense

import (
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

type CreateExpenseRequest struct {
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	Type        Type    `json:"type"`
	Amount      int64   `json:"amount"`
	Description *string `json:"description,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *CreateExpenseRequest) Validate() error {
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

	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of TRANSIT, ACCOMMODATION, MEAL, OTHER",
		})
	}

	if r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateExpenseRequest carries only the fields being changed.
type UpdateExpenseRequest struct {
	ID          string  `json:"id"`
	Date        *string `json:"date,omitempty"`
	Type        *Type   `json:"type,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`

	ParsedDate *time.Time `json:"-"`
}

func (r *UpdateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Date != nil {
		if date, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		} else {
			r.ParsedDate = &date
		}
	}

	if r.Type != nil && !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of TRANSIT, ACCOMMODATION, MEAL, OTHER",
		})
	}

	if r.Amount != nil && *r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListExpenseFilter struct {
	UserID *string
	From   *time.Time
	To     *time.Time
	Status *Status
}

// ReviewAction is an approval decision applied to a pending expense.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// Target returns the status the action moves a pending expense to.
func (a ReviewAction) Target() (Status, bool) {
	switch a {
	case ReviewApprove:
		return StatusApproved, true
	case ReviewReject:
		return StatusRejected, true
	}
	return "", false
}
