package expense

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Type string

const (
	TypeTransit       Type = "TRANSIT"
	TypeAccommodation Type = "ACCOMMODATION"
	TypeMeal          Type = "MEAL"
	TypeOther         Type = "OTHER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTransit, TypeAccommodation, TypeMeal, TypeOther:
		return true
	}
	return false
}

type Expense struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Date        time.Time  `json:"date"`
	Type        Type       `json:"type"`
	Amount      int64      `json:"amount"` // minor currency units
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
