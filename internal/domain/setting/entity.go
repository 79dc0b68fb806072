package setting

import "time"

const (
	KeyRegistrationDeadlineDay = "registration_deadline_day"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
