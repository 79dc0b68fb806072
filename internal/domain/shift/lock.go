package shift

import "time"

// RegistrationLock is the per (user, month) override of the registration deadline.
// Rows are upserted, never deleted, except when the owning user is deleted.
type RegistrationLock struct {
	UserID     string     `json:"user_id"`
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	IsUnlocked bool       `json:"is_unlocked"`
	UnlockedBy *string    `json:"unlocked_by,omitempty"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LockStatus is the evaluated registration state of a (user, month).
type LockStatus struct {
	UserID      string     `json:"user_id"`
	Year        int        `json:"year"`
	Month       int        `json:"month"`
	Locked      bool       `json:"locked"`
	Deadline    time.Time  `json:"deadline"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	UnlockUntil *time.Time `json:"unlock_until,omitempty"`
}
