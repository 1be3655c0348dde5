package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a validated contact message handed to the delivery collaborator.
// Values are trimmed.
type Submission struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Message    string    `json:"message" db:"message"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}
