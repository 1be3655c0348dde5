package domain

import "time"

// SubmissionState is the position of a form in the submission lifecycle.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"       // Accepting edits and submits
	StateSubmitting SubmissionState = "submitting" // Waiting for the delivery collaborator
	StateSubmitted  SubmissionState = "submitted"  // Confirmation on display, reset pending
)

// Disabled reports whether inputs are locked in this state.
func (s SubmissionState) Disabled() bool {
	return s != StateIdle
}

// FormInput holds the raw values the visitor typed.
type FormInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Get returns the value of field.
func (in FormInput) Get(field Field) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldEmail:
		return in.Email
	case FieldMessage:
		return in.Message
	}
	return ""
}

// Set assigns value to field. Unknown fields are ignored.
func (in *FormInput) Set(field Field, value string) {
	switch field {
	case FieldName:
		in.Name = value
	case FieldEmail:
		in.Email = value
	case FieldMessage:
		in.Message = value
	}
}

// IsEmpty reports whether every field is blank.
func (in FormInput) IsEmpty() bool {
	return in.Name == "" && in.Email == "" && in.Message == ""
}

// FormState represents the current snapshot of one visitor's contact form.
type FormState struct {
	SessionID string `json:"session_id"`

	Input  FormInput        `json:"input"`
	Errors ValidationErrors `json:"errors,omitempty"`
	Status SubmissionState  `json:"status"`

	// Attempt increments on every validation-passing submit so late results
	// from an earlier attempt can be recognised and dropped.
	Attempt int `json:"attempt"`

	// SubmissionID identifies the message handed to the delivery collaborator
	// for the current attempt. Empty while idle.
	SubmissionID string `json:"submission_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted form when the state passed through an
	// encrypting store. Input and Errors are blank in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewFormState creates a clean idle form for a session.
func NewFormState(sessionID string) *FormState {
	return &FormState{
		SessionID: sessionID,
		Status:    StateIdle,
	}
}

// Snapshot returns a deep copy of the state.
func (s *FormState) Snapshot() *FormState {
	if s == nil {
		return nil
	}
	out := *s
	out.Errors = s.Errors.Clone()
	return &out
}
