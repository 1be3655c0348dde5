package domain

// StateDiff represents the changes between two form states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Status *SubmissionState `json:"status,omitempty"`

	// Input holds only changed fields.
	Input map[Field]string `json:"input,omitempty"`

	// Errors holds changed or added error messages. For cleared errors
	// the field is present with a nil value.
	Errors map[Field]*string `json:"errors,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *FormState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Status != newState.Status {
		status := newState.Status
		diff.Status = &status
	}

	diff.Input = diffInput(oldState, newState)
	diff.Errors = diffErrors(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffInput(old, new *FormState) map[Field]string {
	delta := make(map[Field]string)
	for _, f := range Fields {
		v := new.Input.Get(f)
		if old == nil {
			if v != "" {
				delta[f] = v
			}
			continue
		}
		if old.Input.Get(f) != v {
			delta[f] = v
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

func diffErrors(old, new *FormState) map[Field]*string {
	delta := make(map[Field]*string)

	for f, e := range new.Errors {
		if old != nil {
			if prev, ok := old.Errors[f]; ok && prev.Message == e.Message {
				continue
			}
		}
		msg := e.Message
		delta[f] = &msg
	}

	if old != nil {
		for f := range old.Errors {
			if !new.Errors.Has(f) {
				delta[f] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Status == nil &&
		len(d.Input) == 0 &&
		len(d.Errors) == 0
}
