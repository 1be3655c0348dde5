/*
Package form implements the contact form workflow engine.

The Engine is pure: every transition takes a *domain.FormState and returns a new one,
leaving persistence, timers and side effects to the caller (see package contact).
Validation runs only on submit and checks every field; edits only clear the edited
field's error.

	eng := form.NewEngine()
	state := domain.NewFormState("sess-1")
	state, _ = eng.Edit(state, domain.FieldName, "Jane Doe")
	next, sub, err := eng.Submit(state)
	// sub == nil: next.Errors explains why.
*/
package form
