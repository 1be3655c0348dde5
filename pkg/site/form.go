package site

import "github.com/aretw0/devcraft/pkg/domain"

// Button labels per submission state.
const (
	LabelSend    = "Send Message"
	LabelSending = "Sending..."
	LabelSent    = "Message Sent!"
)

// FieldView is one rendered form control.
type FieldView struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Multiline   bool
	Value       string
	Error       string
}

// FormView adapts a form state to the contact template.
type FormView struct {
	state *domain.FormState
}

// NewFormView wraps state. A nil state renders an empty idle form.
func NewFormView(state *domain.FormState) *FormView {
	if state == nil {
		state = domain.NewFormState("")
	}
	return &FormView{state: state}
}

// Status is the submission state name.
func (f *FormView) Status() string {
	return string(f.state.Status)
}

// Disabled reports whether inputs and the button are locked.
func (f *FormView) Disabled() bool {
	return f.state.Status.Disabled()
}

// Button returns the submit button label.
func (f *FormView) Button() string {
	switch f.state.Status {
	case domain.StateSubmitting:
		return LabelSending
	case domain.StateSubmitted:
		return LabelSent
	}
	return LabelSend
}

// Fields returns the controls in display order. Values stay in place while
// the form is submitting or submitted; the reset clears them.
func (f *FormView) Fields() []FieldView {
	out := make([]FieldView, 0, len(domain.Fields))
	for _, field := range domain.Fields {
		v := controls[field]
		v.Value = f.state.Input.Get(field)
		if e, ok := f.state.Errors[field]; ok {
			v.Error = e.Message
		}
		out = append(out, v)
	}
	return out
}

var controls = map[domain.Field]FieldView{
	domain.FieldName:    {Name: "name", Label: "Name", Type: "text", Placeholder: "John Doe"},
	domain.FieldEmail:   {Name: "email", Label: "Email", Type: "email", Placeholder: "john@example.com"},
	domain.FieldMessage: {Name: "message", Label: "Message", Placeholder: "Tell us about your project...", Multiline: true},
}
