package domain

// Variant selects the visual style of a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a one-shot message for the visitor's toast surface.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// SentNotification is emitted once a message has been delivered.
func SentNotification() Notification {
	return Notification{
		Title:       "Message sent successfully!",
		Description: "We'll get back to you within 24 hours.",
		Variant:     VariantDefault,
	}
}

// FailedNotification is emitted when delivery is rejected.
func FailedNotification() Notification {
	return Notification{
		Title:       "Message could not be sent",
		Description: "Please try again in a moment.",
		Variant:     VariantDestructive,
	}
}
