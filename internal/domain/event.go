package domain

// EventKind names a state change observers can react to.
type EventKind string

// Event kinds.
const (
	EventQuoteAdded    EventKind = "quote.added"
	EventQuoteUpdated  EventKind = "quote.updated"
	EventQuoteDeleted  EventKind = "quote.deleted"
	EventFormChanged   EventKind = "form.changed"
	EventSearchChanged EventKind = "search.changed"
)

// Event describes one state change. Only the fields relevant to Kind are set:
// Quote for quote events, Form for form events, Search for search events.
type Event struct {
	Kind   EventKind
	Quote  Quote
	Form   Form
	Search string
}

// EventType returns the routing key of the event.
func (e Event) EventType() string {
	return string(e.Kind)
}
