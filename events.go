package remit

// Event represents a structured notification about a state change that
// took place, for example a package being claimed.
type Event interface {
	EventName() string
}

// EventSink records events produced by committed transactions, for
// example to feed an indexer or a subscription service.
type EventSink interface {
	Emit(Event)
}

// NopSink discards all events.
type NopSink struct{}

var _ EventSink = NopSink{}

// Emit implements EventSink.
func (NopSink) Emit(Event) {}
