package weavetest

import (
	"sync"

	"github.com/iov-one/remit"
)

// RecordingSink keeps every emitted event in order.
type RecordingSink struct {
	mu     sync.Mutex
	events []remit.Event
}

var _ remit.EventSink = (*RecordingSink)(nil)

func (s *RecordingSink) Emit(e remit.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (s *RecordingSink) Events() []remit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]remit.Event(nil), s.events...)
}

// Names returns the names of all recorded events.
func (s *RecordingSink) Names() []string {
	var names []string
	for _, e := range s.Events() {
		names = append(names, e.EventName())
	}
	return names
}

// Reset drops all recorded events.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}
