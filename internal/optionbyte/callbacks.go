// internal/optionbyte/callbacks.go
package optionbyte

// EventKind classifies what the engine did with a cell or group.
type EventKind string

const (
	// EventClean: every cell of the group already held its factory value.
	EventClean EventKind = "clean"
	// EventSkip: the cell was correct while a sibling needed a rewrite.
	EventSkip EventKind = "skip"
	// EventErase: an erase cycle completed on the cell.
	EventErase EventKind = "erase"
	// EventWrite: the factory value was programmed into the cell.
	EventWrite EventKind = "write"
	// EventFault: an erase or program cycle on the cell faulted.
	EventFault EventKind = "fault"
)

// Event is reported to the Observer during a reset.
// Cell is empty for EventClean.
type Event struct {
	Group string
	Cell  string
	Kind  EventKind
}

// Observer receives engine events. It runs inside the critical section for
// everything except EventClean and must return quickly.
type Observer func(Event)

// Logger is an optional logging interface.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
