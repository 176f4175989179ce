package interfaces

// ProgressEvent is one discrete progress update emitted by a long-running
// pass. Events within a single pass are delivered in FIFO order.
type ProgressEvent struct {
	Percentage float64
	Message    string
}

// ProgressSink receives progress events from a background pass. A nil sink is
// always legal and discards events.
type ProgressSink func(event ProgressEvent)

// Report sends an event if the sink is non-nil.
func (s ProgressSink) Report(percentage float64, message string) {
	if s != nil {
		s(ProgressEvent{Percentage: percentage, Message: message})
	}
}
