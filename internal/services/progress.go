package services

import "github.com/blockscope/blockscope/internal/interfaces"

// ChannelSink adapts a bounded channel into a ProgressSink. Events within a
// pass arrive in FIFO order; when the consumer falls behind, intermediate
// events are dropped rather than stalling the pass. The returned close
// function must be called once the pass has finished so the draining side
// terminates.
func ChannelSink(buffer int) (interfaces.ProgressSink, <-chan interfaces.ProgressEvent, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan interfaces.ProgressEvent, buffer)

	sink := func(event interfaces.ProgressEvent) {
		select {
		case ch <- event:
		default:
		}
	}
	return sink, ch, func() { close(ch) }
}
