package redline

// Reporter receives one-way progress messages at processing checkpoints:
// extraction start, per-paragraph processing, per-record failures, and the
// completion summary. Implementations must not block; the pipeline fires and
// forgets.
type Reporter func(message string)

// NopReporter discards progress messages.
func NopReporter(string) {}

// ChannelReporter returns a reporter that forwards messages to the returned
// channel without ever blocking the pipeline: when the buffer is full the
// message is dropped.
func ChannelReporter(buffer int) (Reporter, <-chan string) {
	ch := make(chan string, buffer)
	reporter := func(msg string) {
		select {
		case ch <- msg:
		default:
		}
	}
	return reporter, ch
}
