package redline

import "testing"

func TestChannelReporter(t *testing.T) {
	report, ch := ChannelReporter(2)

	report("first")
	report("second")

	if got := <-ch; got != "first" {
		t.Errorf("message = %q, want %q", got, "first")
	}
	if got := <-ch; got != "second" {
		t.Errorf("message = %q, want %q", got, "second")
	}
}

func TestChannelReporter_DropsWhenFull(t *testing.T) {
	report, ch := ChannelReporter(1)

	// A full buffer must never block the caller.
	report("kept")
	report("dropped")

	if got := <-ch; got != "kept" {
		t.Errorf("message = %q, want %q", got, "kept")
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected extra message %q", msg)
	default:
	}
}
