package protocol

import "testing"

func TestCaptureHappyPath(t *testing.T) {
	c := NewCapture(3)
	if c.State() != StateIdle {
		t.Fatalf("initial state = %v", c.State())
	}
	if ev := c.Observe(BeginMarker); ev != EventBegin {
		t.Fatalf("begin marker = %v", ev)
	}
	if c.State() != StateBegun {
		t.Fatalf("state after begin = %v", c.State())
	}
	if ev := c.Observe("2"); ev != EventPayload {
		t.Fatalf("payload = %v", ev)
	}
	if ev := c.Observe(""); ev != EventPayload {
		t.Fatalf("empty line inside window = %v, want payload", ev)
	}
	if ev := c.Observe("GPDRIVE_END 3"); ev != EventDone {
		t.Fatalf("end marker = %v", ev)
	}
	if c.State() != StateCompleted {
		t.Fatalf("final state = %v", c.State())
	}
}

func TestCaptureLinesBeforeBeginAreNoise(t *testing.T) {
	c := NewCapture(1)
	if ev := c.Observe("gnuplot chatter"); ev != EventNoise {
		t.Errorf("pre-begin line = %v", ev)
	}
}

func TestCaptureStaleEndID(t *testing.T) {
	c := NewCapture(5)
	c.Observe(BeginMarker)
	if ev := c.Observe("GPDRIVE_END 4"); ev != EventStaleEnd {
		t.Errorf("wrong id = %v", ev)
	}
	if c.State() != StateBegun {
		t.Errorf("stale end advanced state to %v", c.State())
	}
	if ev := c.Observe("GPDRIVE_END 5"); ev != EventDone {
		t.Errorf("correct id after stale = %v", ev)
	}
}

func TestCaptureLegacyEndWithoutID(t *testing.T) {
	c := NewCapture(5)
	c.Observe(BeginMarker)
	if ev := c.Observe("GPDRIVE_END"); ev != EventStaleEnd {
		t.Errorf("id-less end = %v, want stale", ev)
	}
}

func TestCapturePagerRetry(t *testing.T) {
	c := NewCapture(2)
	c.Observe(BeginMarker)
	c.Observe("line before pager")

	c.PagerInterrupt()
	if c.State() != StatePagerRetry {
		t.Fatalf("state after interrupt = %v", c.State())
	}

	// Output replayed by the pager is chatter, not reply payload.
	if ev := c.Observe("withheld output"); ev != EventNoise {
		t.Errorf("post-pager line = %v, want noise", ev)
	}

	if ev := c.Observe("GPDRIVE_END 2"); ev != EventDone {
		t.Errorf("re-issued end marker = %v", ev)
	}
}

func TestCaptureRepeatedPagerInterrupts(t *testing.T) {
	c := NewCapture(9)
	c.Observe(BeginMarker)
	c.PagerInterrupt()
	c.PagerInterrupt()
	if c.PagerRetries() != 2 {
		t.Errorf("retries = %d", c.PagerRetries())
	}
	if ev := c.Observe("GPDRIVE_END 9"); ev != EventDone {
		t.Errorf("end after double interrupt = %v", ev)
	}
	// A duplicate marker after completion is stale, not a second done.
	if ev := c.Observe("GPDRIVE_END 9"); ev != EventStaleEnd {
		t.Errorf("duplicate end = %v, want stale", ev)
	}
}

func TestCapturePagerInterruptOutsideWindow(t *testing.T) {
	c := NewCapture(1)
	c.PagerInterrupt()
	if c.State() != StateIdle || c.PagerRetries() != 0 {
		t.Errorf("interrupt while idle changed state: %v retries=%d", c.State(), c.PagerRetries())
	}
}
