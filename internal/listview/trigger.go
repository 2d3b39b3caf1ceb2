package listview

// LoadTrigger turns sentinel visibility into NearEnd events. It emits once
// when the sentinel is seen, then stays quiet until Rendered re-arms it.
// Exhaust silences it until Reset; Close silences it for good.
type LoadTrigger struct {
	armed     bool
	exhausted bool
	closed    bool
}

func NewLoadTrigger() *LoadTrigger {
	return &LoadTrigger{armed: true}
}

// Observe reports whether a NearEnd event should be emitted for the
// current sentinel visibility.
func (t *LoadTrigger) Observe(visible bool) bool {
	if !visible || !t.armed || t.exhausted || t.closed {
		return false
	}
	t.armed = false
	return true
}

// Rendered re-arms the trigger after a render cycle.
func (t *LoadTrigger) Rendered() {
	if !t.closed {
		t.armed = true
	}
}

func (t *LoadTrigger) Exhaust() { t.exhausted = true }

// Reset re-arms an exhausted trigger after a filter change.
func (t *LoadTrigger) Reset() {
	t.exhausted = false
	t.armed = !t.closed
}

func (t *LoadTrigger) Close() {
	t.closed = true
	t.armed = false
}

func (t *LoadTrigger) Closed() bool { return t.closed }
