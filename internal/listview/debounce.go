package listview

// Debouncer collapses bursts of search input. Each Input supersedes the
// pending one; only the token of the latest Input fires. The caller owns
// the timer and hands the token back to Fire when it elapses.
type Debouncer struct {
	seq     uint64
	pending uint64
	raw     string
	armed   bool
}

// Input schedules raw and returns the token to fire after the quiet window.
func (d *Debouncer) Input(raw string) uint64 {
	d.seq++
	d.pending = d.seq
	d.raw = raw
	d.armed = true
	return d.seq
}

// Fire returns the scheduled input if token is still the pending one.
func (d *Debouncer) Fire(token uint64) (string, bool) {
	if !d.armed || token != d.pending {
		return "", false
	}
	d.armed = false
	return d.raw, true
}

// Cancel drops the pending input.
func (d *Debouncer) Cancel() { d.armed = false }

// Pending reports whether an input is waiting to fire.
func (d *Debouncer) Pending() bool { return d.armed }
