package core

// historyRing is a bounded ordered log of recent messages. Once full, the
// oldest entry is evicted on every append.
type historyRing struct {
	buf   []Message
	start int
	size  int
}

func newHistoryRing(capacity int) *historyRing {
	if capacity < 1 {
		capacity = 1
	}
	return &historyRing{buf: make([]Message, capacity)}
}

// Append stores a message, evicting the oldest entry when at capacity.
func (r *historyRing) Append(m Message) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = m
		r.size++
		return
	}
	r.buf[r.start] = m
	r.start = (r.start + 1) % len(r.buf)
}

// Snapshot returns the stored messages oldest first.
func (r *historyRing) Snapshot() []Message {
	out := make([]Message, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

func (r *historyRing) Len() int {
	return r.size
}
