package core

// dispatcher delivers events computed by the hub. It holds no state and never
// re-derives membership: the hub hands it the exact recipient set for each
// transition, which keeps "who is a member" and "who gets the event" in sync.
type dispatcher struct{}

// unicast sends an event to a single connection.
func (dispatcher) unicast(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}

// broadcast sends an event to every recipient exactly once.
func (d dispatcher) broadcast(recipients []*Client, ev *Event) {
	for _, c := range recipients {
		d.unicast(c, ev)
	}
}

// broadcastExcept sends an event to every recipient but skip.
func (d dispatcher) broadcastExcept(recipients []*Client, skip *Client, ev *Event) {
	for _, c := range recipients {
		if c == skip {
			continue
		}
		d.unicast(c, ev)
	}
}
