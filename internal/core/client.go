package core

// Client is a connected peer as seen by the core layer. The ID is the opaque
// per-connection identifier owned by the transport. The hub closes done on
// unregister to stop the client's command pump.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
	done     chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}
