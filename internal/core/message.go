package core

import "time"

// Message is the domain model for a chat message. Immutable once built.
type Message struct {
	ID        string
	Channel   string
	From      string
	Color     string
	Body      string
	ReplyTo   *ReplyRef
	CreatedAt time.Time
}

// ReplyRef is a denormalized quote of the message being replied to.
// It is client-supplied and never resolved against stored history.
type ReplyRef struct {
	From  string
	Body  string
	Color string
}
