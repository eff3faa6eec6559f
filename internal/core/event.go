package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventError reports a domain error to the offending connection.
	EventError EventKind = iota
	// EventJoinedChannel confirms a successful join to the joiner.
	EventJoinedChannel
	// EventHistory delivers recent channel messages to a joining connection.
	EventHistory
	// EventChannelInfo carries the full membership list and count.
	EventChannelInfo
	// EventUserJoined notifies existing members about a new member.
	EventUserJoined
	// EventUserLeft notifies remaining members about a departure.
	EventUserLeft
	// EventTyping carries the full current-typing snapshot for a channel.
	EventTyping
	// EventNewMessage delivers a chat message to all channel members.
	EventNewMessage
	// EventUsersList answers a get-users request.
	EventUsersList
)

// MemberInfo is one entry of a channel membership snapshot.
type MemberInfo struct {
	Name     string
	Color    string
	JoinedAt time.Time
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Channel  string
	User     string
	Color    string
	Count    int
	Members  []MemberInfo
	Typing   []TypingState
	Message  *Message
	Messages []Message
	Error    *RelayError
}
