package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin        = "join"
	InboundTypeLeave       = "leave"
	InboundTypeSendMessage = "send-message"
	InboundTypeTyping      = "typing"
	InboundTypeGetUsers    = "get-users"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventJoinedChannel  = "joined-channel"
	EventMessageHistory = "message-history"
	EventChannelInfo    = "channel-info"
	EventUserJoined     = "user-joined"
	EventUserLeft       = "user-left"
	EventUserTyping     = "user-typing"
	EventNewMessage     = "new-message"
	EventUsersList      = "users-list"
)

// JoinData requests to join a channel under a display name.
type JoinData struct {
	DisplayName string `json:"displayName"`
	ChannelName string `json:"channelName"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	Body    string       `json:"body"`
	ReplyTo *ReplyToData `json:"replyTo,omitempty"`
}

// ReplyToData is the client-supplied quote of the message being replied to.
type ReplyToData struct {
	DisplayName string `json:"displayName"`
	Body        string `json:"body"`
}

// TypingData raises or clears the sender's typing indicator.
type TypingData struct {
	IsTyping bool `json:"isTyping"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// MemberData is one entry of a membership list.
type MemberData struct {
	DisplayName string `json:"displayName"`
	ColorTag    string `json:"colorTag"`
	JoinedAt    int64  `json:"joinedAt"`
}

// JoinedChannelData confirms a successful join to the joiner.
type JoinedChannelData struct {
	DisplayName string `json:"displayName"`
	ChannelName string `json:"channelName"`
	ColorTag    string `json:"colorTag"`
}

// MessageData is a chat message as delivered to clients.
type MessageData struct {
	ID          string             `json:"id"`
	ChannelName string             `json:"channelName"`
	DisplayName string             `json:"displayName"`
	ColorTag    string             `json:"colorTag"`
	Body        string             `json:"body"`
	TS          int64              `json:"ts"`
	ReplyTo     *ReplySnapshotData `json:"replyTo,omitempty"`
}

// ReplySnapshotData is the sanitized quote attached to a message.
type ReplySnapshotData struct {
	DisplayName string `json:"displayName"`
	Body        string `json:"body"`
	ColorTag    string `json:"colorTag"`
}

// MessageHistoryData replays recent messages to a joining client.
type MessageHistoryData struct {
	ChannelName string        `json:"channelName"`
	Messages    []MessageData `json:"messages"`
}

// ChannelInfoData carries the membership list and count.
type ChannelInfoData struct {
	ChannelName string       `json:"channelName"`
	Count       int          `json:"count"`
	Members     []MemberData `json:"members"`
}

// UserJoinedData notifies existing members about a new member.
type UserJoinedData struct {
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
	ColorTag    string `json:"colorTag"`
}

// UserLeftData notifies remaining members about a departure.
type UserLeftData struct {
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
	ColorTag    string `json:"colorTag"`
}

// TypingUserData is one entry of a typing snapshot.
type TypingUserData struct {
	DisplayName string `json:"displayName"`
	ColorTag    string `json:"colorTag"`
}

// UserTypingData carries the full current-typing snapshot for a channel.
type UserTypingData struct {
	ChannelName string           `json:"channelName"`
	Typing      []TypingUserData `json:"typing"`
}

// UsersListData answers a get-users request.
type UsersListData struct {
	ChannelName string       `json:"channelName"`
	Count       int          `json:"count"`
	Members     []MemberData `json:"members"`
}
