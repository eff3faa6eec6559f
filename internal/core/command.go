package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin subscribes the connection to a channel under a display name.
	CommandJoin CommandKind = iota
	// CommandLeave unsubscribes the connection from its current channel.
	CommandLeave
	// CommandSendMessage posts a chat message to the connection's channel.
	CommandSendMessage
	// CommandSetTyping raises or clears the connection's typing indicator.
	CommandSetTyping
	// CommandListUsers requests the current member list of the channel.
	CommandListUsers
)

// Command represents an action requested by a client. Name, Channel, Body and
// ReplyTo carry raw client input; the hub normalizes and validates them.
type Command struct {
	Kind    CommandKind
	Name    string
	Channel string
	Body    string
	ReplyTo *ReplyRef
	// EmoteCount is the number of known embedded tokens in Body, resolved by
	// the transport against the emote catalog before the command is queued.
	// Catalog lookups must never run inside the hub loop.
	EmoteCount int
	IsTyping   bool
}
