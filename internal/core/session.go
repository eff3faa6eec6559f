package core

// Session binds one connection to its display name and current channel.
// Owned exclusively by the hub: created on join, replaced on re-join,
// destroyed on leave or disconnect.
type Session struct {
	ConnID  string
	Name    string
	Channel string
	Color   string
}
