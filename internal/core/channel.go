package core

import (
	"sort"
	"strings"
	"time"
)

// member is a channel's record of one joined connection.
type member struct {
	connID   string
	name     string
	color    string
	joinedAt time.Time
}

// Channel is a named room: membership keyed by connection id, transient
// typing state, and a bounded message history. Owned exclusively by the hub.
type Channel struct {
	Name      string
	CreatedAt time.Time
	members   map[string]member
	typing    typingSet
	history   *historyRing
}

func newChannel(name string, historyCapacity int, now time.Time) *Channel {
	return &Channel{
		Name:      name,
		CreatedAt: now,
		members:   make(map[string]member),
		typing:    newTypingSet(),
		history:   newHistoryRing(historyCapacity),
	}
}

// hasName reports whether a current member holds the display name,
// compared case-insensitively.
func (ch *Channel) hasName(name string) bool {
	for _, m := range ch.members {
		if strings.EqualFold(m.name, name) {
			return true
		}
	}
	return false
}

func (ch *Channel) addMember(connID, name, color string, now time.Time) {
	ch.members[connID] = member{connID: connID, name: name, color: color, joinedAt: now}
}

func (ch *Channel) removeMember(connID string) {
	delete(ch.members, connID)
}

func (ch *Channel) empty() bool {
	return len(ch.members) == 0
}

// memberList returns the membership snapshot ordered by join time, name as
// tiebreak, so every recipient sees the same list.
func (ch *Channel) memberList() []MemberInfo {
	infos := make([]MemberInfo, 0, len(ch.members))
	for _, m := range ch.members {
		infos = append(infos, MemberInfo{Name: m.name, Color: m.color, JoinedAt: m.joinedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].JoinedAt.Equal(infos[j].JoinedAt) {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].JoinedAt.Before(infos[j].JoinedAt)
	})
	return infos
}
