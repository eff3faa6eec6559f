package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay-server/internal/validate"
)

// ErrHubStopped is returned by hub queries after Run has exited.
var ErrHubStopped = errors.New("hub stopped")

// Options tune the hub lifecycle timers and bounds.
type Options struct {
	// HistoryCapacity bounds the per-channel message log.
	HistoryCapacity int
	// GracePeriod is how long an empty channel survives before reclamation.
	GracePeriod time.Duration
	// TypingActiveWindow is the staleness cutoff applied to every emitted
	// typing snapshot.
	TypingActiveWindow time.Duration
	// TypingSweepWindow is the wider cutoff used by the periodic sweep, a
	// safety net for silently disconnected clients.
	TypingSweepWindow time.Duration
	// TypingSweepInterval is how often the background sweep runs.
	TypingSweepInterval time.Duration
	// MaxEmoteTokens caps known embedded tokens per message.
	MaxEmoteTokens int
}

// DefaultOptions returns the base policy.
func DefaultOptions() Options {
	return Options{
		HistoryCapacity:     100,
		GracePeriod:         60 * time.Second,
		TypingActiveWindow:  5 * time.Second,
		TypingSweepWindow:   10 * time.Second,
		TypingSweepInterval: 10 * time.Second,
		MaxEmoteTokens:      10,
	}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the single owner of all mutable relay state: sessions, channels,
// history and typing sets. Every mutation is applied on the Run goroutine, so
// operations are atomic units relative to each other. Timer-driven work
// (channel reclamation, typing sweep) re-enters through the same loop and
// re-checks liveness at fire time.
type Hub struct {
	opts      Options
	validator *validate.Validator
	log       zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	tasks      chan func()

	clients  map[string]*Client
	sessions map[string]*Session
	channels map[string]*Channel

	dispatch dispatcher

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewHub constructs the hub. A nil logger disables logging.
func NewHub(v *validate.Validator, opts Options, logger *zerolog.Logger) *Hub {
	if v == nil {
		v = validate.New(validate.DefaultLimits(), nil)
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		opts:       opts,
		validator:  v,
		log:        lg,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		tasks:      make(chan func(), 16),
		clients:    make(map[string]*Client),
		sessions:   make(map[string]*Session),
		channels:   make(map[string]*Channel),
		stopped:    make(chan struct{}),
	}
}

// RegisterClient hands a connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient removes a connection, performing an implicit leave.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Run processes commands until ctx is canceled. All state lives on this
// goroutine; nothing here blocks on external I/O.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.stopped) })

	sweep := time.NewTicker(h.opts.TypingSweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
		case c := <-h.unregister:
			if _, ok := h.clients[c.ID]; ok {
				h.handleLeave(c)
				delete(h.clients, c.ID)
				close(c.done)
			}
		case cc := <-h.commands:
			h.apply(cc.client, cc.cmd)
		case fn := <-h.tasks:
			fn()
		case <-sweep.C:
			h.sweepTyping()
		}
	}
}

// pump serializes one client's commands into the hub loop. It exits when the
// client is unregistered, so connection churn never accumulates goroutines.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

// submit queues fn onto the hub loop, dropping it if the hub has stopped.
func (h *Hub) submit(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.stopped:
	}
}

func (h *Hub) apply(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandLeave:
		h.handleLeave(c)
	case CommandSendMessage:
		h.handleMessage(c, cmd)
	case CommandSetTyping:
		h.handleTyping(c, cmd)
	case CommandListUsers:
		h.handleListUsers(c)
	default:
		h.dispatch.unicast(c, &Event{
			Kind:  EventError,
			Error: relayError(ErrCodeBadRequest, "unknown command"),
		})
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	name, err := h.validator.DisplayName(cmd.Name)
	if err != nil {
		h.rejectf(c, ErrCodeValidation, "%v", err)
		return
	}
	chName, err := h.validator.ChannelName(cmd.Channel)
	if err != nil {
		h.rejectf(c, ErrCodeValidation, "%v", err)
		return
	}

	// A connection belongs to at most one channel: re-join is leave-then-join.
	if _, ok := h.sessions[c.ID]; ok {
		h.handleLeave(c)
	}

	now := time.Now()
	ch, ok := h.channels[chName]
	if !ok {
		ch = newChannel(chName, h.opts.HistoryCapacity, now)
		h.channels[chName] = ch
		h.log.Info().Str("channel", chName).Msg("channel created")
	}

	if ch.hasName(name) {
		h.rejectf(c, ErrCodeNameTaken, "name %q is already taken in #%s", name, chName)
		return
	}

	color := ColorFor(name)
	ch.addMember(c.ID, name, color, now)
	h.sessions[c.ID] = &Session{ConnID: c.ID, Name: name, Channel: chName, Color: color}

	h.dispatch.unicast(c, &Event{
		Kind:    EventJoinedChannel,
		Channel: chName,
		User:    name,
		Color:   color,
	})
	// History replays to the joiner only.
	h.dispatch.unicast(c, &Event{
		Kind:     EventHistory,
		Channel:  chName,
		Messages: ch.history.Snapshot(),
	})

	recipients := h.recipients(ch)
	h.dispatch.broadcast(recipients, h.channelInfo(ch))
	h.dispatch.broadcastExcept(recipients, c, &Event{
		Kind:    EventUserJoined,
		Channel: chName,
		User:    name,
		Color:   color,
		Count:   len(ch.members),
	})

	h.log.Debug().Str("channel", chName).Str("user", name).Int("count", len(ch.members)).Msg("user joined")
}

func (h *Hub) handleLeave(c *Client) {
	sess, ok := h.sessions[c.ID]
	if !ok {
		return
	}
	delete(h.sessions, c.ID)

	ch, ok := h.channels[sess.Channel]
	if !ok {
		return
	}
	ch.removeMember(c.ID)
	ch.typing.Clear(sess.Name)

	if ch.empty() {
		h.scheduleReap(ch.Name)
		h.log.Debug().Str("channel", ch.Name).Dur("grace", h.opts.GracePeriod).Msg("channel empty, reclamation scheduled")
		return
	}

	now := time.Now()
	recipients := h.recipients(ch)
	h.dispatch.broadcast(recipients, &Event{
		Kind:    EventUserLeft,
		Channel: ch.Name,
		User:    sess.Name,
		Color:   sess.Color,
		Count:   len(ch.members),
	})
	h.dispatch.broadcast(recipients, h.typingEvent(ch, now))
	h.dispatch.broadcast(recipients, h.channelInfo(ch))

	h.log.Debug().Str("channel", ch.Name).Str("user", sess.Name).Int("count", len(ch.members)).Msg("user left")
}

func (h *Hub) handleMessage(c *Client, cmd *Command) {
	sess, ok := h.sessions[c.ID]
	if !ok {
		h.rejectf(c, ErrCodeNotInChannel, "join a channel before sending messages")
		return
	}
	ch, ok := h.channels[sess.Channel]
	if !ok {
		h.rejectf(c, ErrCodeNotInChannel, "join a channel before sending messages")
		return
	}

	body, err := h.validator.MessageBody(cmd.Body)
	if err != nil {
		h.rejectf(c, ErrCodeValidation, "%v", err)
		return
	}
	if cmd.EmoteCount > h.opts.MaxEmoteTokens {
		h.rejectf(c, ErrCodeValidation, "too many emotes (limit %d)", h.opts.MaxEmoteTokens)
		return
	}

	now := time.Now()
	msg := Message{
		ID:        messageID(now, c.ID),
		Channel:   ch.Name,
		From:      sess.Name,
		Color:     sess.Color,
		Body:      body,
		ReplyTo:   h.sanitizeReply(cmd.ReplyTo),
		CreatedAt: now,
	}
	ch.history.Append(msg)

	// One inclusive broadcast: the sender gets exactly the copy everyone
	// else gets, never a second one.
	h.dispatch.broadcast(h.recipients(ch), &Event{
		Kind:    EventNewMessage,
		Channel: ch.Name,
		Message: &msg,
	})
}

func (h *Hub) handleTyping(c *Client, cmd *Command) {
	sess, ok := h.sessions[c.ID]
	if !ok {
		// Typing from a session-less connection is harmless; ignore it.
		return
	}
	ch, ok := h.channels[sess.Channel]
	if !ok {
		return
	}

	now := time.Now()
	if cmd.IsTyping {
		ch.typing.Set(sess.Name, sess.Color, now)
	} else {
		ch.typing.Clear(sess.Name)
	}
	// Always rebroadcast the full snapshot, never a delta, so a client that
	// missed an event self-heals on the next one.
	h.dispatch.broadcast(h.recipients(ch), h.typingEvent(ch, now))
}

func (h *Hub) handleListUsers(c *Client) {
	sess, ok := h.sessions[c.ID]
	if !ok {
		h.rejectf(c, ErrCodeNotInChannel, "join a channel to list its users")
		return
	}
	ch, ok := h.channels[sess.Channel]
	if !ok {
		h.rejectf(c, ErrCodeNotInChannel, "join a channel to list its users")
		return
	}
	h.dispatch.unicast(c, &Event{
		Kind:    EventUsersList,
		Channel: ch.Name,
		Members: ch.memberList(),
		Count:   len(ch.members),
	})
}

// sweepTyping evicts indicators from silently disconnected clients. Channels
// with nothing stale are left alone to avoid event storms.
func (h *Hub) sweepTyping() {
	now := time.Now()
	cutoff := now.Add(-h.opts.TypingSweepWindow)
	for _, ch := range h.channels {
		if !ch.typing.Prune(cutoff) {
			continue
		}
		h.dispatch.broadcast(h.recipients(ch), h.typingEvent(ch, now))
	}
}

func (h *Hub) scheduleReap(name string) {
	time.AfterFunc(h.opts.GracePeriod, func() {
		h.submit(func() { h.reapChannel(name) })
	})
}

// reapChannel deletes an empty channel. The emptiness check reads live state,
// so a rejoin during the grace period cancels the deletion implicitly.
func (h *Hub) reapChannel(name string) {
	ch, ok := h.channels[name]
	if !ok || !ch.empty() {
		return
	}
	delete(h.channels, name)
	h.log.Info().Str("channel", name).Msg("empty channel reclaimed")
}

func (h *Hub) channelInfo(ch *Channel) *Event {
	return &Event{
		Kind:    EventChannelInfo,
		Channel: ch.Name,
		Count:   len(ch.members),
		Members: ch.memberList(),
	}
}

func (h *Hub) typingEvent(ch *Channel, now time.Time) *Event {
	// The emitting path uses the short window so stale indicators disappear
	// optimistically on every typing mutation.
	return &Event{
		Kind:    EventTyping,
		Channel: ch.Name,
		Typing:  ch.typing.Snapshot(now.Add(-h.opts.TypingActiveWindow)),
	}
}

func (h *Hub) recipients(ch *Channel) []*Client {
	out := make([]*Client, 0, len(ch.members))
	for connID := range ch.members {
		if c, ok := h.clients[connID]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) rejectf(c *Client, code, format string, args ...any) {
	h.dispatch.unicast(c, &Event{
		Kind:  EventError,
		Error: relayError(code, fmt.Sprintf(format, args...)),
	})
}

func (h *Hub) sanitizeReply(reply *ReplyRef) *ReplyRef {
	if reply == nil {
		return nil
	}
	name, body := h.validator.ReplyQuote(reply.From, reply.Body)
	if name == "" {
		return nil
	}
	return &ReplyRef{From: name, Body: body, Color: ColorFor(name)}
}

func messageID(now time.Time, connID string) string {
	suffix := connID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// ChannelStats is the read-only per-channel view for the stats surface.
type ChannelStats struct {
	Name      string
	Members   int
	CreatedAt time.Time
}

// Stats is a point-in-time read-only snapshot of registry state.
type Stats struct {
	Channels int
	Sessions int
	List     []ChannelStats
}

// Snapshot reads registry state through the hub loop without mutating it.
func (h *Hub) Snapshot(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	fn := func() {
		list := lo.MapToSlice(h.channels, func(name string, ch *Channel) ChannelStats {
			return ChannelStats{Name: name, Members: len(ch.members), CreatedAt: ch.CreatedAt}
		})
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		reply <- Stats{Channels: len(h.channels), Sessions: len(h.sessions), List: list}
	}

	select {
	case h.tasks <- fn:
	case <-h.stopped:
		return Stats{}, ErrHubStopped
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-h.stopped:
		return Stats{}, ErrHubStopped
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}
