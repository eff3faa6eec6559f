package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/roomrelay-server/internal/core"
	"github.com/vovakirdan/roomrelay-server/internal/proto"
)

func inbound(t *testing.T, typ string, data any) proto.Inbound {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return proto.Inbound{Type: typ, Data: raw}
}

func TestInboundJoin(t *testing.T) {
	req := require.New(t)

	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeJoin, proto.JoinData{
		DisplayName: "Ann",
		ChannelName: "General",
	}), nil)
	req.NoError(err)
	req.Nil(protoErr)
	req.Equal(core.CommandJoin, cmd.Kind)
	req.Equal("Ann", cmd.Name)
	req.Equal("General", cmd.Channel)
}

func TestInboundJoinMissingFields(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeJoin, proto.JoinData{}), nil)
	require.NoError(t, err)
	require.Nil(t, cmd)
	require.NotNil(t, protoErr)
	require.Equal(t, core.ErrCodeBadRequest, protoErr.Code)
}

func TestInboundSendMessageCountsEmotes(t *testing.T) {
	req := require.New(t)

	known := func(name string) bool { return name == "wave" }
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeSendMessage, proto.SendMessageData{
		Body: "hi :wave: :wave: :unknown:",
		ReplyTo: &proto.ReplyToData{
			DisplayName: "Bob",
			Body:        "earlier",
		},
	}), known)
	req.NoError(err)
	req.Nil(protoErr)
	req.Equal(core.CommandSendMessage, cmd.Kind)
	req.Equal(2, cmd.EmoteCount)
	req.NotNil(cmd.ReplyTo)
	req.Equal("Bob", cmd.ReplyTo.From)
}

func TestInboundTyping(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeTyping, proto.TypingData{IsTyping: true}), nil)
	require.NoError(t, err)
	require.Nil(t, protoErr)
	require.Equal(t, core.CommandSetTyping, cmd.Kind)
	require.True(t, cmd.IsTyping)
}

func TestInboundUnknownType(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(proto.Inbound{Type: "bogus"}, nil)
	require.NoError(t, err)
	require.Nil(t, cmd)
	require.NotNil(t, protoErr)
}

func TestOutboundNewMessage(t *testing.T) {
	req := require.New(t)

	now := time.Now()
	out := outboundFromEvent(&core.Event{
		Kind:    core.EventNewMessage,
		Channel: "general",
		Message: &core.Message{
			ID:        "123-abc",
			Channel:   "general",
			From:      "Ann",
			Color:     "#aaa",
			Body:      "hello",
			CreatedAt: now,
			ReplyTo:   &core.ReplyRef{From: "Bob", Body: "earlier", Color: "#bbb"},
		},
	})

	req.Equal(proto.OutboundTypeEvent, out.Type)
	req.Equal(proto.EventNewMessage, out.Event)
	data, ok := out.Data.(proto.MessageData)
	req.True(ok)
	req.Equal("Ann", data.DisplayName)
	req.Equal(now.Unix(), data.TS)
	req.NotNil(data.ReplyTo)
	req.Equal("Bob", data.ReplyTo.DisplayName)
}

func TestOutboundChannelInfo(t *testing.T) {
	req := require.New(t)

	out := outboundFromEvent(&core.Event{
		Kind:    core.EventChannelInfo,
		Channel: "general",
		Count:   2,
		Members: []core.MemberInfo{
			{Name: "Ann", Color: "#aaa", JoinedAt: time.Now()},
			{Name: "Bob", Color: "#bbb", JoinedAt: time.Now()},
		},
	})

	req.Equal(proto.EventChannelInfo, out.Event)
	data, ok := out.Data.(proto.ChannelInfoData)
	req.True(ok)
	req.Equal(2, data.Count)
	req.Len(data.Members, 2)
}

func TestOutboundError(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.RelayError{Code: core.ErrCodeNameTaken, Message: "taken"},
	})

	require.Equal(t, proto.OutboundTypeError, out.Type)
	require.Equal(t, core.ErrCodeNameTaken, out.Error.Code)
}

func TestOutboundTypingSnapshot(t *testing.T) {
	req := require.New(t)

	out := outboundFromEvent(&core.Event{
		Kind:    core.EventTyping,
		Channel: "general",
		Typing:  []core.TypingState{{Name: "Ann", Color: "#aaa"}},
	})

	req.Equal(proto.EventUserTyping, out.Event)
	data, ok := out.Data.(proto.UserTypingData)
	req.True(ok)
	req.Len(data.Typing, 1)
	req.Equal("Ann", data.Typing[0].DisplayName)
}
