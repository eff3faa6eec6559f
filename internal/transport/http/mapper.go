package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay-server/internal/core"
	"github.com/vovakirdan/roomrelay-server/internal/proto"
	"github.com/vovakirdan/roomrelay-server/internal/validate"
)

// tokenPredicate answers whether an embedded token name is known to the
// emote catalog.
type tokenPredicate func(string) bool

// inboundToCommand maps a wire message to a core command. The embedded-token
// count is resolved here, on the connection's read goroutine, so the catalog
// is never consulted inside the hub loop.
func inboundToCommand(inbound proto.Inbound, known tokenPredicate) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.DisplayName == "" || join.ChannelName == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "displayName and channelName are required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandJoin,
			Name:    join.DisplayName,
			Channel: join.ChannelName,
		}, nil, nil
	case proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeave}, nil, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		cmd := &core.Command{
			Kind:       core.CommandSendMessage,
			Body:       msg.Body,
			EmoteCount: validate.CountEmoteTokens(msg.Body, known),
		}
		if msg.ReplyTo != nil {
			cmd.ReplyTo = &core.ReplyRef{From: msg.ReplyTo.DisplayName, Body: msg.ReplyTo.Body}
		}
		return cmd, nil, nil
	case proto.InboundTypeTyping:
		var typing proto.TypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandSetTyping, IsTyping: typing.IsTyping}, nil, nil
	case proto.InboundTypeGetUsers:
		return &core.Command{Kind: core.CommandListUsers}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinedChannel:
		return eventOutbound(proto.EventJoinedChannel, proto.JoinedChannelData{
			DisplayName: event.User,
			ChannelName: event.Channel,
			ColorTag:    event.Color,
		})
	case core.EventHistory:
		return eventOutbound(proto.EventMessageHistory, proto.MessageHistoryData{
			ChannelName: event.Channel,
			Messages:    lo.Map(event.Messages, func(m core.Message, _ int) proto.MessageData { return messageData(m) }),
		})
	case core.EventChannelInfo:
		return eventOutbound(proto.EventChannelInfo, proto.ChannelInfoData{
			ChannelName: event.Channel,
			Count:       event.Count,
			Members:     memberData(event.Members),
		})
	case core.EventUserJoined:
		return eventOutbound(proto.EventUserJoined, proto.UserJoinedData{
			DisplayName: event.User,
			Count:       event.Count,
			ColorTag:    event.Color,
		})
	case core.EventUserLeft:
		return eventOutbound(proto.EventUserLeft, proto.UserLeftData{
			DisplayName: event.User,
			Count:       event.Count,
			ColorTag:    event.Color,
		})
	case core.EventTyping:
		return eventOutbound(proto.EventUserTyping, proto.UserTypingData{
			ChannelName: event.Channel,
			Typing: lo.Map(event.Typing, func(t core.TypingState, _ int) proto.TypingUserData {
				return proto.TypingUserData{DisplayName: t.Name, ColorTag: t.Color}
			}),
		})
	case core.EventNewMessage:
		if event.Message == nil {
			return proto.Outbound{Type: proto.OutboundTypeEvent}
		}
		return eventOutbound(proto.EventNewMessage, messageData(*event.Message))
	case core.EventUsersList:
		return eventOutbound(proto.EventUsersList, proto.UsersListData{
			ChannelName: event.Channel,
			Count:       event.Count,
			Members:     memberData(event.Members),
		})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOutbound(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func messageData(m core.Message) proto.MessageData {
	data := proto.MessageData{
		ID:          m.ID,
		ChannelName: m.Channel,
		DisplayName: m.From,
		ColorTag:    m.Color,
		Body:        m.Body,
		TS:          m.CreatedAt.Unix(),
	}
	if m.ReplyTo != nil {
		data.ReplyTo = &proto.ReplySnapshotData{
			DisplayName: m.ReplyTo.From,
			Body:        m.ReplyTo.Body,
			ColorTag:    m.ReplyTo.Color,
		}
	}
	return data
}

func memberData(members []core.MemberInfo) []proto.MemberData {
	return lo.Map(members, func(m core.MemberInfo, _ int) proto.MemberData {
		return proto.MemberData{DisplayName: m.Name, ColorTag: m.Color, JoinedAt: m.JoinedAt.Unix()}
	})
}
