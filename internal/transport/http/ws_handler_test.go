package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay-server/internal/config"
	"github.com/vovakirdan/roomrelay-server/internal/core"
	"github.com/vovakirdan/roomrelay-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(nil, core.DefaultOptions(), &logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	server := NewServer(hub, nil, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readEvent reads outbound frames until one carries the wanted event name.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for {
		var out struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if out.Type == proto.OutboundTypeError {
			t.Fatalf("unexpected error waiting for %s: %+v", event, out.Error)
		}
		if out.Event == event {
			return out.Data
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndMessage(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{DisplayName: "alice", ChannelName: "general"})
	readEvent(t, ctx, connA, proto.EventJoinedChannel)

	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{DisplayName: "bob", ChannelName: "general"})
	readEvent(t, ctx, connB, proto.EventJoinedChannel)

	// Alice sees bob arrive before any message flows.
	readEvent(t, ctx, connA, proto.EventUserJoined)

	sendInbound(t, ctx, connA, proto.InboundTypeSendMessage, proto.SendMessageData{Body: "hi there"})

	var msg proto.MessageData
	if err := json.Unmarshal(readEvent(t, ctx, connB, proto.EventNewMessage), &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.DisplayName != "alice" || msg.Body != "hi there" || msg.ChannelName != "general" {
		t.Fatalf("unexpected message payload: %+v", msg)
	}
	if msg.ColorTag == "" {
		t.Fatal("expected a color tag on the message")
	}
}

func TestWebSocketNameTaken(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{DisplayName: "alice", ChannelName: "general"})
	readEvent(t, ctx, connA, proto.EventJoinedChannel)

	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{DisplayName: "ALICE", ChannelName: "general"})

	var out struct {
		Type  string       `json:"type"`
		Error *proto.Error `json:"error"`
	}
	if err := wsjson.Read(ctx, connB, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != core.ErrCodeNameTaken {
		t.Fatalf("expected name_taken error, got %+v", out)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{DisplayName: "alice", ChannelName: "general"})
	readEvent(t, ctx, conn, proto.EventJoinedChannel)

	resp, err := ts.Client().Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	defer resp.Body.Close()

	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Channels != 1 || stats.Sessions != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
