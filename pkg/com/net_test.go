package com

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/daryl-piggybanx/streamlift/pkg/api"
	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/daryl-piggybanx/streamlift/pkg/network/websocket"
)

func TestPackets(t *testing.T) {
	r, err := json.Marshal(api.Out{Payload: "asd"})
	if err != nil {
		t.Fatalf("can't marshal packet")
	}
	t.Logf("PACKET: %v", string(r))
}

type echoServer struct {
	mu   sync.Mutex
	conn *websocket.WS
	done chan struct{}
}

func (s *echoServer) serve(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.DefaultUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("no socket, %v", err)
			return
		}
		sock, err := websocket.NewServerWithConn(conn, logger.Default())
		if err != nil {
			t.Errorf("couldn't init socket server: %v", err)
			return
		}
		s.mu.Lock()
		s.conn = sock
		s.conn.SetMessageHandler(func(m []byte, err error) {
			if err != nil {
				return
			}
			s.conn.Write(m)
		})
		s.done = s.conn.Listen()
		s.mu.Unlock()
	}
}

func TestCallRoundTrip(t *testing.T) {
	server := &echoServer{}
	srv := httptest.NewServer(server.serve(t))
	defer srv.Close()

	addr, _ := url.Parse(srv.URL)
	client, err := NewConnector().NewClient(url.URL{Scheme: "ws", Host: addr.Host}, logger.Default())
	if err != nil {
		t.Fatalf("couldn't connect to %v: %v", addr.Host, err)
	}
	clDone := client.Listen()

	payloads := []string{"test", "", strings.Repeat("x", 1024)}

	var wg sync.WaitGroup
	for _, pl := range payloads {
		for i := 0; i < 8; i++ {
			pl := pl
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, err := client.Call(api.GetSession, pl)
				if err != nil {
					t.Errorf("call: %v", err)
					return
				}
				var got string
				if err := json.Unmarshal(data, &got); err != nil {
					t.Errorf("can't unmarshal %s", data)
					return
				}
				if got != pl {
					t.Errorf("echo = %q, want %q", got, pl)
				}
			}()
		}
	}
	wg.Wait()

	client.Close()
	<-clDone
}

func TestCallDrainOnClose(t *testing.T) {
	server := &echoServer{}
	srv := httptest.NewServer(server.serve(t))
	defer srv.Close()

	addr, _ := url.Parse(srv.URL)
	client, err := NewConnector().NewClient(url.URL{Scheme: "ws", Host: addr.Host}, logger.Default())
	if err != nil {
		t.Fatal(err)
	}
	client.Listen()

	// a call queued after close must fail, not hang
	client.Close()
	task := &call{done: make(chan struct{})}
	client.mu.Lock()
	client.queue["z"] = task
	client.mu.Unlock()
	client.drain(errConnClosed)
	<-task.done
	if task.err == nil {
		t.Errorf("drained call carries no error")
	}
}

func TestUid(t *testing.T) {
	a, b := NewUid(), NewUid()
	if a == "" || b == "" {
		t.Fatalf("empty uid")
	}
	if a == b {
		t.Errorf("uids collide: %v", a)
	}
	if len(a) != len(b) {
		t.Errorf("uid lengths differ: %q %q", a, b)
	}
}
