package websocket

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 10 * 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	readWait       = 120 * time.Second
	writeWait      = 10 * time.Second
)

type WS struct {
	conn      deadlinedConn
	send      chan []byte
	once      sync.Once
	onMessage MessageHandler
	pingPong  bool
	done      chan struct{}
	log       *logger.Logger
}

type MessageHandler func(message []byte, err error)

type Upgrader struct {
	websocket.Upgrader
}

var DefaultUpgrader = Upgrader{
	Upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteBufferPool: &sync.Pool{},
	},
}

func NewUpgrader(origin string) *Upgrader {
	u := DefaultUpgrader
	if origin == "*" {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return &u
}

// NewServerWithConn wraps an already upgraded connection.
// Server sockets ping their peers.
func NewServerWithConn(conn *websocket.Conn, log *logger.Logger) (*WS, error) {
	return newSocket(conn, true, log)
}

func NewClient(address url.URL, log *logger.Logger) (*WS, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address.String(), nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, false, log)
}

func newSocket(conn *websocket.Conn, pingPong bool, log *logger.Logger) (*WS, error) {
	if conn == nil {
		return nil, errors.New("no connection")
	}
	safeConn := deadlinedConn{sock: conn, wt: writeWait}
	return &WS{
		conn:     safeConn,
		send:     make(chan []byte, 1),
		pingPong: pingPong,
		done:     make(chan struct{}),
		log:      log,
	}, nil
}

func (ws *WS) SetMessageHandler(fn MessageHandler) { ws.onMessage = fn }

// Listen starts the read/write pumps.
// The returned channel closes when the socket is fully shut.
func (ws *WS) Listen() chan struct{} {
	shut := &sync.WaitGroup{}
	shut.Add(2)
	go ws.writer(shut)
	go ws.reader(shut)
	go func() {
		shut.Wait()
		_ = ws.conn.close()
		close(ws.done)
	}()
	return ws.done
}

// reader pumps messages from the websocket connection to the onMessage callback.
// Serializes all websocket reads.
func (ws *WS) reader(shut *sync.WaitGroup) {
	defer func() {
		ws.closeSend()
		shut.Done()
	}()
	ws.conn.sock.SetReadLimit(maxMessageSize)
	if ws.pingPong {
		_ = ws.conn.sock.SetReadDeadline(time.Now().Add(pongTime))
		ws.conn.sock.SetPongHandler(func(string) error {
			return ws.conn.sock.SetReadDeadline(time.Now().Add(pongTime))
		})
	}
	for {
		_, message, err := ws.conn.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Error().Err(err).Msg("[ws] read fail")
			}
			if ws.onMessage != nil {
				ws.onMessage(nil, err)
			}
			return
		}
		if ws.onMessage != nil {
			ws.onMessage(message, nil)
		}
	}
}

// writer pumps messages from the send channel to the websocket connection.
// Serializes all websocket writes.
func (ws *WS) writer(shut *sync.WaitGroup) {
	// a nil channel leaves the ping arm dormant on client sockets
	var ping <-chan time.Time
	if ws.pingPong {
		ticker := time.NewTicker(pingTime)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer shut.Done()
	for {
		select {
		case message, ok := <-ws.send:
			if !ok {
				_ = ws.conn.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ping:
			if err := ws.conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ws *WS) Write(data []byte) {
	defer func() { recover() }() // drop writes to a closed socket
	ws.send <- data
}

func (ws *WS) Close() {
	_ = ws.conn.sock.SetReadDeadline(time.Now())
	ws.closeSend()
}

func (ws *WS) closeSend() { ws.once.Do(func() { close(ws.send) }) }
