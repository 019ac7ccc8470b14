package com

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/api"
	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	"github.com/daryl-piggybanx/streamlift/pkg/network/websocket"
	"github.com/goccy/go-json"
)

type (
	Connector struct {
		wu *websocket.Upgrader
	}
	Client struct {
		conn     *websocket.WS
		queue    map[string]*call
		onPacket func(packet api.In)
		mu       sync.Mutex
	}
	call struct {
		done     chan struct{}
		err      error
		Response api.In
	}
	Option = func(c *Connector)
)

var (
	errConnClosed = errors.New("connection closed")
	errTimeout    = errors.New("timeout")
)

var outPool = sync.Pool{New: func() any { o := api.Out{}; return &o }}

func WithOrigin(url string) Option { return func(c *Connector) { c.wu = websocket.NewUpgrader(url) } }

const callTimeout = 10 * time.Second

func NewConnector(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	if c.wu == nil {
		c.wu = &websocket.DefaultUpgrader
	}
	return c
}

func (co *Connector) NewServer(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*Client, error) {
	ws, err := co.wu.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return connect(websocket.NewServerWithConn(ws, log))
}

func (co *Connector) NewClient(address url.URL, log *logger.Logger) (*Client, error) {
	return connect(websocket.NewClient(address, log))
}

func connect(conn *websocket.WS, err error) (*Client, error) {
	if err != nil {
		return nil, err
	}
	client := &Client{conn: conn, queue: make(map[string]*call, 1)}
	client.conn.SetMessageHandler(client.handleMessage)
	return client, nil
}

func (c *Client) OnPacket(fn func(packet api.In)) { c.mu.Lock(); c.onPacket = fn; c.mu.Unlock() }

func (c *Client) Listen() chan struct{} { return c.conn.Listen() }

func (c *Client) Close() {
	c.conn.Close()
	c.drain(errConnClosed)
}

// Call sends a packet and blocks until a response with the same id
// arrives or the call times out.
func (c *Client) Call(type_ api.PT, payload any) ([]byte, error) {
	id := NewUid()
	rq := outPool.Get().(*api.Out)
	rq.Id, rq.T, rq.Payload = id, uint8(type_), payload
	r, err := json.Marshal(rq)
	outPool.Put(rq)
	if err != nil {
		return nil, err
	}

	task := &call{done: make(chan struct{})}
	c.mu.Lock()
	c.queue[id] = task
	c.mu.Unlock()
	c.conn.Write(r)
	select {
	case <-task.done:
	case <-time.After(callTimeout):
		c.pop(id)
		task.err = errTimeout
	}
	return task.Response.Payload, task.err
}

// Send writes a packet without waiting for any response.
func (c *Client) Send(type_ api.PT, pl any) error {
	rq := outPool.Get().(*api.Out)
	rq.Id, rq.T, rq.Payload = "", uint8(type_), pl
	defer outPool.Put(rq)
	return c.SendPacket(rq)
}

// Route replies to the p packet (keeps its id).
func (c *Client) Route(p api.In, pl any) error {
	rq := outPool.Get().(*api.Out)
	rq.Id, rq.T, rq.Payload = p.Id, uint8(p.T), pl
	defer outPool.Put(rq)
	return c.SendPacket(rq)
}

func (c *Client) SendPacket(packet *api.Out) error {
	r, err := json.Marshal(packet)
	if err != nil {
		return err
	}
	c.conn.Write(r)
	return nil
}

func (c *Client) handleMessage(message []byte, err error) {
	if err != nil {
		c.drain(err)
		return
	}

	var res api.In
	if err = json.Unmarshal(message, &res); err != nil {
		return
	}

	// empty id implies that we won't track (wait) the response
	if res.Id != "" {
		if task := c.pop(res.Id); task != nil {
			task.Response = res
			close(task.done)
			return
		}
	}
	c.mu.Lock()
	fn := c.onPacket
	c.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// pop extracts and removes a task from the queue by its id.
func (c *Client) pop(id string) *call {
	c.mu.Lock()
	task := c.queue[id]
	delete(c.queue, id)
	c.mu.Unlock()
	return task
}

// drain cancels all what's left in the task queue.
func (c *Client) drain(err error) {
	c.mu.Lock()
	for id, task := range c.queue {
		delete(c.queue, id)
		if task.err == nil {
			task.err = err
		}
		close(task.done)
	}
	c.mu.Unlock()
}
