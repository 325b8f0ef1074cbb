// Package events maintains the push subscription that delivers mission
// lifecycle events. It speaks Socket.IO v4 text frames over a websocket and
// reconnects with jittered exponential backoff until its context ends.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler receives the first argument of a push event
type Handler func(payload json.RawMessage)

// Config holds push channel configuration
type Config struct {
	URL       string // push server address, http(s) or ws(s)
	Path      string // Socket.IO endpoint path
	Namespace string

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// Reconnection settings (exponential backoff)
	InitialRetryDelay time.Duration
	MaxRetryDelay     time.Duration
	BackoffMultiplier float64
	JitterPercent     float64
}

// DefaultConfig mirrors the socket.io client reconnection defaults
func DefaultConfig(rawURL string) Config {
	return Config{
		URL:               rawURL,
		Path:              "/socket.io/",
		Namespace:         "/",
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
		InitialRetryDelay: 1 * time.Second,
		MaxRetryDelay:     5 * time.Second,
		BackoffMultiplier: 2.0,
		JitterPercent:     0.5,
	}
}

type subscription struct {
	id uint64
	fn Handler
}

// Channel is a long-lived push subscription. Handlers are invoked one at a
// time on the reader goroutine, in the order frames arrive.
type Channel struct {
	config Config
	dialer *websocket.Dialer

	mu         sync.RWMutex
	handlers   map[string][]subscription
	nextID     uint64
	connected  bool
	retryDelay time.Duration
}

// New creates a channel. Nothing is dialed until Run is called.
func New(config Config) *Channel {
	if config.Path == "" {
		config.Path = "/socket.io/"
	}
	if config.Namespace == "" {
		config.Namespace = "/"
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 1
	}
	return &Channel{
		config:     config,
		dialer:     &websocket.Dialer{HandshakeTimeout: config.HandshakeTimeout},
		handlers:   make(map[string][]subscription),
		retryDelay: config.InitialRetryDelay,
	}
}

// Subscribe registers h for event. The returned func removes exactly this
// registration and is safe to call more than once.
func (c *Channel) Subscribe(event string, h Handler) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, fn: h})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			subs := c.handlers[event]
			for i, s := range subs {
				if s.id == id {
					c.handlers[event] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(c.handlers[event]) == 0 {
				delete(c.handlers, event)
			}
		})
	}
}

// Off removes every handler registered for event
func (c *Channel) Off(event string) {
	c.mu.Lock()
	delete(c.handlers, event)
	c.mu.Unlock()
}

// Handlers returns the number of handlers registered for event
func (c *Channel) Handlers(event string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers[event])
}

// Connected reports whether the websocket is currently open
func (c *Channel) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Run keeps the subscription alive until ctx is done
func (c *Channel) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, hs, err := c.connect(ctx)
		if err != nil {
			zap.S().Warnw("failed to connect to push channel", "url", c.config.URL, "error", err)
			if !c.waitWithBackoff(ctx) {
				return ctx.Err()
			}
			continue
		}

		c.mu.Lock()
		c.retryDelay = c.config.InitialRetryDelay
		c.mu.Unlock()

		err = c.serve(ctx, conn, hs)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		zap.S().Infow("push channel disconnected, reconnecting", "error", err)
		if !c.waitWithBackoff(ctx) {
			return ctx.Err()
		}
	}
}

func (c *Channel) endpoint() (string, error) {
	u, err := url.Parse(c.config.URL)
	if err != nil {
		return "", fmt.Errorf("parse push url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported push url scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = c.config.Path
	}
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// connect dials, reads the engine open packet and joins the namespace
func (c *Channel) connect(ctx context.Context) (*websocket.Conn, handshake, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, handshake{}, err
	}
	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, handshake{}, fmt.Errorf("dial failed: %w", err)
	}

	if c.config.HandshakeTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.config.HandshakeTimeout))
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("read open packet: %w", err)
	}
	f, err := decodeFrame(string(data))
	if err != nil || f.Engine != engineOpen {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("expected open packet, got %q", string(data))
	}
	var hs handshake
	if err := json.Unmarshal([]byte(f.Data), &hs); err != nil {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("decode open packet: %w", err)
	}

	if err := c.write(conn, encodeConnect(c.config.Namespace)); err != nil {
		conn.Close()
		return nil, handshake{}, fmt.Errorf("join namespace: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	zap.S().Infow("connected to push channel", "url", c.config.URL, "sid", hs.SID)
	return conn, hs, nil
}

// serve reads frames until the connection drops or ctx is done. Only this
// goroutine writes to conn.
func (c *Channel) serve(ctx context.Context, conn *websocket.Conn, hs handshake) error {
	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	timeout := time.Duration(hs.PingInterval+hs.PingTimeout) * time.Millisecond
	for {
		if timeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(timeout))
		} else {
			_ = conn.SetReadDeadline(time.Time{})
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f, err := decodeFrame(string(data))
		if err != nil {
			zap.S().Debugw("dropping undecodable frame", "error", err)
			continue
		}

		switch f.Engine {
		case enginePing:
			if err := c.write(conn, encodePong(f.Data)); err != nil {
				return err
			}
		case engineClose:
			return errors.New("server closed the session")
		case engineMessage:
			if f.Namespace != c.config.Namespace {
				continue
			}
			switch f.Socket {
			case socketEvent:
				ev, err := decodeEvent(f.Data)
				if err != nil {
					zap.S().Debugw("dropping malformed event", "error", err)
					continue
				}
				c.dispatch(ev)
			case socketConnect:
				zap.S().Debugw("joined push namespace", "namespace", f.Namespace)
			case socketConnectError:
				return fmt.Errorf("namespace rejected: %s", f.Data)
			case socketDisconnect:
				return errors.New("namespace disconnected by server")
			}
		}
	}
}

func (c *Channel) dispatch(ev Event) {
	c.mu.RLock()
	subs := append([]subscription(nil), c.handlers[ev.Name]...)
	c.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev.Payload)
	}
}

func (c *Channel) write(conn *websocket.Conn, text string) error {
	if c.config.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// waitWithBackoff sleeps for the current retry delay with jitter and grows
// the delay for the next attempt. It returns false when ctx ends first.
func (c *Channel) waitWithBackoff(ctx context.Context) bool {
	c.mu.Lock()
	current := c.retryDelay
	next := time.Duration(float64(current) * c.config.BackoffMultiplier)
	if next > c.config.MaxRetryDelay {
		next = c.config.MaxRetryDelay
	}
	c.retryDelay = next
	c.mu.Unlock()

	jitter := current.Seconds() * c.config.JitterPercent * (rand.Float64()*2 - 1)
	delay := current + time.Duration(jitter*float64(time.Second))
	if delay < 0 {
		delay = 0
	}

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
