// Groundcrew - Flight Ground Operations Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/groundcrew

package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/groundcrew/internal/config"
	"github.com/tomtom215/groundcrew/internal/logging"
	"github.com/tomtom215/groundcrew/internal/metrics"
	"github.com/tomtom215/groundcrew/internal/models"
)

var (
	// ErrFeedUnavailable is returned by Run when the retry budget is spent.
	ErrFeedUnavailable = errors.New("atc24 feed unavailable: reconnect attempts exhausted")

	// ErrAlreadyRunning is returned by Run while another loop is active.
	ErrAlreadyRunning = errors.New("atc24 feed client already running")
)

// State is the connection lifecycle state.
type State string

const (
	StateIdle        State = "idle"
	StateConnecting  State = "connecting"
	StateOpen        State = "open"
	StateClosed      State = "closed"
	StateUnavailable State = "unavailable"
)

// Dialer opens the upstream socket. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Config configures a Client.
type Config struct {
	URL              string
	Backoff          Backoff
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration // 0 disables the per-read deadline
}

// ConfigFrom maps the feed section of the application config.
func ConfigFrom(cfg config.FeedConfig) Config {
	return Config{
		URL: cfg.URL,
		Backoff: Backoff{
			Base:        cfg.ReconnectBaseDelay,
			Max:         cfg.ReconnectMaxDelay,
			MaxAttempts: cfg.MaxReconnectAttempts,
		},
		HandshakeTimeout: cfg.HandshakeTimeout,
		ReadTimeout:      cfg.ReadTimeout,
	}
}

// Option customises a Client.
type Option func(*Client)

// WithDialer replaces the gorilla dialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithAfterFunc replaces time.After for reconnect waits.
func WithAfterFunc(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Client) { c.after = after }
}

// WithClock replaces the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithCache shares an existing cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// Client maintains a single connection to the ATC24 push endpoint and fans
// decoded messages out to listeners.
type Client struct {
	cfg    Config
	dialer Dialer
	after  func(time.Duration) <-chan time.Time
	now    func() time.Time
	cache  *Cache

	// mu guards the connection handle, lifecycle state and attempt counter.
	mu       sync.Mutex
	conn     *websocket.Conn
	state    State
	attempts int
	since    time.Time
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}

	listenerMu sync.RWMutex
	listeners  map[uint64]Listener
	nextID     uint64
}

// NewClient creates an idle client. Nothing connects until Start or Run.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = DefaultBackoff()
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	c := &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: true,
		},
		after:     time.After,
		now:       time.Now,
		state:     StateIdle,
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	c.since = c.now()
	return c
}

// Cache returns the latest-value cache fed by this client.
func (c *Client) Cache() *Cache { return c.cache }

// Subscribe registers fn for every subsequent event. The returned function
// removes it and is safe to call more than once.
func (c *Client) Subscribe(fn Listener) func() {
	c.listenerMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenerMu.Lock()
			delete(c.listeners, id)
			c.listenerMu.Unlock()
		})
	}
}

func (c *Client) emit(ev Event) {
	c.listenerMu.RLock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.RUnlock()

	for _, fn := range fns {
		c.safeCall(fn, ev)
	}
}

func (c *Client) safeCall(fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().
				Str("component", "atc24").
				Str("event", string(ev.Kind())).
				Interface("panic", r).
				Msg("Feed listener panicked")
		}
	}()
	fn(ev)
}

// IsConnected reports whether a socket is currently open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.state == StateOpen
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the number of reconnects made since the last open socket.
func (c *Client) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Health summarises the connection for the health endpoint and the
// feed_status broadcast.
func (c *Client) Health() models.FeedHealth {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.FeedHealth{
		Status:    string(c.state),
		Connected: c.conn != nil && c.state == StateOpen,
		Attempts:  c.attempts,
		At:        c.since,
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.setStateLocked(s)
	c.mu.Unlock()
}

func (c *Client) setStateLocked(s State) {
	if c.state != s {
		c.state = s
		c.since = c.now()
	}
}

// begin claims the run slot and resets the budget.
func (c *Client) begin(parent context.Context) (context.Context, chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil, nil, ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(parent)
	c.running = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.attempts = 0
	c.setStateLocked(StateConnecting)
	return ctx, c.done, nil
}

func (c *Client) finish(done chan struct{}) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.running = false
	c.cancel = nil
	c.mu.Unlock()
	close(done)
}

// Start runs the connection loop in the background. It is a no-op while a
// loop is already active.
func (c *Client) Start() {
	ctx, done, err := c.begin(context.Background())
	if err != nil {
		return
	}
	go func() {
		defer c.finish(done)
		if err := c.loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn().Str("component", "atc24").Err(err).Msg("Feed loop ended")
		}
	}()
}

// Run connects and keeps reconnecting until ctx is cancelled, Stop is
// called, or the retry budget is exhausted (ErrFeedUnavailable).
func (c *Client) Run(ctx context.Context) error {
	runCtx, done, err := c.begin(ctx)
	if err != nil {
		return err
	}
	defer c.finish(done)
	return c.loop(runCtx)
}

// Stop cancels any pending reconnect, closes the socket and waits for the
// loop to exit.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	running := c.running
	c.mu.Unlock()

	if !running || cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Client) loop(ctx context.Context) error {
	log := logging.WithComponent("atc24")

	for {
		c.connectAndRead(ctx)

		if ctx.Err() != nil {
			c.setState(StateClosed)
			return ctx.Err()
		}

		c.mu.Lock()
		attempts := c.attempts
		c.mu.Unlock()

		if attempts >= c.cfg.Backoff.MaxAttempts {
			c.setState(StateUnavailable)
			metrics.FeedUnavailable.Inc()
			log.Error().Int("attempts", attempts).Msg("Max reconnection attempts reached for ATC24")
			c.emit(UnavailableEvent{Attempts: attempts, At: c.now()})
			return ErrFeedUnavailable
		}

		delay := c.cfg.Backoff.Delay(attempts)
		log.Info().
			Dur("delay", delay).
			Int("attempt", attempts+1).
			Msg("Reconnecting to ATC24")
		metrics.FeedReconnects.Inc()

		select {
		case <-c.after(delay):
		case <-ctx.Done():
			c.setState(StateClosed)
			return ctx.Err()
		}

		c.mu.Lock()
		c.attempts++
		c.mu.Unlock()
	}
}

// connectAndRead dials, then reads until the socket fails. It returns with
// no connection held.
func (c *Client) connectAndRead(ctx context.Context) {
	log := logging.WithComponent("atc24")

	c.setState(StateConnecting)
	conn, err := c.dial(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.setState(StateClosed)
		log.Warn().Err(err).Str("url", c.cfg.URL).Msg("Failed to connect to ATC24")
		c.emit(ErrorEvent{Err: err, At: c.now()})
		return
	}

	c.mu.Lock()
	c.conn = conn
	c.attempts = 0
	c.setStateLocked(StateOpen)
	c.mu.Unlock()

	metrics.SetFeedConnected(true)
	log.Info().Str("url", c.cfg.URL).Msg("Connected to ATC24 WebSocket")
	c.emit(ConnectedEvent{At: c.now()})

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, c.closeConnection)
	defer stop()

	for {
		if c.cfg.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
				log.Debug().Err(err).Msg("Failed to set read deadline")
			}
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.closeConnection()
			metrics.SetFeedConnected(false)
			if ctx.Err() != nil {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Msg("ATC24 WebSocket disconnected")
				return
			}
			log.Warn().Err(err).Msg("ATC24 WebSocket error")
			c.emit(ErrorEvent{Err: err, At: c.now()})
			return
		}

		c.handleMessage(data)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// handleMessage decodes one frame, updates the cache and notifies listeners.
// Bad frames are logged and dropped; the socket stays open.
func (c *Client) handleMessage(data []byte) {
	log := logging.WithComponent("atc24")

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		metrics.RecordFeedDropped("parse")
		log.Warn().Err(err).Int("bytes", len(data)).Msg("Error parsing ATC24 message")
		return
	}

	ev, err := decodeEvent(env, c.now())
	if err != nil {
		if errors.Is(err, errUnknownType) {
			metrics.RecordFeedDropped("unknown_type")
			log.Info().Str("type", env.T).Msg("Unknown ATC24 message type")
			return
		}
		metrics.RecordFeedDropped("invalid_payload")
		log.Warn().Err(err).Str("type", env.T).Msg("Dropping malformed ATC24 payload")
		return
	}

	c.cache.Apply(ev)
	metrics.RecordFeedMessage(env.T)
	c.emit(ev)
}

// closeConnection closes the socket if one is held.
func (c *Client) closeConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	); err != nil {
		logging.Debug().Err(err).Msg("Failed to send close message")
	}
	if err := c.conn.Close(); err != nil {
		logging.Debug().Err(err).Msg("Failed to close connection")
	}
	c.conn = nil
	c.setStateLocked(StateClosed)
}
