// Package stream owns the live feed: the websocket connection state machine,
// the server-push fallback transport, and the frame router that fans inbound
// messages out to their typed consumers.
package stream

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"go.uber.org/zap"
)

// fallbackAdvice is appended to terminal connection errors so the embedding
// application knows to switch to polling.
const fallbackAdvice = "live stream unavailable, falling back to polling is advised"

// OnFrame receives each raw inbound frame in delivery order.
type OnFrame func(frame []byte)

// OnStateChange is notified on every connection state transition, with a
// human-readable message for the error state.
type OnStateChange func(state types.ConnectionState, message string)

// Client owns one live websocket session per (symbol, timeframe) pair.
//
// State machine: disconnected -> connecting -> {connected, error};
// connected -> disconnected. The error state is sticky until Connect is
// called again. Connect never blocks; progress is observed through the
// OnStateChange callback.
type Client struct {
	config  Config
	onFrame OnFrame
	onState OnStateChange
	log     *logger.Logger

	mu         sync.Mutex
	state      types.ConnectionState
	stateMsg   string
	conn       *websocket.Conn
	graceTimer *time.Timer
	sessionID  string
	symbol     string
	timeframe  string
	// generation invalidates callbacks from torn-down sessions: the grace
	// timer, the dial goroutine and the read loop all check it before acting.
	generation uint64

	// pendingStates queues observer notifications so they are delivered in
	// transition order by a single goroutine.
	pendingStates []stateChange
	notifying     bool
}

// stateChange is one queued observer notification.
type stateChange struct {
	state   types.ConnectionState
	message string
}

// NewClient creates a client. The config is validated eagerly, but a missing
// endpoint is deliberately legal here and only fails at Connect time.
func NewClient(config Config, onFrame OnFrame, onState OnStateChange, log *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid stream config", err)
	}

	return &Client{
		config:     config,
		onFrame:    onFrame,
		onState:    onState,
		log:        log,
		state:      types.ConnectionStateDisconnected,
		stateMsg:   "",
		conn:       nil,
		graceTimer: nil,
		sessionID:  "",
		symbol:     "",
		timeframe:  "",
		generation: 0,
	}, nil
}

// State returns the current connection state and its message.
func (c *Client) State() (types.ConnectionState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.stateMsg
}

// Connect opens one session for the given symbol and timeframe.
//
// It is a no-op while already connected. A missing endpoint fails fast to the
// error state without any transport attempt. Otherwise the dial happens in
// the background under a grace timer: if the session has not reached the
// connected state before the timer fires, it is forcibly torn down and the
// state becomes error with polling fallback advised.
func (c *Client) Connect(symbol, timeframe string) error {
	c.mu.Lock()

	if c.state == types.ConnectionStateConnected {
		c.mu.Unlock()

		return nil
	}

	if c.config.EndpointURL == "" {
		err := errors.New(errors.ErrCodeEndpointNotConfigured,
			"websocket endpoint is not configured; "+fallbackAdvice)
		c.setStateLocked(types.ConnectionStateError, err.Message)
		c.mu.Unlock()

		return err
	}

	// A fresh session always starts from a clean slate.
	c.teardownLocked()

	c.generation++
	gen := c.generation
	c.symbol = symbol
	c.timeframe = timeframe
	c.sessionID = uuid.NewString()
	c.setStateLocked(types.ConnectionStateConnecting, "")

	c.graceTimer = time.AfterFunc(c.config.graceTimeout(), func() {
		c.onGraceTimeout(gen)
	})

	endpoint := c.config.EndpointURL
	sessionID := c.sessionID
	c.mu.Unlock()

	c.log.Info("opening live feed session",
		zap.String("session_id", sessionID),
		zap.String("symbol", symbol),
		zap.String("timeframe", timeframe),
	)

	go c.dial(gen, endpoint, symbol, timeframe)

	return nil
}

// ChangeSubscription sends an updated subscription frame over the live
// session instead of reopening it. While not connected it is a no-op and the
// caller must reconnect.
func (c *Client) ChangeSubscription(symbol, timeframe string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != types.ConnectionStateConnected || c.conn == nil {
		return errors.New(errors.ErrCodeNotConnected, "cannot change subscription without a live session")
	}

	request := SubscriptionRequest{Symbol: symbol, Timeframe: timeframe}
	if err := c.conn.WriteJSON(request); err != nil {
		return errors.Wrap(errors.ErrCodeSubscribeFailed, "failed to send subscription frame", err)
	}

	c.symbol = symbol
	c.timeframe = timeframe

	c.log.Info("subscription changed",
		zap.String("session_id", c.sessionID),
		zap.String("symbol", symbol),
		zap.String("timeframe", timeframe),
	)

	return nil
}

// Subscription returns the symbol and timeframe of the current session.
func (c *Client) Subscription() (symbol, timeframe string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.symbol, c.timeframe
}

// Disconnect tears the session down. It is idempotent: it cancels any pending
// grace timer, closes the transport if open, clears the session handle and
// transitions to the disconnected state, so a subsequent Connect always
// creates a fresh session.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.teardownLocked()
	c.setStateLocked(types.ConnectionStateDisconnected, "")
}

// dial opens the transport off the caller's goroutine.
func (c *Client) dial(gen uint64, endpoint, symbol, timeframe string) {
	conn, resp, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c.mu.Lock()

	if gen != c.generation {
		// The session was torn down (timeout or explicit disconnect) while
		// the dial was in flight.
		c.mu.Unlock()

		if conn != nil {
			conn.Close()
		}

		return
	}

	if err != nil {
		c.stopGraceTimerLocked()
		c.setStateLocked(types.ConnectionStateError,
			errors.Wrap(errors.ErrCodeDialFailed, fallbackAdvice, err).Error())
		c.mu.Unlock()

		return
	}

	c.conn = conn
	c.stopGraceTimerLocked()

	// The initial subscription frame carries the current pair.
	request := SubscriptionRequest{Symbol: symbol, Timeframe: timeframe}
	if err := conn.WriteJSON(request); err != nil {
		c.teardownLocked()
		c.setStateLocked(types.ConnectionStateError,
			errors.Wrap(errors.ErrCodeSubscribeFailed, fallbackAdvice, err).Error())
		c.mu.Unlock()

		return
	}

	c.setStateLocked(types.ConnectionStateConnected, "")
	c.mu.Unlock()

	c.readLoop(gen, conn)
}

// readLoop delivers frames in transport order until the session ends.
func (c *Client) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()

			if gen == c.generation {
				c.teardownLocked()
				c.setStateLocked(types.ConnectionStateError,
					errors.Wrap(errors.ErrCodeTransportClosed, fallbackAdvice, err).Error())
			}

			c.mu.Unlock()

			return
		}

		if c.onFrame != nil {
			c.onFrame(frame)
		}
	}
}

// onGraceTimeout forcibly ends a connection attempt that never reached the
// connected state within the grace period.
func (c *Client) onGraceTimeout(gen uint64) {
	c.mu.Lock()

	if gen != c.generation || c.state != types.ConnectionStateConnecting {
		c.mu.Unlock()

		return
	}

	c.generation++
	c.teardownLocked()
	c.setStateLocked(types.ConnectionStateError,
		errors.New(errors.ErrCodeConnectTimeout, "connection grace period elapsed; "+fallbackAdvice).Message)
	c.mu.Unlock()
}

// teardownLocked releases the timer and transport handle. Callers hold c.mu.
func (c *Client) teardownLocked() {
	c.stopGraceTimerLocked()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.sessionID = ""
}

func (c *Client) stopGraceTimerLocked() {
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
}

// setStateLocked records a transition and queues the observer notification.
// Callers hold c.mu. Notifications are drained by one goroutine in transition
// order, off the lock, so observers can call back into the client safely and
// can reconstruct the state machine from what they receive.
func (c *Client) setStateLocked(state types.ConnectionState, message string) {
	if c.state == state && c.stateMsg == message {
		return
	}

	c.state = state
	c.stateMsg = message

	if state == types.ConnectionStateError {
		c.log.Warn("live feed session failed", zap.String("message", message))
	}

	if c.onState == nil {
		return
	}

	c.pendingStates = append(c.pendingStates, stateChange{state: state, message: message})

	if !c.notifying {
		c.notifying = true

		go c.notifyLoop()
	}
}

// notifyLoop delivers queued state notifications one at a time and exits once
// the queue is empty.
func (c *Client) notifyLoop() {
	for {
		c.mu.Lock()

		if len(c.pendingStates) == 0 {
			c.notifying = false
			c.mu.Unlock()

			return
		}

		next := c.pendingStates[0]
		c.pendingStates = c.pendingStates[1:]
		c.mu.Unlock()

		c.onState(next.state, next.message)
	}
}
