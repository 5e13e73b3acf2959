/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package session manages one supervised, authenticated connection to an OBS
// instance and exposes typed operations on top of it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

// State is the lifecycle state of a session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const statusWriteTimeout = 5 * time.Second

// Config tunes a session.
type Config struct {
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
	ProbeTimeout         time.Duration
	RequestTimeout       time.Duration
	MediaKinds           []string
}

// ConfigFromModel converts the service configuration, applying defaults.
func ConfigFromModel(c models.SessionConfig) Config {
	c.ApplyDefaults()

	return Config{
		ReconnectInterval:    time.Duration(c.ReconnectInterval),
		MaxReconnectAttempts: c.MaxReconnectAttempts,
		ProbeTimeout:         time.Duration(c.ProbeTimeout),
		RequestTimeout:       time.Duration(c.RequestTimeout),
		MediaKinds:           c.MediaKinds,
	}
}

// Dependencies are the collaborators a session talks to.
type Dependencies struct {
	Source    EndpointSource
	Sink      StatusSink
	Transport Transport
	Prober    Prober
	Logger    logger.Logger
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	EndpointID  int64      `json:"endpoint_id"`
	State       string     `json:"state"`
	Attempts    int        `json:"reconnect_attempts"`
	LastError   string     `json:"last_error,omitempty"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

// Session owns at most one live connection to one endpoint.
type Session struct {
	id         int64
	deps       Dependencies
	cfg        Config
	logger     logger.Logger
	mediaKinds map[string]struct{}

	mu          sync.Mutex
	state       State
	conn        Conn
	attempts    int
	lastErr     error
	connecting  bool
	closed      bool
	connectedAt time.Time
	// epoch changes on every explicit Connect, Disconnect and Close. Attempts
	// started under an older epoch must not install their connection.
	epoch            uint64
	supervisorCancel context.CancelFunc
	supervisorDone   chan struct{}

	// statusDirty and statusWriting coalesce StatusSink writes so that the
	// persisted flag always ends at the in-memory state. released suppresses
	// writes after Release.
	statusDirty   bool
	statusWriting bool
	released      bool
}

// New returns a disconnected session for endpoint id.
func New(id int64, deps Dependencies, cfg Config) *Session {
	if deps.Logger == nil {
		deps.Logger = logger.NewTestLogger()
	}

	kinds := cfg.MediaKinds
	if len(kinds) == 0 {
		kinds = models.DefaultMediaKinds
	}

	mediaKinds := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		mediaKinds[strings.ToLower(k)] = struct{}{}
	}

	return &Session{
		id:         id,
		deps:       deps,
		cfg:        cfg,
		logger:     deps.Logger,
		mediaKinds: mediaKinds,
		state:      StateDisconnected,
	}
}

func (s *Session) ID() int64 {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Connected() bool {
	return s.State() == StateConnected
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		EndpointID: s.id,
		State:      s.state.String(),
		Attempts:   s.attempts,
	}

	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}

	if !s.connectedAt.IsZero() {
		at := s.connectedAt
		snap.ConnectedAt = &at
	}

	return snap
}

// Connect establishes a new connection, replacing any existing one. A running
// reconnection supervisor is stopped and its attempt counter reset.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	if s.connecting {
		s.mu.Unlock()
		return ErrConnectInProgress
	}

	s.connecting = true
	s.epoch++
	epoch := s.epoch
	s.attempts = 0
	stop := s.detachSupervisorLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
	}()

	stop()

	err := s.establish(ctx, epoch, StateConnecting)
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch && s.conn == nil {
			s.state = StateDisconnected
			s.lastErr = err
		}
		s.mu.Unlock()

		s.logger.Warn().
			Int64("endpoint_id", s.id).
			Err(err).
			Msg("Connect failed")

		return err
	}

	return nil
}

// Disconnect stops any reconnection and closes the connection. It is a no-op
// on a session that is already disconnected.
func (s *Session) Disconnect(ctx context.Context) error {
	return s.shutdown(ctx, false, true)
}

// Close disconnects and retires the session. Later calls return ErrSessionClosed.
func (s *Session) Close(ctx context.Context) error {
	return s.shutdown(ctx, true, true)
}

// Release retires the session without recording the disconnect, so the
// persisted flag still says what to restore on the next start.
func (s *Session) Release() error {
	return s.shutdown(context.Background(), true, false)
}

func (s *Session) shutdown(ctx context.Context, retire, report bool) error {
	s.mu.Lock()
	s.epoch++
	stop := s.detachSupervisorLocked()
	conn := s.conn
	wasConnected := s.state == StateConnected
	s.conn = nil
	s.state = StateDisconnected
	s.attempts = 0

	if retire {
		s.closed = true
	}

	if !report {
		s.released = true
	}
	s.mu.Unlock()

	stop()

	var closeErr error
	if conn != nil {
		closeErr = conn.Close()
	}

	if wasConnected && report {
		s.syncStatus(ctx)
	}

	if wasConnected {
		s.logger.Info().Int64("endpoint_id", s.id).Msg("Disconnected")
	}

	return closeErr
}

// establish runs one probe+dial attempt. The new connection is only installed
// while epoch is still current.
func (s *Session) establish(ctx context.Context, epoch uint64, during State) error {
	ep, err := s.deps.Source.FindEndpoint(ctx, s.id)
	if err != nil {
		return fmt.Errorf("load endpoint %d: %w", s.id, err)
	}

	result := s.deps.Prober.Probe(ctx, ep.Host, ep.Port, s.cfg.ProbeTimeout)
	if !result.PortOpen {
		return result.Error()
	}

	if prev := s.takeConn(epoch, during); prev != nil {
		if err := prev.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("failed to close previous connection")
		}

		s.syncStatus(ctx)
	}

	conn, err := s.deps.Transport.Dial(ctx, ep)
	if err != nil {
		return err
	}

	s.mu.Lock()

	if s.closed || s.epoch != epoch || ctx.Err() != nil {
		s.mu.Unlock()

		_ = conn.Close()

		return errConnectSuperseded
	}

	s.conn = conn
	s.state = StateConnected
	s.attempts = 0
	s.lastErr = nil
	s.connectedAt = time.Now().UTC()
	s.mu.Unlock()

	s.syncStatus(ctx)

	go s.watch(conn)

	s.logger.Info().
		Int64("endpoint_id", s.id).
		Str("host", ep.Host).
		Int("port", ep.Port).
		Msg("Connected to OBS")

	return nil
}

// takeConn moves the session into state and detaches the current connection
// if epoch is still current.
func (s *Session) takeConn(epoch uint64, state State) Conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return nil
	}

	prev := s.conn
	s.conn = nil
	s.state = state

	return prev
}

// watch waits for conn to go away. Connections closed on purpose are no
// longer current by then and are ignored.
func (s *Session) watch(conn Conn) {
	<-conn.Done()

	s.mu.Lock()

	if s.conn != conn {
		s.mu.Unlock()
		return
	}

	s.conn = nil
	s.state = StateDisconnected
	s.lastErr = ErrConnectionLost
	epoch := s.epoch
	s.mu.Unlock()

	s.syncStatus(context.Background())

	s.logger.Warn().
		Int64("endpoint_id", s.id).
		Msg("Connection to OBS lost")

	s.startSupervisor(epoch)
}

// syncStatus writes the current connected state to the sink. Only one
// write runs at a time; callers arriving during a write mark the status
// dirty and the running writer repeats with the newer state, so a slow
// "connected" write can never land after a later "disconnected" one.
func (s *Session) syncStatus(ctx context.Context) {
	if s.deps.Sink == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusDirty = true
	if s.statusWriting {
		return
	}

	s.statusWriting = true
	defer func() { s.statusWriting = false }()

	for s.statusDirty && !s.released {
		s.statusDirty = false
		connected := s.state == StateConnected && s.conn != nil

		s.mu.Unlock()
		s.writeStatus(ctx, connected)
		s.mu.Lock()
	}
}

func (s *Session) writeStatus(ctx context.Context, connected bool) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if err := s.deps.Sink.SetConnected(writeCtx, s.id, connected, time.Now().UTC()); err != nil {
		s.logger.Error().
			Int64("endpoint_id", s.id).
			Bool("connected", connected).
			Err(err).
			Msg("Failed to record connection state")
	}
}

// activeConn returns the live connection or the reason there is none.
func (s *Session) activeConn() (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	if s.state != StateConnected || s.conn == nil {
		return nil, ErrNotConnected
	}

	return s.conn, nil
}

// call performs one request on the live connection. Without a caller
// deadline the configured request timeout applies. Timeouts leave the
// session state untouched.
func (s *Session) call(ctx context.Context, requestType string, data, out interface{}) error {
	conn, err := s.activeConn()
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok && s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	err = conn.Call(ctx, requestType, data, out)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", requestType, ErrTimeout)
	case errors.Is(err, ErrConnectionLost):
		return fmt.Errorf("%s: %w: %w", requestType, ErrNotConnected, err)
	default:
		return fmt.Errorf("%s: %w", requestType, err)
	}
}
