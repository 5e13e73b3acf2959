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

// Package registry keeps the set of configured OBS endpoints, their sessions
// and the default selection.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/session"
)

const publishTimeout = 5 * time.Second

type entry struct {
	endpoint models.Endpoint
	session  *session.Session
}

// Registry is safe for concurrent use. Mutations hold the write lock for
// their whole duration, lookups share the read lock.
type Registry struct {
	store     Store
	transport session.Transport
	prober    session.Prober
	publisher EventPublisher
	cfg       session.Config
	logger    logger.Logger

	mu        sync.RWMutex
	entries   map[int64]*entry
	defaultID int64
}

type Option func(*Registry)

func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		r.logger = log
	}
}

// WithEventPublisher publishes state changes, e.g. to NATS.
func WithEventPublisher(p EventPublisher) Option {
	return func(r *Registry) {
		r.publisher = p
	}
}

func WithSessionConfig(cfg session.Config) Option {
	return func(r *Registry) {
		r.cfg = cfg
	}
}

func New(store Store, transport session.Transport, prober session.Prober, opts ...Option) *Registry {
	r := &Registry{
		store:     store,
		transport: transport,
		prober:    prober,
		cfg:       session.ConfigFromModel(models.SessionConfig{}),
		logger:    logger.NewTestLogger(),
		entries:   make(map[int64]*entry),
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// InitializeFromStore loads persisted endpoints, picks the default and
// reconnects the endpoints that were connected before. Reconnect failures are
// logged and the flag cleared; only a failing store read is returned.
func (r *Registry) InitializeFromStore(ctx context.Context) error {
	endpoints, err := r.store.ListEndpoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to load endpoints: %w", err)
	}

	var reconnect []*session.Session

	r.mu.Lock()
	r.entries = make(map[int64]*entry, len(endpoints))
	r.defaultID = 0

	for _, ep := range endpoints {
		e := &entry{endpoint: *ep}
		r.entries[ep.ID] = e

		if r.defaultID == 0 {
			r.defaultID = ep.ID
		}

		if ep.IsConnected {
			reconnect = append(reconnect, r.sessionLocked(e))
		}
	}

	if len(reconnect) > 0 {
		r.defaultID = reconnect[0].ID()
	}
	r.mu.Unlock()

	r.logger.Info().
		Int("endpoints", len(endpoints)).
		Int("reconnecting", len(reconnect)).
		Int64("default_id", r.defaultID).
		Msg("Loaded OBS endpoints")

	var g errgroup.Group

	for _, s := range reconnect {
		g.Go(func() error {
			if err := s.Connect(ctx); err != nil {
				r.logger.Warn().
					Int64("endpoint_id", s.ID()).
					Err(err).
					Msg("Could not restore OBS connection")

				if err := r.store.SetEndpointConnected(ctx, s.ID(), false, time.Now().UTC()); err != nil {
					r.logger.Error().Int64("endpoint_id", s.ID()).Err(err).Msg("Failed to clear connected flag")
				}
			}

			return nil
		})
	}

	_ = g.Wait()

	return nil
}

// sessionLocked returns the entry's session, creating it on first use.
// Requires r.mu held for writing.
func (r *Registry) sessionLocked(e *entry) *session.Session {
	if e.session == nil {
		e.session = session.New(e.endpoint.ID, session.Dependencies{
			Source:    r.store,
			Sink:      r,
			Transport: r.transport,
			Prober:    r.prober,
			Logger:    r.logger,
		}, r.cfg)
	}

	return e.session
}

// AddEndpoint validates and stores a new endpoint. The first endpoint
// becomes the default.
func (r *Registry) AddEndpoint(ctx context.Context, in *models.EndpointInput) (int64, error) {
	if err := ValidateEndpoint(in); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ep, err := r.store.CreateEndpoint(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("failed to create endpoint: %w", err)
	}

	r.entries[ep.ID] = &entry{endpoint: *ep}

	if r.defaultID == 0 {
		r.defaultID = ep.ID
	}

	r.logger.Info().
		Int64("endpoint_id", ep.ID).
		Str("name", ep.Name).
		Str("host", ep.Host).
		Int("port", ep.Port).
		Msg("Added OBS endpoint")

	return ep.ID, nil
}

// RemoveEndpoint closes the endpoint's session, deletes it and moves the
// default to the lowest remaining id.
func (r *Registry) RemoveEndpoint(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrEndpointNotFound, id)
	}

	r.retireSessionLocked(ctx, e)

	if err := r.store.DeleteEndpoint(ctx, id); err != nil {
		return fmt.Errorf("failed to delete endpoint %d: %w", id, err)
	}

	delete(r.entries, id)

	if r.defaultID == id {
		r.defaultID = r.lowestIDLocked()
	}

	r.logger.Info().Int64("endpoint_id", id).Int64("default_id", r.defaultID).Msg("Removed OBS endpoint")

	return nil
}

// UpdateEndpoint replaces connection parameters. The live session is closed
// and a fresh, disconnected one takes its place.
func (r *Registry) UpdateEndpoint(ctx context.Context, id int64, in *models.EndpointInput) error {
	if err := ValidateEndpoint(in); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrEndpointNotFound, id)
	}

	r.retireSessionLocked(ctx, e)

	ep, err := r.store.UpdateEndpoint(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update endpoint %d: %w", id, err)
	}

	e.endpoint = *ep

	r.logger.Info().Int64("endpoint_id", id).Msg("Updated OBS endpoint")

	return nil
}

func (r *Registry) retireSessionLocked(ctx context.Context, e *entry) {
	if e.session == nil {
		return
	}

	if err := e.session.Close(ctx); err != nil {
		r.logger.Warn().Int64("endpoint_id", e.endpoint.ID).Err(err).Msg("Error closing OBS session")
	}

	e.session = nil
}

func (r *Registry) lowestIDLocked() int64 {
	var lowest int64

	for id := range r.entries {
		if lowest == 0 || id < lowest {
			lowest = id
		}
	}

	return lowest
}

// Resolve returns the session for id, or for the default endpoint when id is nil.
func (r *Registry) Resolve(id *int64) (*session.Session, error) {
	r.mu.RLock()

	e, err := r.lookupLocked(id)
	if err != nil {
		r.mu.RUnlock()
		return nil, err
	}

	if s := e.session; s != nil {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	e, err = r.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	return r.sessionLocked(e), nil
}

func (r *Registry) lookupLocked(id *int64) (*entry, error) {
	if id == nil {
		if r.defaultID == 0 {
			return nil, ErrNoEndpointConfigured
		}

		return r.entries[r.defaultID], nil
	}

	e, ok := r.entries[*id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEndpointNotFound, *id)
	}

	return e, nil
}

// SetDefault makes id the target of requests that name no endpoint.
func (r *Registry) SetDefault(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEndpointNotFound, id)
	}

	r.defaultID = id

	return nil
}

// DefaultID returns the default endpoint id, 0 when there is none.
func (r *Registry) DefaultID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaultID
}

// Connect connects id, or the default endpoint when id is nil.
func (r *Registry) Connect(ctx context.Context, id *int64) error {
	s, err := r.Resolve(id)
	if err != nil {
		return err
	}

	return s.Connect(ctx)
}

func (r *Registry) Disconnect(ctx context.Context, id *int64) error {
	s, err := r.Resolve(id)
	if err != nil {
		return err
	}

	return s.Disconnect(ctx)
}

// ReleaseAll closes every session without touching the persisted connected
// flags, so InitializeFromStore restores them on the next start. Used on
// process exit.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var g errgroup.Group

	for id, e := range r.entries {
		if e.session == nil {
			continue
		}

		s := e.session
		e.session = nil

		g.Go(func() error {
			if err := s.Release(); err != nil {
				r.logger.Warn().Err(err).Int64("endpoint_id", id).Msg("Error releasing session")
			}

			return nil
		})
	}

	_ = g.Wait()
}

// List returns the status of every endpoint ordered by id.
func (r *Registry) List(_ context.Context) []models.EndpointStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.EndpointStatus, 0, len(ids))

	for _, id := range ids {
		e := r.entries[id]

		status := models.EndpointStatus{
			ID:              id,
			Name:            e.endpoint.Name,
			Host:            e.endpoint.Host,
			Port:            e.endpoint.Port,
			State:           session.StateDisconnected.String(),
			Default:         id == r.defaultID,
			LastConnectedAt: e.endpoint.LastConnectedAt,
		}

		if e.session != nil {
			snap := e.session.Snapshot()
			status.State = snap.State
			status.Connected = snap.State == session.StateConnected.String()
			status.ReconnectCount = snap.Attempts
			status.LastError = snap.LastError

			if snap.ConnectedAt != nil {
				status.LastConnectedAt = snap.ConnectedAt
			}
		}

		out = append(out, status)
	}

	return out
}

// SetConnected implements session.StatusSink. It is the only writer of the
// persisted connected flag. It never takes r.mu: sessions call it while
// being closed under the write lock.
func (r *Registry) SetConnected(ctx context.Context, id int64, connected bool, at time.Time) error {
	if err := r.store.SetEndpointConnected(ctx, id, connected, at); err != nil {
		return fmt.Errorf("failed to persist connection state of endpoint %d: %w", id, err)
	}

	if r.publisher == nil {
		return nil
	}

	data := &models.EndpointStateEventData{
		EndpointID:   id,
		CurrentState: session.StateDisconnected.String(),
		Connected:    connected,
		Timestamp:    at,
	}

	if connected {
		data.CurrentState = session.StateConnected.String()
		data.PreviousState = session.StateConnecting.String()
	} else {
		data.PreviousState = session.StateConnected.String()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.publisher.PublishEndpointState(pubCtx, data); err != nil {
		r.logger.Warn().Int64("endpoint_id", id).Err(err).Msg("Failed to publish endpoint state")
	}

	return nil
}
