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

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/session"
)

// memStore is an in-memory Store for lifecycle tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Endpoint
	// flagWrites records every SetEndpointConnected call in order.
	flagWrites []bool
}

func newMemStore(seed ...*models.Endpoint) *memStore {
	s := &memStore{rows: make(map[int64]*models.Endpoint)}

	for _, ep := range seed {
		cp := *ep
		s.rows[ep.ID] = &cp

		if ep.ID > s.nextID {
			s.nextID = ep.ID
		}
	}

	return s
}

func (s *memStore) FindEndpoint(_ context.Context, id int64) (*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	cp := *ep

	return &cp, nil
}

func (s *memStore) ListEndpoints(_ context.Context) ([]*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Endpoint, 0, len(s.rows))
	for _, ep := range s.rows {
		cp := *ep
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *memStore) CreateEndpoint(_ context.Context, in *models.EndpointInput) (*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	ep := &models.Endpoint{
		ID: s.nextID, Name: in.Name, Host: in.Host, Port: in.Port, Password: in.Password,
		CreatedAt: now, UpdatedAt: now,
	}
	s.rows[ep.ID] = ep

	cp := *ep

	return &cp, nil
}

func (s *memStore) UpdateEndpoint(_ context.Context, id int64, in *models.EndpointInput) (*models.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	ep.Name, ep.Host, ep.Port, ep.Password = in.Name, in.Host, in.Port, in.Password
	ep.IsConnected = false
	ep.LastConnectedAt = nil
	ep.UpdatedAt = time.Now().UTC()

	cp := *ep

	return &cp, nil
}

func (s *memStore) DeleteEndpoint(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	delete(s.rows, id)

	return nil
}

func (s *memStore) SetEndpointConnected(_ context.Context, id int64, connected bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flagWrites = append(s.flagWrites, connected)

	ep, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	ep.IsConnected = connected
	if connected {
		ep.LastConnectedAt = &at
	}

	return nil
}

func (s *memStore) writes() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]bool(nil), s.flagWrites...)
}

func (s *memStore) connected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.rows[id]

	return ok && ep.IsConnected
}

type stubConn struct {
	done chan struct{}
	once sync.Once
}

func (c *stubConn) Call(context.Context, string, interface{}, interface{}) error { return nil }
func (c *stubConn) Done() <-chan struct{}                                      { return c.done }
func (c *stubConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

type stubTransport struct {
	mu    sync.Mutex
	fail  error
	conns map[int64][]*stubConn
}

func newStubTransport() *stubTransport {
	return &stubTransport{conns: make(map[int64][]*stubConn)}
}

func (t *stubTransport) Dial(_ context.Context, ep *models.Endpoint) (session.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fail != nil {
		return nil, t.fail
	}

	c := &stubConn{done: make(chan struct{})}
	t.conns[ep.ID] = append(t.conns[ep.ID], c)

	return c, nil
}

func (t *stubTransport) last(id int64) *stubConn {
	t.mu.Lock()
	defer t.mu.Unlock()

	conns := t.conns[id]
	if len(conns) == 0 {
		return nil
	}

	return conns[len(conns)-1]
}

func (t *stubTransport) dials(id int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.conns[id])
}

type openProber struct{}

func (openProber) Probe(_ context.Context, host string, port int, _ time.Duration) probe.Result {
	return probe.Result{Host: host, Port: port, Reachable: true, PortOpen: true, Reason: probe.ReasonNone}
}

func fastSessions() session.Config {
	return session.Config{
		ReconnectInterval:    5 * time.Millisecond,
		MaxReconnectAttempts: 3,
		ProbeTimeout:         time.Second,
		RequestTimeout:       time.Second,
	}
}

func input(name string) *models.EndpointInput {
	return &models.EndpointInput{Name: name, Host: "127.0.0.1", Port: 4455}
}
