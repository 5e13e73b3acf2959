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

package session

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
)

type handlerFunc func(ctx context.Context, requestType string, data interface{}) (interface{}, error)

type fakeConn struct {
	handler handlerFunc

	mu    sync.Mutex
	calls []string

	done      chan struct{}
	closeOnce sync.Once
}

func newFakeConn(h handlerFunc) *fakeConn {
	if h == nil {
		h = func(context.Context, string, interface{}) (interface{}, error) { return nil, nil }
	}

	return &fakeConn{handler: h, done: make(chan struct{})}
}

func (c *fakeConn) Call(ctx context.Context, requestType string, data, out interface{}) error {
	c.mu.Lock()
	c.calls = append(c.calls, requestType)
	c.mu.Unlock()

	select {
	case <-c.done:
		return ErrConnectionLost
	default:
	}

	resp, err := c.handler(ctx, requestType, data)
	if err != nil {
		return err
	}

	if out == nil || resp == nil {
		return nil
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, out)
}

func (c *fakeConn) Done() <-chan struct{} {
	return c.done
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// drop simulates the remote going away.
func (c *fakeConn) drop() {
	_ = c.Close()
}

func (c *fakeConn) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.calls...)
}

type fakeTransport struct {
	dials atomic.Int32
	// dial decides the outcome of the n-th (1-based) dial.
	dial func(ctx context.Context, n int) (Conn, error)
}

func (t *fakeTransport) Dial(ctx context.Context, _ *models.Endpoint) (Conn, error) {
	n := int(t.dials.Add(1))
	return t.dial(ctx, n)
}

type statusCall struct {
	connected bool
	at        time.Time
}

type fakeSink struct {
	// gate, when set, runs before a write is recorded, simulating a slow store.
	gate func(connected bool)

	mu    sync.Mutex
	calls []statusCall
}

func (s *fakeSink) SetConnected(_ context.Context, _ int64, connected bool, at time.Time) error {
	if s.gate != nil {
		s.gate(connected)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, statusCall{connected: connected, at: at})

	return nil
}

func (s *fakeSink) States() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bool, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.connected)
	}

	return out
}

type fakeSource struct{}

func (fakeSource) FindEndpoint(_ context.Context, id int64) (*models.Endpoint, error) {
	return &models.Endpoint{ID: id, Name: "studio", Host: "127.0.0.1", Port: probe.DefaultPort}, nil
}

type fakeProber struct {
	result probe.Result
}

func (p fakeProber) Probe(_ context.Context, host string, port int, _ time.Duration) probe.Result {
	r := p.result
	r.Host, r.Port = host, port

	return r
}

var openPort = fakeProber{result: probe.Result{Reachable: true, PortOpen: true, Reason: probe.ReasonNone}}

func testConfig() Config {
	return Config{
		ReconnectInterval:    10 * time.Millisecond,
		MaxReconnectAttempts: 3,
		ProbeTimeout:         time.Second,
		RequestTimeout:       time.Second,
		MediaKinds:           models.DefaultMediaKinds,
	}
}

func newTestSession(transport Transport, sink *fakeSink, prober Prober, cfg Config) *Session {
	return New(1, Dependencies{
		Source:    fakeSource{},
		Sink:      sink,
		Transport: transport,
		Prober:    prober,
	}, cfg)
}

// connectedSession returns a connected session whose connection answers with h.
func connectedSession(h handlerFunc) (*Session, *fakeConn, *fakeSink) {
	conn := newFakeConn(h)
	sink := &fakeSink{}
	transport := &fakeTransport{dial: func(context.Context, int) (Conn, error) { return conn, nil }}

	s := newTestSession(transport, sink, openPort, testConfig())
	if err := s.Connect(context.Background()); err != nil {
		panic(err)
	}

	return s, conn, sink
}
