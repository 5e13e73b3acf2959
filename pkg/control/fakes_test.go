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

package control

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/registry"
	"github.com/carverauto/obsctl/pkg/session"
)

// remote answers requests by type. Values are encoded as the response
// payload; an error value is returned as is.
type remote map[string]interface{}

type scriptedConn struct {
	responses remote

	mu    sync.Mutex
	calls []string

	done chan struct{}
	once sync.Once
}

func (c *scriptedConn) Call(_ context.Context, requestType string, _, out interface{}) error {
	c.mu.Lock()
	c.calls = append(c.calls, requestType)
	c.mu.Unlock()

	resp, ok := c.responses[requestType]
	if !ok {
		return nil
	}

	if err, isErr := resp.(error); isErr {
		return err
	}

	if out == nil {
		return nil
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, out)
}

func (c *scriptedConn) Done() <-chan struct{} { return c.done }

func (c *scriptedConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *scriptedConn) called(requestType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rt := range c.calls {
		if rt == requestType {
			return true
		}
	}

	return false
}

func (c *scriptedConn) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.calls)
}

type scriptedTransport struct {
	dials atomic.Int32
	err   error
	conn  *scriptedConn
}

func (t *scriptedTransport) Dial(context.Context, *models.Endpoint) (session.Conn, error) {
	t.dials.Add(1)

	if t.err != nil {
		return nil, t.err
	}

	return t.conn, nil
}

type stubProber struct {
	result probe.Result
}

func (p stubProber) Probe(_ context.Context, host string, port int, _ time.Duration) probe.Result {
	r := p.result
	r.Host, r.Port = host, port

	return r
}

var openPort = stubProber{result: probe.Result{Reachable: true, PortOpen: true, Reason: probe.ReasonNone}}

type harness struct {
	svc       *Service
	reg       *registry.Registry
	store     *registry.MockStore
	audit     *MockAuditWriter
	transport *scriptedTransport
	conn      *scriptedConn
}

var studio = &models.Endpoint{ID: 1, Name: "Studio", Host: "127.0.0.1", Port: 4455}

// newHarness builds a service over a real registry. With endpoint set, one
// endpoint is registered as the default.
func newHarness(t *testing.T, endpoint bool, responses remote, prober session.Prober) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &harness{
		store: registry.NewMockStore(ctrl),
		audit: NewMockAuditWriter(ctrl),
		conn:  &scriptedConn{responses: responses, done: make(chan struct{})},
	}
	h.transport = &scriptedTransport{conn: h.conn}

	h.store.EXPECT().FindEndpoint(gomock.Any(), studio.ID).Return(studio, nil).AnyTimes()
	h.store.EXPECT().SetEndpointConnected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	h.reg = registry.New(h.store, h.transport, prober, registry.WithSessionConfig(session.Config{
		ReconnectInterval:    time.Hour,
		MaxReconnectAttempts: 1,
		ProbeTimeout:         time.Second,
		RequestTimeout:       time.Second,
		MediaKinds:           []string{"ffmpeg_source", "vlc_source"},
	}))

	if endpoint {
		h.store.EXPECT().CreateEndpoint(gomock.Any(), gomock.Any()).Return(studio, nil)

		_, err := h.reg.AddEndpoint(context.Background(), &models.EndpointInput{
			Name: studio.Name, Host: studio.Host, Port: studio.Port,
		})
		if err != nil {
			t.Fatalf("add endpoint: %v", err)
		}
	}

	h.svc = NewService(h.reg, WithAuditWriter(h.audit))

	t.Cleanup(func() {
		h.reg.ReleaseAll()
		h.svc.Wait()
	})

	return h
}

// anyAudit accepts every command record.
func (h *harness) anyAudit() {
	h.audit.EXPECT().AppendCommandRecord(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (h *harness) connect(t *testing.T) {
	t.Helper()

	resp := h.svc.Execute(context.Background(), Request{Operation: OpConnect})
	if !resp.Success {
		t.Fatalf("connect failed: %s", resp.Message)
	}
}
