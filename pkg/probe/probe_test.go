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

package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLocal(t *testing.T) (net.Listener, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestProbeOpenPort(t *testing.T) {
	ln, port := listenLocal(t)
	defer func() { _ = ln.Close() }()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	r := NewProber(nil).Probe(context.Background(), "127.0.0.1", port, time.Second)

	assert.True(t, r.Reachable)
	assert.True(t, r.PortOpen)
	assert.Equal(t, ReasonNone, r.Reason)
	assert.NoError(t, r.Error())
}

func TestProbeClosedLocalPort(t *testing.T) {
	ln, port := listenLocal(t)
	require.NoError(t, ln.Close())

	r := NewProber(nil).Probe(context.Background(), "127.0.0.1", port, time.Second)

	assert.True(t, r.Reachable, "a refused connection proves the host is up")
	assert.False(t, r.PortOpen)
	assert.Equal(t, ReasonRefused, r.Reason)

	var probeErr *ProbeError
	require.ErrorAs(t, r.Error(), &probeErr)
	assert.Equal(t, ReasonRefused, probeErr.Reason)
	assert.Contains(t, probeErr.Error(), "refused")
}

func TestProbeNonRoutableRespectsBound(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a non-routable address")
	}

	const bound = 500 * time.Millisecond

	start := time.Now()
	r := NewProber(nil).Probe(context.Background(), "10.255.255.1", DefaultPort, bound)
	elapsed := time.Since(start)

	assert.False(t, r.Reachable)
	assert.False(t, r.PortOpen)
	assert.Contains(t, []Reason{ReasonTimeout, ReasonUnreachable}, r.Reason)
	assert.Less(t, elapsed, bound+time.Second)
}

func TestProbeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewProber(nil).Probe(ctx, "127.0.0.1", DefaultPort, time.Second)

	assert.False(t, r.PortOpen)
	assert.False(t, r.Reachable)
}

func TestClassify(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want Reason
	}{
		{
			name: "dns not found",
			ctx:  context.Background(),
			err:  &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "obs.invalid", IsNotFound: true}},
			want: ReasonUnreachable,
		},
		{
			name: "deadline",
			ctx:  expired,
			err:  &net.OpError{Op: "dial", Err: errors.New("i/o timeout")},
			want: ReasonTimeout,
		},
		{
			name: "other",
			ctx:  context.Background(),
			err:  errors.New("boom"),
			want: ReasonUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.ctx, tt.err))
		})
	}
}
