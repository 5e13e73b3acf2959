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

// Package probe checks whether an OBS WebSocket port accepts TCP connections
// and explains what is wrong when it does not.
package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/carverauto/obsctl/pkg/logger"
)

const (
	// DefaultTimeout bounds a full diagnostic probe.
	DefaultTimeout = 5 * time.Second
	// QuickTimeout bounds the pre-flight probe run before every connect.
	QuickTimeout = 5 * time.Second
	// DefaultPort is the port obs-websocket v5 listens on out of the box.
	DefaultPort = 4455
)

// Result describes a single reachability check.
type Result struct {
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	Reachable bool          `json:"reachable"`
	PortOpen  bool          `json:"port_open"`
	Reason    Reason        `json:"reason"`
	Latency   time.Duration `json:"latency"`
	Err       error         `json:"-"`
}

// Error returns a *ProbeError describing the failure, or nil when the port is open.
func (r Result) Error() error {
	if r.PortOpen {
		return nil
	}

	return &ProbeError{Reason: r.Reason, Host: r.Host, Port: r.Port, Err: r.Err}
}

// Prober performs TCP reachability checks. The zero value is not usable, use NewProber.
type Prober struct {
	logger logger.Logger
	dialer net.Dialer
}

func NewProber(log logger.Logger) *Prober {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Prober{logger: log}
}

// Probe dials host:port once. The whole check never runs longer than timeout
// (DefaultTimeout when zero) and the probe socket is always closed.
func (p *Prober) Probe(ctx context.Context, host string, port int, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := Result{Host: host, Port: port}
	start := time.Now()

	conn, err := p.dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	result.Latency = time.Since(start)

	if err != nil {
		result.Err = err
		result.Reason = classify(probeCtx, err)
		result.Reachable = result.Reason == ReasonRefused

		p.logger.Debug().
			Str("host", host).
			Int("port", port).
			Str("reason", string(result.Reason)).
			Err(err).
			Msg("Probe failed")

		return result
	}

	if err := conn.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close probe connection")
	}

	result.Reachable = true
	result.PortOpen = true
	result.Reason = ReasonNone

	return result
}

func classify(probeCtx context.Context, err error) Reason {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ReasonRefused
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return ReasonUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && (dnsErr.IsNotFound || dnsErr.IsTimeout) {
		return ReasonUnreachable
	}

	if errors.Is(probeCtx.Err(), context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}

	return ReasonUnknown
}
