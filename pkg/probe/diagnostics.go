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
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// CommonPorts are the ports OBS WebSocket setups are usually found on.
var CommonPorts = []int{DefaultPort, 4466, 4444}

// Diagnostics is a probe result plus plain-text advice for the operator.
type Diagnostics struct {
	Result
	WebSocket       *Handshake `json:"websocket,omitempty"`
	Recommendations []string   `json:"recommendations"`
	CheckedAt       time.Time  `json:"checked_at"`
}

// Diagnose runs a full probe against host:port and, when the port is open,
// checks that it answers with an obs-websocket Hello.
func (p *Prober) Diagnose(ctx context.Context, host string, port int) Diagnostics {
	result := p.Probe(ctx, host, port, DefaultTimeout)

	var hs *Handshake

	if result.PortOpen {
		h := p.CheckHandshake(ctx, host, port, HandshakeTimeout)
		hs = &h
	}

	return Diagnostics{
		Result:          result,
		WebSocket:       hs,
		Recommendations: RecommendHandshake(result, hs),
		CheckedAt:       time.Now().UTC(),
	}
}

// RecommendHandshake extends Recommend with the outcome of CheckHandshake.
// A nil handshake falls back to Recommend.
func RecommendHandshake(r Result, hs *Handshake) []string {
	if hs == nil || !r.PortOpen {
		return Recommend(r)
	}

	var out []string

	switch {
	case !hs.Ready:
		out = append(out,
			fmt.Sprintf("Port %d is open but not responding as OBS WebSocket", r.Port),
			"Another program may be listening on this port, check the server port configured in OBS",
			"Make sure the OBS version ships obs-websocket 5.x",
		)
	case hs.AuthRequired:
		out = append(out,
			fmt.Sprintf("OBS WebSocket %s is answering on port %d", hs.Version, r.Port),
			"The server requires a password, make sure it matches the one set in OBS",
		)
	default:
		out = append(out,
			fmt.Sprintf("OBS WebSocket %s is answering on port %d", hs.Version, r.Port),
			"Authentication is disabled in OBS, connect without a password",
		)
	}

	return appendPortHint(out, r.Port)
}

// Recommend turns a probe result into troubleshooting steps.
func Recommend(r Result) []string {
	var out []string

	switch r.Reason {
	case ReasonNone:
		out = append(out,
			fmt.Sprintf("Port %d is open and accepting connections", r.Port),
			"If connecting still fails, check the WebSocket server password in OBS",
			"Make sure the OBS version ships obs-websocket 5.x",
		)
	case ReasonRefused:
		out = append(out,
			fmt.Sprintf("Host %s answered but nothing is listening on port %d", r.Host, r.Port),
			"Open OBS and enable Tools > WebSocket Server Settings > Enable WebSocket server",
			"Confirm the server port configured in OBS matches this connection",
		)
	case ReasonTimeout:
		out = append(out,
			fmt.Sprintf("Connection to %s:%d timed out", r.Host, r.Port),
			fmt.Sprintf("A firewall is probably filtering port %d, allow inbound TCP on the OBS machine", r.Port),
			"If OBS runs behind a router, forward the port to the OBS machine",
		)
	case ReasonUnreachable:
		out = append(out,
			fmt.Sprintf("Host %s is not reachable", r.Host),
			"Check that the address is correct and the OBS machine is online",
			"Verify network routing, VPN or proxy settings between this server and OBS",
		)
	case ReasonUnknown:
		out = append(out, "The connection failed for an unexpected reason")
		if r.Err != nil {
			out = append(out, fmt.Sprintf("Error: %v", r.Err))
		}
	}

	return appendPortHint(out, r.Port)
}

func appendPortHint(out []string, port int) []string {
	if port != DefaultPort {
		out = append(out, fmt.Sprintf("OBS WebSocket listens on port %d by default", DefaultPort))
	}

	return out
}

// PortResult is one entry of a common-port scan.
type PortResult struct {
	Port   int    `json:"port"`
	Open   bool   `json:"open"`
	Reason Reason `json:"reason"`
}

// ScanCommonPorts probes CommonPorts on host concurrently. Results are in
// CommonPorts order.
func (p *Prober) ScanCommonPorts(ctx context.Context, host string) []PortResult {
	results := make([]PortResult, len(CommonPorts))

	var g errgroup.Group

	for i, port := range CommonPorts {
		g.Go(func() error {
			r := p.Probe(ctx, host, port, QuickTimeout)
			results[i] = PortResult{Port: port, Open: r.PortOpen, Reason: r.Reason}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
