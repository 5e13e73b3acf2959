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
	"fmt"
	"net"
	"strconv"
)

// Reason classifies why a probe did not find an open port.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonRefused     Reason = "refused"
	ReasonTimeout     Reason = "timeout"
	ReasonUnreachable Reason = "unreachable"
	ReasonUnknown     Reason = "unknown"
)

// ProbeError is returned when a target failed its reachability check.
type ProbeError struct {
	Reason Reason
	Host   string
	Port   int
	Err    error
}

func (e *ProbeError) Error() string {
	addr := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))

	switch e.Reason {
	case ReasonRefused:
		return fmt.Sprintf("connection refused on %s, the OBS WebSocket server may not be running", addr)
	case ReasonTimeout:
		return fmt.Sprintf("connection to %s timed out", addr)
	case ReasonUnreachable:
		return fmt.Sprintf("host %s is unreachable", e.Host)
	case ReasonNone:
		return fmt.Sprintf("%s is reachable", addr)
	case ReasonUnknown:
	}

	if e.Err != nil {
		return fmt.Sprintf("failed to reach %s: %v", addr, e.Err)
	}

	return fmt.Sprintf("failed to reach %s", addr)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
