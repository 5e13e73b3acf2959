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
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/registry"
	"github.com/carverauto/obsctl/pkg/session"
)

// ErrorKind classifies a failed operation for callers that map outcomes to
// their own status codes.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindValidation     ErrorKind = "validation"
	KindNoEndpoint     ErrorKind = "no_endpoint"
	KindNotFound       ErrorKind = "not_found"
	KindNotConnected   ErrorKind = "not_connected"
	KindUnreachable    ErrorKind = "unreachable"
	KindAuth           ErrorKind = "auth"
	KindTimeout        ErrorKind = "timeout"
	KindBusy           ErrorKind = "busy"
	KindUnsupported    ErrorKind = "unsupported"
	KindSourceNotFound ErrorKind = "source_not_found"
	KindRemote         ErrorKind = "remote"
	KindInternal       ErrorKind = "internal"
)

const (
	msgNotConnected   = "OBS is not connected, please connect first"
	msgNoEndpoint     = "No OBS connection configured"
	msgNotFound       = "OBS connection not found"
	msgAuthFailed     = "authentication failed, check the WebSocket password"
	msgTimeout        = "OBS did not respond in time"
	msgBusy           = "a connection attempt is already in progress"
	msgSourceNotFound = "source not found in the current scene"
)

// UsageError rejects a request before it reaches a session.
type UsageError struct {
	Operation Operation
	Message   string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usage(op Operation, format string, args ...interface{}) error {
	return &UsageError{Operation: op, Message: fmt.Sprintf(format, args...)}
}

// Translate maps an error from the registry, a session or the prober to its
// kind and a message fit for an operator.
func Translate(err error) (ErrorKind, string) {
	if err == nil {
		return KindNone, ""
	}

	var (
		usageErr    *UsageError
		validation  *registry.ValidationError
		probeErr    *probe.ProbeError
		unsupported *session.UnsupportedSourceKindError
		remoteErr   *session.RemoteError
	)

	switch {
	case errors.As(err, &usageErr):
		return KindValidation, usageErr.Message
	case errors.As(err, &validation):
		return KindValidation, validation.Message
	case errors.Is(err, registry.ErrNoEndpointConfigured):
		return KindNoEndpoint, msgNoEndpoint
	case errors.Is(err, registry.ErrEndpointNotFound), errors.Is(err, session.ErrSessionClosed):
		return KindNotFound, msgNotFound
	case errors.Is(err, session.ErrNotConnected):
		return KindNotConnected, msgNotConnected
	case errors.Is(err, session.ErrAuthenticationFailed):
		return KindAuth, msgAuthFailed
	case errors.As(err, &probeErr):
		return KindUnreachable, probeMessage(probeErr)
	case errors.Is(err, session.ErrTimeout):
		return KindTimeout, msgTimeout
	case errors.Is(err, session.ErrConnectInProgress):
		return KindBusy, msgBusy
	case errors.As(err, &unsupported):
		return KindUnsupported, fmt.Sprintf("%q is a %s source and does not support media controls",
			unsupported.Source, unsupported.Kind)
	case errors.Is(err, session.ErrSourceNotInScene):
		return KindSourceNotFound, msgSourceNotFound
	case errors.As(err, &remoteErr):
		if remoteErr.Message == "" {
			return KindRemote, fmt.Sprintf("OBS says: request failed with status %d", remoteErr.Code)
		}

		return KindRemote, "OBS says: " + remoteErr.Message
	default:
		return KindInternal, err.Error()
	}
}

func probeMessage(e *probe.ProbeError) string {
	addr := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))

	switch e.Reason {
	case probe.ReasonRefused:
		return fmt.Sprintf("connection refused on %s, make sure the WebSocket server is enabled in OBS", addr)
	case probe.ReasonTimeout:
		return fmt.Sprintf("connection to %s timed out, a firewall may be blocking the port", addr)
	case probe.ReasonUnreachable:
		return fmt.Sprintf("host %s is unreachable, check the address and network", e.Host)
	case probe.ReasonNone, probe.ReasonUnknown:
	}

	return fmt.Sprintf("could not reach OBS at %s", addr)
}
