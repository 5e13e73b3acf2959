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
	"errors"
	"fmt"
)

var (
	ErrNotConnected         = errors.New("not connected")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTimeout              = errors.New("request timed out")
	ErrConnectInProgress    = errors.New("connection attempt already in progress")
	ErrSessionClosed        = errors.New("session closed")
	ErrConnectionLost       = errors.New("connection lost")
	ErrSourceNotInScene     = errors.New("source not found in scene")
	errConnectSuperseded    = errors.New("connection attempt superseded")
	errNoAudio              = errors.New("input has no audio")
)

// Request status codes the remote uses for outputs already in the requested
// state, and for lookups of things that do not exist.
const (
	StatusOutputRunning    = 500
	StatusOutputNotRunning = 501
	StatusResourceNotFound = 600
)

// RemoteError is a request the remote rejected.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote request failed with status %d", e.Code)
	}

	return fmt.Sprintf("remote request failed with status %d: %s", e.Code, e.Message)
}

// UnsupportedSourceKindError is returned for media actions against inputs
// that have no media transport.
type UnsupportedSourceKindError struct {
	Source string
	Kind   string
}

func (e *UnsupportedSourceKindError) Error() string {
	return fmt.Sprintf("source %q of kind %q does not support media controls", e.Source, e.Kind)
}

func isRemoteStatus(err error, code int) bool {
	var remoteErr *RemoteError

	return errors.As(err, &remoteErr) && remoteErr.Code == code
}
