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
	"time"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
)

// Conn is one authenticated connection to a remote control server.
type Conn interface {
	// Call performs requestType with data and decodes the response payload
	// into out (which may be nil). A rejected request returns *RemoteError.
	Call(ctx context.Context, requestType string, data, out interface{}) error
	// Done is closed once the connection is gone, for whatever reason.
	Done() <-chan struct{}
	Close() error
}

// Transport dials and authenticates connections. Authentication failures
// must wrap ErrAuthenticationFailed.
type Transport interface {
	Dial(ctx context.Context, endpoint *models.Endpoint) (Conn, error)
}

// EndpointSource looks up the current connection parameters of an endpoint.
type EndpointSource interface {
	FindEndpoint(ctx context.Context, id int64) (*models.Endpoint, error)
}

// StatusSink records connected/disconnected transitions.
type StatusSink interface {
	SetConnected(ctx context.Context, id int64, connected bool, at time.Time) error
}

// Prober checks reachability before dialing.
type Prober interface {
	Probe(ctx context.Context, host string, port int, timeout time.Duration) probe.Result
}
