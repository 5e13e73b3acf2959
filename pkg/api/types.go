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

package api

import (
	"time"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/probe"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string            `json:"error"`
	Kind  control.ErrorKind `json:"kind,omitempty"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Connections int       `json:"connections"`
	Connected   int       `json:"connected"`
	Timestamp   time.Time `json:"timestamp"`
}

type ConnectionResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// OutputActionRequest starts or stops the stream or recording output.
type OutputActionRequest struct {
	Action       string `json:"action"`
	ConnectionID *int64 `json:"connection_id,omitempty"`
}

type DiagnosticsResponse struct {
	Diagnostics probe.Diagnostics  `json:"diagnostics"`
	CommonPorts []probe.PortResult `json:"common_ports,omitempty"`
	QuickTest   bool               `json:"quick_test,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

// ChatRequest carries one relayed chat message.
type ChatRequest struct {
	Text   string `json:"text"`
	UserID *int64 `json:"user_id,omitempty"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestConnectionRequest carries connection parameters that are not saved.
type TestConnectionRequest struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password,omitempty" sensitive:"true"`
}
