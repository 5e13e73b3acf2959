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

package models

import "time"

// Endpoint is a configured OBS WebSocket server the panel can control.
type Endpoint struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Host            string     `json:"host"`
	Port            int        `json:"port"`
	Password        string     `json:"-" sensitive:"true"`
	IsConnected     bool       `json:"is_connected"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasPassword reports whether the endpoint requires authentication.
func (e *Endpoint) HasPassword() bool {
	return e != nil && e.Password != ""
}

// EndpointInput carries the administrator-owned fields of an endpoint.
type EndpointInput struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password,omitempty" sensitive:"true"`
}

// EndpointStatus is the per-endpoint row returned by status polling.
type EndpointStatus struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Host            string     `json:"host"`
	Port            int        `json:"port"`
	Connected       bool       `json:"connected"`
	State           string     `json:"state"`
	Default         bool       `json:"default"`
	ReconnectCount  int        `json:"reconnect_attempts"`
	LastError       string     `json:"last_error,omitempty"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
}
