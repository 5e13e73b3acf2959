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

const (
	CommandStatusSuccess = "success"
	CommandStatusError   = "error"
)

// CommandRecord is one audited control operation.
type CommandRecord struct {
	Command         string    `json:"command"`
	Parameters      string    `json:"parameters,omitempty"`
	Response        string    `json:"response,omitempty"`
	Status          string    `json:"status"`
	Outcome         string    `json:"outcome,omitempty"`
	ExecutionTimeMS int64     `json:"execution_time_ms"`
	UserID          *int64    `json:"user_id,omitempty"`
	EndpointID      *int64    `json:"endpoint_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
