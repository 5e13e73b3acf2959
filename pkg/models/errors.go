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

import "errors"

var (
	// ErrEndpointNotFound is returned by stores and the registry for unknown endpoint ids.
	ErrEndpointNotFound = errors.New("endpoint not found")

	errInvalidDuration      = errors.New("invalid duration")
	errDatabaseHostRequired = errors.New("database host is required")
	errDatabaseNameRequired = errors.New("database name is required")
	errDatabasePortInvalid  = errors.New("database port out of range")
	errNATSURLRequired      = errors.New("nats url is required")

	errTelegramTokenRequired = errors.New("telegram token is required")
)
