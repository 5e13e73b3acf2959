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

package db

import "errors"

var (
	ErrFailedToQuery  = errors.New("failed to query")
	ErrFailedToInsert = errors.New("failed to insert")
	ErrFailedToUpdate = errors.New("failed to update")
	ErrFailedToDelete = errors.New("failed to delete")
	ErrFailedToScan   = errors.New("failed to scan")

	ErrCommandRecordNil = errors.New("command record is nil")
	ErrEndpointInputNil = errors.New("endpoint input is nil")

	ErrDatabaseTLSDisabled   = errors.New("database tls: ssl_mode=disable conflicts with tls configuration")
	ErrDatabaseTLSIncomplete = errors.New("database tls: cert_file, key_file, and ca_file are required")
	errAppendCA              = errors.New("database tls: unable to append CA certificate")
)
