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

//go:generate mockgen -destination=mock_control.go -package=control github.com/carverauto/obsctl/pkg/control AuditWriter

import (
	"context"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/session"
)

// AuditWriter appends command records. The service never reads them back.
type AuditWriter interface {
	AppendCommandRecord(ctx context.Context, rec *models.CommandRecord) error
}

// Targets resolves the session an operation runs against. Implemented by
// *registry.Registry.
type Targets interface {
	Resolve(id *int64) (*session.Session, error)
	Connect(ctx context.Context, id *int64) error
	Disconnect(ctx context.Context, id *int64) error
	List(ctx context.Context) []models.EndpointStatus
	DefaultID() int64
}
