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

package registry

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/carverauto/obsctl/pkg/registry Store,EventPublisher

import (
	"context"
	"time"

	"github.com/carverauto/obsctl/pkg/models"
)

// Store persists endpoints. Lookups of unknown ids return an error wrapping
// models.ErrEndpointNotFound.
type Store interface {
	FindEndpoint(ctx context.Context, id int64) (*models.Endpoint, error)
	// ListEndpoints returns all endpoints ordered by id.
	ListEndpoints(ctx context.Context) ([]*models.Endpoint, error)
	CreateEndpoint(ctx context.Context, in *models.EndpointInput) (*models.Endpoint, error)
	// UpdateEndpoint replaces the administrator fields and clears the
	// connected flag and timestamp.
	UpdateEndpoint(ctx context.Context, id int64, in *models.EndpointInput) (*models.Endpoint, error)
	DeleteEndpoint(ctx context.Context, id int64) error
	SetEndpointConnected(ctx context.Context, id int64, connected bool, at time.Time) error
}

// EventPublisher announces endpoint connection state changes.
type EventPublisher interface {
	PublishEndpointState(ctx context.Context, data *models.EndpointStateEventData) error
}
