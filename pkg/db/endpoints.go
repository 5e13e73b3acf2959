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

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/obsctl/pkg/models"
)

const endpointColumns = `id, name, host, port, COALESCE(password, ''), is_connected,
	last_connected_at, created_at, updated_at`

const (
	selectEndpointSQL = `SELECT ` + endpointColumns + `
FROM obs_connections
WHERE id = $1`

	listEndpointsSQL = `SELECT ` + endpointColumns + `
FROM obs_connections
ORDER BY id`

	insertEndpointSQL = `
INSERT INTO obs_connections (name, host, port, password)
VALUES ($1, $2, $3, $4)
RETURNING ` + endpointColumns

	updateEndpointSQL = `
UPDATE obs_connections
SET name = $2,
	host = $3,
	port = $4,
	password = $5,
	is_connected = FALSE,
	last_connected_at = NULL,
	updated_at = now()
WHERE id = $1
RETURNING ` + endpointColumns

	deleteEndpointSQL = `DELETE FROM obs_connections WHERE id = $1`

	setConnectedSQL = `
UPDATE obs_connections
SET is_connected = $2,
	last_connected_at = CASE WHEN $2 THEN $3 ELSE last_connected_at END,
	updated_at = $3
WHERE id = $1`
)

func scanEndpoint(row pgx.Row) (*models.Endpoint, error) {
	var (
		ep            models.Endpoint
		lastConnected *time.Time
	)

	if err := row.Scan(
		&ep.ID,
		&ep.Name,
		&ep.Host,
		&ep.Port,
		&ep.Password,
		&ep.IsConnected,
		&lastConnected,
		&ep.CreatedAt,
		&ep.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if lastConnected != nil {
		t := lastConnected.UTC()
		ep.LastConnectedAt = &t
	}

	return &ep, nil
}

// nullablePassword stores an empty password as NULL.
func nullablePassword(pw string) *string {
	if pw == "" {
		return nil
	}

	return &pw
}

func endpointArgs(in *models.EndpointInput) []any {
	return []any{in.Name, in.Host, in.Port, nullablePassword(in.Password)}
}

func (s *Store) FindEndpoint(ctx context.Context, id int64) (*models.Endpoint, error) {
	ep, err := scanEndpoint(s.executor.QueryRow(ctx, selectEndpointSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
		}

		return nil, fmt.Errorf("%w endpoint %d: %w", ErrFailedToQuery, id, err)
	}

	return ep, nil
}

func (s *Store) ListEndpoints(ctx context.Context) ([]*models.Endpoint, error) {
	rows, err := s.executor.Query(ctx, listEndpointsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w endpoints: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var endpoints []*models.Endpoint

	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("%w endpoint: %w", ErrFailedToScan, err)
		}

		endpoints = append(endpoints, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w endpoints: %w", ErrFailedToQuery, err)
	}

	return endpoints, nil
}

func (s *Store) CreateEndpoint(ctx context.Context, in *models.EndpointInput) (*models.Endpoint, error) {
	if in == nil {
		return nil, ErrEndpointInputNil
	}

	ep, err := scanEndpoint(s.executor.QueryRow(ctx, insertEndpointSQL, endpointArgs(in)...))
	if err != nil {
		return nil, fmt.Errorf("%w endpoint: %w", ErrFailedToInsert, err)
	}

	s.logger.Debug().Int64("endpoint_id", ep.ID).Msg("Stored endpoint")

	return ep, nil
}

func (s *Store) UpdateEndpoint(ctx context.Context, id int64, in *models.EndpointInput) (*models.Endpoint, error) {
	if in == nil {
		return nil, ErrEndpointInputNil
	}

	args := append([]any{id}, endpointArgs(in)...)

	ep, err := scanEndpoint(s.executor.QueryRow(ctx, updateEndpointSQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
		}

		return nil, fmt.Errorf("%w endpoint %d: %w", ErrFailedToUpdate, id, err)
	}

	return ep, nil
}

func (s *Store) DeleteEndpoint(ctx context.Context, id int64) error {
	tag, err := s.executor.Exec(ctx, deleteEndpointSQL, id)
	if err != nil {
		return fmt.Errorf("%w endpoint %d: %w", ErrFailedToDelete, id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	return nil
}

// SetEndpointConnected records a connection transition. The timestamp is
// only moved forward on connect.
func (s *Store) SetEndpointConnected(ctx context.Context, id int64, connected bool, at time.Time) error {
	tag, err := s.executor.Exec(ctx, setConnectedSQL, id, connected, at.UTC())
	if err != nil {
		return fmt.Errorf("%w connection state of endpoint %d: %w", ErrFailedToUpdate, id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", models.ErrEndpointNotFound, id)
	}

	return nil
}
