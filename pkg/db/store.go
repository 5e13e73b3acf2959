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

// Package db persists OBS endpoints and the command audit trail in PostgreSQL.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/obsctl/pkg/logger"
)

// pgxExecutor is the subset of *pgxpool.Pool the store uses.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements registry.Store and control.AuditWriter.
type Store struct {
	executor pgxExecutor
	pool     *pgxpool.Pool
	logger   logger.Logger
}

func NewStore(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{executor: pool, pool: pool, logger: log}
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
