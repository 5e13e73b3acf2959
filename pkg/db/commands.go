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
	"fmt"
	"time"

	"github.com/carverauto/obsctl/pkg/models"
)

const insertCommandRecordSQL = `
INSERT INTO command_history (
	command,
	parameters,
	response,
	status,
	outcome,
	execution_time_ms,
	user_id,
	connection_id,
	created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func buildCommandRecordArgs(rec *models.CommandRecord) ([]any, error) {
	if rec == nil {
		return nil, ErrCommandRecordNil
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	status := rec.Status
	if status == "" {
		status = models.CommandStatusSuccess
	}

	return []any{
		rec.Command,
		nullableString(rec.Parameters),
		nullableString(rec.Response),
		status,
		nullableString(rec.Outcome),
		rec.ExecutionTimeMS,
		rec.UserID,
		rec.EndpointID,
		createdAt.UTC(),
	}, nil
}

// AppendCommandRecord inserts one audit row.
func (s *Store) AppendCommandRecord(ctx context.Context, rec *models.CommandRecord) error {
	args, err := buildCommandRecordArgs(rec)
	if err != nil {
		return err
	}

	if _, err := s.executor.Exec(ctx, insertCommandRecordSQL, args...); err != nil {
		return fmt.Errorf("%w command record: %w", ErrFailedToInsert, err)
	}

	return nil
}
