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

package session

import (
	"context"

	"github.com/carverauto/obsctl/pkg/models"
)

func (s *Session) StreamStatus(ctx context.Context) (models.OutputStatus, error) {
	return s.outputStatus(ctx, reqGetStreamStatus)
}

func (s *Session) RecordStatus(ctx context.Context) (models.OutputStatus, error) {
	return s.outputStatus(ctx, reqGetRecordStatus)
}

// StartStream starts streaming. Calling it while already streaming succeeds.
func (s *Session) StartStream(ctx context.Context) error {
	return s.setOutput(ctx, reqGetStreamStatus, reqStartStream, true)
}

// StopStream stops streaming. Calling it while not streaming succeeds.
func (s *Session) StopStream(ctx context.Context) error {
	return s.setOutput(ctx, reqGetStreamStatus, reqStopStream, false)
}

func (s *Session) StartRecord(ctx context.Context) error {
	return s.setOutput(ctx, reqGetRecordStatus, reqStartRecord, true)
}

func (s *Session) StopRecord(ctx context.Context) error {
	return s.setOutput(ctx, reqGetRecordStatus, reqStopRecord, false)
}

func (s *Session) outputStatus(ctx context.Context, requestType string) (models.OutputStatus, error) {
	var resp outputStatusResponse
	if err := s.call(ctx, requestType, nil, &resp); err != nil {
		return models.OutputStatus{}, err
	}

	return models.OutputStatus{
		Active:       resp.OutputActive,
		Paused:       resp.OutputPaused,
		Reconnecting: resp.OutputReconnecting,
		Timecode:     resp.OutputTimecode,
		DurationMS:   resp.OutputDuration,
		Bytes:        resp.OutputBytes,
		Congestion:   resp.OutputCongestion,
	}, nil
}

// setOutput drives an output to the wanted state. The remote's "already
// running" and "not running" statuses count as success.
func (s *Session) setOutput(ctx context.Context, statusRequest, actionRequest string, active bool) error {
	status, err := s.outputStatus(ctx, statusRequest)
	if err != nil {
		return err
	}

	if status.Active == active {
		return nil
	}

	err = s.call(ctx, actionRequest, nil, nil)

	switch {
	case err == nil:
		return nil
	case active && isRemoteStatus(err, StatusOutputRunning):
		return nil
	case !active && isRemoteStatus(err, StatusOutputNotRunning):
		return nil
	default:
		return err
	}
}
