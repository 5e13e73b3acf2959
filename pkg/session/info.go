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

func (s *Session) Stats(ctx context.Context) (models.Stats, error) {
	var resp statsResponse
	if err := s.call(ctx, reqGetStats, nil, &resp); err != nil {
		return models.Stats{}, err
	}

	return models.Stats{
		CPUUsage:            resp.CPUUsage,
		MemoryUsageMB:       resp.MemoryUsage,
		ActiveFPS:           resp.ActiveFPS,
		AverageFrameTimeMS:  resp.AverageFrameRenderTime,
		RenderSkippedFrames: resp.RenderSkippedFrames,
		RenderTotalFrames:   resp.RenderTotalFrames,
		OutputSkippedFrames: resp.OutputSkippedFrames,
		OutputTotalFrames:   resp.OutputTotalFrames,
	}, nil
}

func (s *Session) Version(ctx context.Context) (models.Version, error) {
	var resp versionResponse
	if err := s.call(ctx, reqGetVersion, nil, &resp); err != nil {
		return models.Version{}, err
	}

	return models.Version{
		OBSVersion:       resp.OBSVersion,
		WebSocketVersion: resp.OBSWebSocketVersion,
		RPCVersion:       resp.RPCVersion,
		Platform:         resp.Platform,
	}, nil
}
