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

// TrialSceneLimit caps the scenes a trial returns.
const TrialSceneLimit = 5

// TrialResult is what a one-off connection check learned about an endpoint.
type TrialResult struct {
	Version    models.Version `json:"version"`
	SceneCount int            `json:"scene_count"`
	Scenes     []models.Scene `json:"scenes"`
}

type fixedEndpoint struct {
	ep *models.Endpoint
}

func (f fixedEndpoint) FindEndpoint(context.Context, int64) (*models.Endpoint, error) {
	return f.ep, nil
}

// Trial connects to ep with a throwaway session, reads the version and the
// first scenes, then disconnects. The endpoint does not need to be saved and
// no connected flag is written. deps.Source and deps.Sink are ignored.
func Trial(ctx context.Context, deps Dependencies, cfg Config, ep *models.Endpoint) (TrialResult, error) {
	deps.Source = fixedEndpoint{ep: ep}
	deps.Sink = nil

	s := New(ep.ID, deps, cfg)
	defer func() { _ = s.Close(context.WithoutCancel(ctx)) }()

	if err := s.Connect(ctx); err != nil {
		return TrialResult{}, err
	}

	version, err := s.Version(ctx)
	if err != nil {
		return TrialResult{}, err
	}

	scenes, err := s.Scenes(ctx)
	if err != nil {
		return TrialResult{}, err
	}

	result := TrialResult{Version: version, SceneCount: len(scenes), Scenes: scenes}
	if len(scenes) > TrialSceneLimit {
		result.Scenes = scenes[:TrialSceneLimit]
	}

	return result, nil
}
