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
	"errors"
	"fmt"

	"github.com/carverauto/obsctl/pkg/models"
)

// Scenes lists all scenes in the order OBS shows them.
func (s *Session) Scenes(ctx context.Context) ([]models.Scene, error) {
	var resp sceneListResponse
	if err := s.call(ctx, reqGetSceneList, nil, &resp); err != nil {
		return nil, err
	}

	scenes := make([]models.Scene, 0, len(resp.Scenes))
	for _, sc := range resp.Scenes {
		scenes = append(scenes, models.Scene{Name: sc.SceneName, Index: sc.SceneIndex})
	}

	return scenes, nil
}

// CurrentScene returns the name of the program scene.
func (s *Session) CurrentScene(ctx context.Context) (string, error) {
	var resp currentSceneResponse
	if err := s.call(ctx, reqGetCurrentProgramScene, nil, &resp); err != nil {
		return "", err
	}

	return resp.CurrentProgramSceneName, nil
}

func (s *Session) SetCurrentScene(ctx context.Context, name string) error {
	return s.call(ctx, reqSetCurrentProgramScene, sceneNameRequest{SceneName: name}, nil)
}

// Sources lists the items of scene, or of the program scene when scene is
// empty. Mute state is filled in for inputs that have audio.
func (s *Session) Sources(ctx context.Context, scene string) ([]models.Source, error) {
	if scene == "" {
		current, err := s.CurrentScene(ctx)
		if err != nil {
			return nil, err
		}

		scene = current
	}

	var resp sceneItemListResponse
	if err := s.call(ctx, reqGetSceneItemList, sceneNameRequest{SceneName: scene}, &resp); err != nil {
		return nil, err
	}

	sources := make([]models.Source, 0, len(resp.SceneItems))

	for _, item := range resp.SceneItems {
		src := models.Source{
			Name:        item.SourceName,
			Kind:        item.InputKind,
			Type:        item.SourceType,
			SceneItemID: item.SceneItemID,
			Visible:     item.SceneItemEnabled,
			Width:       item.Transform.Width,
			Height:      item.Transform.Height,
			Media:       s.isMediaKind(item.InputKind),
		}

		if item.SourceType == sourceTypeInput {
			muted, err := s.inputMute(ctx, item.SourceName)
			if err != nil && !errors.Is(err, errNoAudio) {
				return nil, err
			}

			src.Muted = muted
		}

		sources = append(sources, src)
	}

	return sources, nil
}

// sceneItem resolves a source name to its item id in the program scene.
func (s *Session) sceneItem(ctx context.Context, source string) (scene string, id int, err error) {
	scene, err = s.CurrentScene(ctx)
	if err != nil {
		return "", 0, err
	}

	var resp sceneItemIDResponse

	err = s.call(ctx, reqGetSceneItemID, sceneItemIDRequest{SceneName: scene, SourceName: source}, &resp)

	switch {
	case err == nil:
	case isRemoteStatus(err, StatusResourceNotFound):
		return "", 0, fmt.Errorf("%w: %q in %q: %w", ErrSourceNotInScene, source, scene, err)
	default:
		return "", 0, err
	}

	return scene, resp.SceneItemID, nil
}

// SourceVisibility reports whether source is shown in the program scene.
func (s *Session) SourceVisibility(ctx context.Context, source string) (bool, error) {
	scene, id, err := s.sceneItem(ctx, source)
	if err != nil {
		return false, err
	}

	var resp sceneItemEnabledResponse
	if err := s.call(ctx, reqGetSceneItemEnabled, sceneItemRequest{SceneName: scene, SceneItemID: id}, &resp); err != nil {
		return false, err
	}

	return resp.SceneItemEnabled, nil
}

func (s *Session) SetSourceVisibility(ctx context.Context, source string, visible bool) error {
	scene, id, err := s.sceneItem(ctx, source)
	if err != nil {
		return err
	}

	return s.call(ctx, reqSetSceneItemEnabled, sceneItemEnabledRequest{
		SceneName:        scene,
		SceneItemID:      id,
		SceneItemEnabled: visible,
	}, nil)
}

// ToggleSourceVisibility flips visibility and returns the new value.
func (s *Session) ToggleSourceVisibility(ctx context.Context, source string) (bool, error) {
	scene, id, err := s.sceneItem(ctx, source)
	if err != nil {
		return false, err
	}

	var current sceneItemEnabledResponse
	if err := s.call(ctx, reqGetSceneItemEnabled, sceneItemRequest{SceneName: scene, SceneItemID: id}, &current); err != nil {
		return false, err
	}

	visible := !current.SceneItemEnabled

	if err := s.call(ctx, reqSetSceneItemEnabled, sceneItemEnabledRequest{
		SceneName:        scene,
		SceneItemID:      id,
		SceneItemEnabled: visible,
	}, nil); err != nil {
		return false, err
	}

	return visible, nil
}

func (s *Session) SourceMute(ctx context.Context, source string) (bool, error) {
	var resp inputMuteResponse
	if err := s.call(ctx, reqGetInputMute, inputNameRequest{InputName: source}, &resp); err != nil {
		return false, err
	}

	return resp.InputMuted, nil
}

func (s *Session) SetSourceMute(ctx context.Context, source string, muted bool) error {
	return s.call(ctx, reqSetInputMute, inputMuteRequest{InputName: source, InputMuted: muted}, nil)
}

// ToggleSourceMute flips the mute state and returns the new value.
func (s *Session) ToggleSourceMute(ctx context.Context, source string) (bool, error) {
	var resp inputMuteResponse
	if err := s.call(ctx, reqToggleInputMute, inputNameRequest{InputName: source}, &resp); err != nil {
		return false, err
	}

	return resp.InputMuted, nil
}

// MuteStates returns the mute state of every input that has audio.
func (s *Session) MuteStates(ctx context.Context) (map[string]bool, error) {
	var inputs inputListResponse
	if err := s.call(ctx, reqGetInputList, nil, &inputs); err != nil {
		return nil, err
	}

	states := make(map[string]bool, len(inputs.Inputs))

	for _, in := range inputs.Inputs {
		muted, err := s.inputMute(ctx, in.InputName)
		if errors.Is(err, errNoAudio) {
			continue
		}

		if err != nil {
			return nil, err
		}

		states[in.InputName] = muted
	}

	return states, nil
}

// inputMute reads the mute state of an input. Inputs the remote refuses to
// report on come back as errNoAudio; transport failures are returned as is.
func (s *Session) inputMute(ctx context.Context, input string) (bool, error) {
	var resp inputMuteResponse

	err := s.call(ctx, reqGetInputMute, inputNameRequest{InputName: input}, &resp)

	var remoteErr *RemoteError

	switch {
	case err == nil:
		return resp.InputMuted, nil
	case errors.As(err, &remoteErr):
		return false, fmt.Errorf("%w: %q: %w", errNoAudio, input, err)
	default:
		return false, err
	}
}
