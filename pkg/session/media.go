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
	"strings"

	"github.com/carverauto/obsctl/pkg/models"
)

// MediaAction is a transport control understood by media inputs.
type MediaAction string

const (
	MediaPlay     MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_PLAY"
	MediaPause    MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_PAUSE"
	MediaRestart  MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_RESTART"
	MediaStop     MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_STOP"
	MediaNext     MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_NEXT"
	MediaPrevious MediaAction = "OBS_WEBSOCKET_MEDIA_INPUT_ACTION_PREVIOUS"
)

func (s *Session) PlayMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaPlay)
}

func (s *Session) PauseMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaPause)
}

func (s *Session) RestartMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaRestart)
}

func (s *Session) StopMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaStop)
}

func (s *Session) NextMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaNext)
}

func (s *Session) PreviousMedia(ctx context.Context, source string) error {
	return s.TriggerMedia(ctx, source, MediaPrevious)
}

// TriggerMedia sends action to source after checking its input kind.
func (s *Session) TriggerMedia(ctx context.Context, source string, action MediaAction) error {
	if err := s.requireMediaInput(ctx, source); err != nil {
		return err
	}

	return s.call(ctx, reqTriggerMediaInputAction, mediaActionRequest{
		InputName:   source,
		MediaAction: string(action),
	}, nil)
}

func (s *Session) MediaStatus(ctx context.Context, source string) (models.MediaStatus, error) {
	if err := s.requireMediaInput(ctx, source); err != nil {
		return models.MediaStatus{}, err
	}

	var resp mediaStatusResponse
	if err := s.call(ctx, reqGetMediaInputStatus, inputNameRequest{InputName: source}, &resp); err != nil {
		return models.MediaStatus{}, err
	}

	status := models.MediaStatus{Source: source, State: resp.MediaState}

	if resp.MediaDuration != nil {
		status.DurationMS = *resp.MediaDuration
	}

	if resp.MediaCursor != nil {
		status.CursorMS = *resp.MediaCursor
	}

	return status, nil
}

func (s *Session) requireMediaInput(ctx context.Context, source string) error {
	var resp inputSettingsResponse
	if err := s.call(ctx, reqGetInputSettings, inputNameRequest{InputName: source}, &resp); err != nil {
		return err
	}

	if !s.isMediaKind(resp.InputKind) {
		return &UnsupportedSourceKindError{Source: source, Kind: resp.InputKind}
	}

	return nil
}

func (s *Session) isMediaKind(kind string) bool {
	if kind == "" {
		return false
	}

	_, ok := s.mediaKinds[strings.ToLower(kind)]

	return ok
}
