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

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/session"
)

// Operation names a facade call.
type Operation string

const (
	OpConnect          Operation = "connect"
	OpDisconnect       Operation = "disconnect"
	OpStatus           Operation = "status"
	OpScenes           Operation = "scenes"
	OpCurrentScene     Operation = "current_scene"
	OpSetScene         Operation = "set_scene"
	OpSources          Operation = "sources"
	OpSetVisibility    Operation = "set_visibility"
	OpToggleVisibility Operation = "toggle_visibility"
	OpMute             Operation = "mute"
	OpUnmute           Operation = "unmute"
	OpToggleMute       Operation = "toggle_mute"
	OpMuteStatus       Operation = "mute_status"
	OpStreamStatus     Operation = "stream_status"
	OpStreamStart      Operation = "stream_start"
	OpStreamStop       Operation = "stream_stop"
	OpRecordStatus     Operation = "record_status"
	OpRecordStart      Operation = "record_start"
	OpRecordStop       Operation = "record_stop"
	OpMediaPlay        Operation = "media_play"
	OpMediaPause       Operation = "media_pause"
	OpMediaRestart     Operation = "media_restart"
	OpMediaStop        Operation = "media_stop"
	OpMediaNext        Operation = "media_next"
	OpMediaPrevious    Operation = "media_previous"
	OpMediaStatus      Operation = "media_status"
	OpStats            Operation = "stats"
	OpVersion          Operation = "version"
)

// Args carries the operation parameters. Only the fields an operation
// needs are read.
type Args struct {
	Scene   string `json:"scene,omitempty"`
	Source  string `json:"source,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

func (a Args) empty() bool {
	return a.Scene == "" && a.Source == "" && a.Visible == nil
}

// Request is one facade call. A nil EndpointID targets the default endpoint.
type Request struct {
	Operation  Operation `json:"operation"`
	EndpointID *int64    `json:"endpoint_id,omitempty"`
	Args       Args      `json:"args,omitempty"`
	UserID     *int64    `json:"user_id,omitempty"`
}

// Response is the outcome of Execute. Kind is empty on success.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Kind    ErrorKind   `json:"error_kind,omitempty"`
}

// ScenesResult is the payload of OpScenes.
type ScenesResult struct {
	Current string         `json:"current_scene"`
	Scenes  []models.Scene `json:"scenes"`
}

type SceneResult struct {
	Scene string `json:"scene"`
}

type VisibilityResult struct {
	Source  string `json:"source"`
	Visible bool   `json:"visible"`
}

type MuteResult struct {
	Source string `json:"source"`
	Muted  bool   `json:"muted"`
}

type handler func(ctx context.Context, s *session.Session, args Args) (interface{}, string, error)

type opSpec struct {
	needScene  bool
	needSource bool
	run        handler
}

var mediaActions = map[Operation]struct {
	action session.MediaAction
	verb   string
}{
	OpMediaPlay:     {session.MediaPlay, "Playing"},
	OpMediaPause:    {session.MediaPause, "Paused"},
	OpMediaRestart:  {session.MediaRestart, "Restarted"},
	OpMediaStop:     {session.MediaStop, "Stopped"},
	OpMediaNext:     {session.MediaNext, "Skipped to the next item of"},
	OpMediaPrevious: {session.MediaPrevious, "Went back to the previous item of"},
}

// operations lists the calls that run against a resolved session. Connect,
// disconnect and status are handled by the service directly.
var operations = map[Operation]opSpec{
	OpScenes:           {run: listScenes},
	OpCurrentScene:     {run: currentScene},
	OpSetScene:         {needScene: true, run: setScene},
	OpSources:          {run: listSources},
	OpSetVisibility:    {needSource: true, run: setVisibility},
	OpToggleVisibility: {needSource: true, run: toggleVisibility},
	OpMute:             {needSource: true, run: setMute(true)},
	OpUnmute:           {needSource: true, run: setMute(false)},
	OpToggleMute:       {needSource: true, run: toggleMute},
	OpMuteStatus:       {run: muteStatus},
	OpStreamStatus:     {run: outputStatus("Stream is live", "Stream is offline", (*session.Session).StreamStatus)},
	OpStreamStart:      {run: outputAction("Stream started", (*session.Session).StartStream)},
	OpStreamStop:       {run: outputAction("Stream stopped", (*session.Session).StopStream)},
	OpRecordStatus:     {run: outputStatus("Recording", "Not recording", (*session.Session).RecordStatus)},
	OpRecordStart:      {run: outputAction("Recording started", (*session.Session).StartRecord)},
	OpRecordStop:       {run: outputAction("Recording stopped", (*session.Session).StopRecord)},
	OpMediaStatus:      {needSource: true, run: mediaStatus},
	OpStats:            {run: stats},
	OpVersion:          {run: version},
}

func init() {
	for op := range mediaActions {
		operations[op] = opSpec{needSource: true, run: triggerMedia(op)}
	}
}

func (o opSpec) validate(op Operation, args Args) error {
	if o.needScene && strings.TrimSpace(args.Scene) == "" {
		return usage(op, "please specify a scene name, usage: %s <scene>", op)
	}

	if o.needSource && strings.TrimSpace(args.Source) == "" {
		return usage(op, "please specify a source name, usage: %s <source>", op)
	}

	if op == OpSetVisibility && args.Visible == nil {
		return usage(op, "please specify whether the source should be visible")
	}

	return nil
}

func listScenes(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
	scenes, err := s.Scenes(ctx)
	if err != nil {
		return nil, "", err
	}

	current, err := s.CurrentScene(ctx)
	if err != nil {
		return nil, "", err
	}

	return ScenesResult{Current: current, Scenes: scenes}, fmt.Sprintf("Found %d scenes, current scene is %q", len(scenes), current), nil
}

func currentScene(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
	name, err := s.CurrentScene(ctx)
	if err != nil {
		return nil, "", err
	}

	return SceneResult{Scene: name}, fmt.Sprintf("Current scene: %s", name), nil
}

func setScene(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	if err := s.SetCurrentScene(ctx, args.Scene); err != nil {
		return nil, "", err
	}

	return SceneResult{Scene: args.Scene}, fmt.Sprintf("Switched to scene %q", args.Scene), nil
}

func listSources(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	sources, err := s.Sources(ctx, args.Scene)
	if err != nil {
		return nil, "", err
	}

	if args.Scene == "" {
		return sources, fmt.Sprintf("Found %d sources in the current scene", len(sources)), nil
	}

	return sources, fmt.Sprintf("Found %d sources in scene %q", len(sources), args.Scene), nil
}

func visibilityMessage(source string, visible bool) string {
	if visible {
		return fmt.Sprintf("%s is now visible", source)
	}

	return fmt.Sprintf("%s is now hidden", source)
}

func setVisibility(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	if err := s.SetSourceVisibility(ctx, args.Source, *args.Visible); err != nil {
		return nil, "", err
	}

	return VisibilityResult{Source: args.Source, Visible: *args.Visible}, visibilityMessage(args.Source, *args.Visible), nil
}

func toggleVisibility(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	visible, err := s.ToggleSourceVisibility(ctx, args.Source)
	if err != nil {
		return nil, "", err
	}

	return VisibilityResult{Source: args.Source, Visible: visible}, visibilityMessage(args.Source, visible), nil
}

func muteMessage(source string, muted bool) string {
	if muted {
		return fmt.Sprintf("%s is muted", source)
	}

	return fmt.Sprintf("%s is unmuted", source)
}

func setMute(muted bool) handler {
	return func(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
		if err := s.SetSourceMute(ctx, args.Source, muted); err != nil {
			return nil, "", err
		}

		return MuteResult{Source: args.Source, Muted: muted}, muteMessage(args.Source, muted), nil
	}
}

func toggleMute(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	muted, err := s.ToggleSourceMute(ctx, args.Source)
	if err != nil {
		return nil, "", err
	}

	return MuteResult{Source: args.Source, Muted: muted}, muteMessage(args.Source, muted), nil
}

// muteStatus reports one source when a name is given, every audio input otherwise.
func muteStatus(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	if args.Source != "" {
		muted, err := s.SourceMute(ctx, args.Source)
		if err != nil {
			return nil, "", err
		}

		return MuteResult{Source: args.Source, Muted: muted}, muteMessage(args.Source, muted), nil
	}

	states, err := s.MuteStates(ctx)
	if err != nil {
		return nil, "", err
	}

	muted := 0

	for _, m := range states {
		if m {
			muted++
		}
	}

	return states, fmt.Sprintf("%d of %d audio inputs muted", muted, len(states)), nil
}

func outputStatus(active, inactive string, get func(*session.Session, context.Context) (models.OutputStatus, error)) handler {
	return func(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
		status, err := get(s, ctx)
		if err != nil {
			return nil, "", err
		}

		if !status.Active {
			return status, inactive, nil
		}

		if status.Timecode != "" {
			return status, fmt.Sprintf("%s (%s)", active, status.Timecode), nil
		}

		return status, active, nil
	}
}

func outputAction(done string, act func(*session.Session, context.Context) error) handler {
	return func(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
		if err := act(s, ctx); err != nil {
			return nil, "", err
		}

		return nil, done, nil
	}
}

func triggerMedia(op Operation) handler {
	m := mediaActions[op]

	return func(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
		if err := s.TriggerMedia(ctx, args.Source, m.action); err != nil {
			return nil, "", err
		}

		return nil, fmt.Sprintf("%s %s", m.verb, args.Source), nil
	}
}

func mediaStatus(ctx context.Context, s *session.Session, args Args) (interface{}, string, error) {
	status, err := s.MediaStatus(ctx, args.Source)
	if err != nil {
		return nil, "", err
	}

	return status, fmt.Sprintf("%s: %s", args.Source, mediaStateLabel(status.State)), nil
}

func mediaStateLabel(state string) string {
	switch state {
	case models.MediaStatePlaying:
		return "playing"
	case models.MediaStatePaused:
		return "paused"
	case models.MediaStateStopped:
		return "stopped"
	case models.MediaStateEnded:
		return "ended"
	case models.MediaStateOpening, models.MediaStateBuffering:
		return "loading"
	case models.MediaStateError:
		return "error"
	default:
		return "idle"
	}
}

func stats(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return nil, "", err
	}

	return st, fmt.Sprintf("CPU %.1f%%, %.1f fps, %d of %d frames skipped",
		st.CPUUsage, st.ActiveFPS, st.OutputSkippedFrames, st.OutputTotalFrames), nil
}

func version(ctx context.Context, s *session.Session, _ Args) (interface{}, string, error) {
	v, err := s.Version(ctx)
	if err != nil {
		return nil, "", err
	}

	return v, fmt.Sprintf("OBS %s, WebSocket %s", v.OBSVersion, v.WebSocketVersion), nil
}
