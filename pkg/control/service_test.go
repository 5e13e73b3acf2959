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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/session"
)

func boolPtr(b bool) *bool { return &b }

func TestExecuteValidationNeverReachesSession(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "set scene without name", req: Request{Operation: OpSetScene}},
		{name: "set scene blank", req: Request{Operation: OpSetScene, Args: Args{Scene: "  "}}},
		{name: "toggle without source", req: Request{Operation: OpToggleVisibility}},
		{name: "mute without source", req: Request{Operation: OpMute}},
		{name: "media play without source", req: Request{Operation: OpMediaPlay}},
		{name: "media status without source", req: Request{Operation: OpMediaStatus}},
		{name: "visibility without value", req: Request{Operation: OpSetVisibility, Args: Args{Source: "Cam"}}},
		{name: "unknown operation", req: Request{Operation: "launch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true, remote{}, openPort)
			h.anyAudit()
			h.connect(t)

			before := h.conn.callCount()
			resp := h.svc.Execute(context.Background(), tt.req)

			assert.False(t, resp.Success)
			assert.Equal(t, KindValidation, resp.Kind)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, before, h.conn.callCount())
		})
	}
}

func TestExecuteWithoutEndpoints(t *testing.T) {
	h := newHarness(t, false, remote{}, openPort)
	h.anyAudit()

	resp := h.svc.Execute(context.Background(), Request{Operation: OpScenes})
	assert.False(t, resp.Success)
	assert.Equal(t, KindNoEndpoint, resp.Kind)
	assert.Equal(t, "No OBS connection configured", resp.Message)

	resp = h.svc.Execute(context.Background(), Request{Operation: OpStatus})
	assert.True(t, resp.Success)
	assert.Equal(t, "No OBS connections configured", resp.Message)
}

func TestExecuteUnknownEndpoint(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)
	h.anyAudit()

	id := int64(42)
	resp := h.svc.Execute(context.Background(), Request{Operation: OpScenes, EndpointID: &id})

	assert.Equal(t, KindNotFound, resp.Kind)
	assert.Equal(t, "OBS connection not found", resp.Message)
}

func TestExecuteNotConnected(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)
	h.anyAudit()

	resp := h.svc.Execute(context.Background(), Request{Operation: OpStreamStart})

	assert.False(t, resp.Success)
	assert.Equal(t, KindNotConnected, resp.Kind)
	assert.Equal(t, "OBS is not connected, please connect first", resp.Message)
	assert.Equal(t, int32(0), h.transport.dials.Load())
}

func TestExecuteConnectUnreachable(t *testing.T) {
	refused := stubProber{result: probe.Result{Reachable: true, Reason: probe.ReasonRefused}}
	h := newHarness(t, true, remote{}, refused)
	h.anyAudit()

	resp := h.svc.Execute(context.Background(), Request{Operation: OpConnect})

	assert.False(t, resp.Success)
	assert.Equal(t, KindUnreachable, resp.Kind)
	assert.Contains(t, resp.Message, "connection refused on 127.0.0.1:4455")
	assert.Equal(t, int32(0), h.transport.dials.Load())
}

func TestExecuteConnectAuthFailure(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)
	h.anyAudit()
	h.transport.err = session.ErrAuthenticationFailed

	resp := h.svc.Execute(context.Background(), Request{Operation: OpConnect})

	assert.Equal(t, KindAuth, resp.Kind)
	assert.Equal(t, "authentication failed, check the WebSocket password", resp.Message)
}

func TestExecuteScenes(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetSceneList": map[string]interface{}{
			"currentProgramSceneName": "Live",
			"scenes": []map[string]interface{}{
				{"sceneName": "Live", "sceneIndex": 1},
				{"sceneName": "BRB", "sceneIndex": 0},
			},
		},
		"GetCurrentProgramScene": map[string]interface{}{"currentProgramSceneName": "Live"},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpScenes})
	require.True(t, resp.Success, resp.Message)

	result, ok := resp.Data.(ScenesResult)
	require.True(t, ok)
	assert.Equal(t, "Live", result.Current)
	assert.Len(t, result.Scenes, 2)

	resp = h.svc.Execute(context.Background(), Request{Operation: OpCurrentScene})
	require.True(t, resp.Success)
	assert.Equal(t, "Current scene: Live", resp.Message)
}

func TestExecuteSetSceneRemoteError(t *testing.T) {
	h := newHarness(t, true, remote{
		"SetCurrentProgramScene": &session.RemoteError{Code: 600, Message: "No source was found by the name of `Nope`."},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpSetScene, Args: Args{Scene: "Nope"}})

	assert.False(t, resp.Success)
	assert.Equal(t, KindRemote, resp.Kind)
	assert.Equal(t, "OBS says: No source was found by the name of `Nope`.", resp.Message)
}

func TestExecuteToggleVisibilityMissingSource(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetCurrentProgramScene": map[string]interface{}{"currentProgramSceneName": "Live"},
		"GetSceneItemId":         &session.RemoteError{Code: 600, Message: "not found"},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpToggleVisibility, Args: Args{Source: "Ghost"}})

	assert.Equal(t, KindSourceNotFound, resp.Kind)
}

func TestExecuteSetVisibility(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetCurrentProgramScene": map[string]interface{}{"currentProgramSceneName": "Live"},
		"GetSceneItemId":         map[string]interface{}{"sceneItemId": 3},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{
		Operation: OpSetVisibility,
		Args:      Args{Source: "Cam", Visible: boolPtr(false)},
	})

	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "Cam is now hidden", resp.Message)
	assert.Equal(t, VisibilityResult{Source: "Cam", Visible: false}, resp.Data)
	assert.True(t, h.conn.called("SetSceneItemEnabled"))
}

func TestExecuteMute(t *testing.T) {
	h := newHarness(t, true, remote{
		"ToggleInputMute": map[string]interface{}{"inputMuted": true},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpMute, Args: Args{Source: "Mic"}})
	require.True(t, resp.Success)
	assert.Equal(t, "Mic is muted", resp.Message)
	assert.True(t, h.conn.called("SetInputMute"))

	resp = h.svc.Execute(context.Background(), Request{Operation: OpToggleMute, Args: Args{Source: "Mic"}})
	require.True(t, resp.Success)
	assert.Equal(t, MuteResult{Source: "Mic", Muted: true}, resp.Data)
}

func TestExecuteStreamStartAlreadyLive(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetStreamStatus": map[string]interface{}{"outputActive": true, "outputTimecode": "00:10:00.000"},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpStreamStart})
	require.True(t, resp.Success)
	assert.Equal(t, "Stream started", resp.Message)
	assert.False(t, h.conn.called("StartStream"))

	resp = h.svc.Execute(context.Background(), Request{Operation: OpStreamStatus})
	require.True(t, resp.Success)
	assert.Equal(t, "Stream is live (00:10:00.000)", resp.Message)
}

func TestExecuteRecordStopNotRunning(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetRecordStatus": map[string]interface{}{"outputActive": true},
		"StopRecord":      &session.RemoteError{Code: session.StatusOutputNotRunning},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpRecordStop})
	assert.True(t, resp.Success)
	assert.Equal(t, "Recording stopped", resp.Message)
}

func TestExecuteMediaUnsupportedKind(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetInputSettings": map[string]interface{}{"inputKind": "color_source_v3"},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpMediaPlay, Args: Args{Source: "Backdrop"}})

	assert.False(t, resp.Success)
	assert.Equal(t, KindUnsupported, resp.Kind)
	assert.Contains(t, resp.Message, "color_source_v3")
	assert.False(t, h.conn.called("TriggerMediaInputAction"))
}

func TestExecuteMediaPlayAndStatus(t *testing.T) {
	h := newHarness(t, true, remote{
		"GetInputSettings":    map[string]interface{}{"inputKind": "ffmpeg_source"},
		"GetMediaInputStatus": map[string]interface{}{"mediaState": models.MediaStatePlaying, "mediaDuration": 60000, "mediaCursor": 1500},
	}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpMediaPlay, Args: Args{Source: "Intro"}})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "Playing Intro", resp.Message)

	resp = h.svc.Execute(context.Background(), Request{Operation: OpMediaStatus, Args: Args{Source: "Intro"}})
	require.True(t, resp.Success)
	assert.Equal(t, "Intro: playing", resp.Message)

	status, ok := resp.Data.(models.MediaStatus)
	require.True(t, ok)
	assert.Equal(t, int64(1500), status.CursorMS)
}

func TestExecuteStatusListsEndpoints(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)
	h.anyAudit()
	h.connect(t)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpStatus})
	require.True(t, resp.Success)
	assert.Equal(t, "1 of 1 OBS connections connected", resp.Message)

	list, ok := resp.Data.([]models.EndpointStatus)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.True(t, list[0].Default)
}

func TestExecuteWritesCommandRecord(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)

	user := int64(77)
	records := make(chan *models.CommandRecord, 1)

	h.audit.EXPECT().AppendCommandRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, rec *models.CommandRecord) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			records <- rec

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	resp := h.svc.Execute(ctx, Request{Operation: OpSetScene, Args: Args{Scene: "Live"}, UserID: &user})
	cancel()

	assert.Equal(t, KindNotConnected, resp.Kind)

	h.svc.Wait()

	rec := <-records
	assert.Equal(t, "set_scene", rec.Command)
	assert.Equal(t, `{"scene":"Live"}`, rec.Parameters)
	assert.Equal(t, models.CommandStatusError, rec.Status)
	assert.Equal(t, string(KindNotConnected), rec.Outcome)
	assert.Equal(t, resp.Message, rec.Response)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, user, *rec.UserID)
	require.NotNil(t, rec.EndpointID)
	assert.Equal(t, studio.ID, *rec.EndpointID)
}

func TestExecuteRecordsUnknownEndpoint(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)

	records := make(chan *models.CommandRecord, 1)
	h.audit.EXPECT().AppendCommandRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.CommandRecord) error {
			records <- rec

			return nil
		})

	id := int64(42)
	resp := h.svc.Execute(context.Background(), Request{Operation: OpScenes, EndpointID: &id})
	assert.Equal(t, KindNotFound, resp.Kind)

	h.svc.Wait()

	rec := <-records
	assert.Equal(t, string(KindNotFound), rec.Outcome)
	require.NotNil(t, rec.EndpointID)
	assert.Equal(t, id, *rec.EndpointID)
}

func TestExecuteIgnoresAuditFailure(t *testing.T) {
	h := newHarness(t, true, remote{}, openPort)
	h.audit.EXPECT().AppendCommandRecord(gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(2)

	resp := h.svc.Execute(context.Background(), Request{Operation: OpConnect})
	assert.True(t, resp.Success)

	resp = h.svc.Execute(context.Background(), Request{Operation: OpDisconnect})
	assert.True(t, resp.Success)
	assert.Equal(t, "Disconnected from OBS", resp.Message)

	h.svc.Wait()
}
