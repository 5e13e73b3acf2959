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

package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

type fakeCommander struct {
	mu       sync.Mutex
	requests []control.Request
	resp     control.Response
}

func (f *fakeCommander) Execute(_ context.Context, req control.Request) control.Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	return f.resp
}

func (f *fakeCommander) last(t *testing.T) control.Request {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.requests)

	return f.requests[len(f.requests)-1]
}

func newRouter(resp control.Response) (*Router, *fakeCommander) {
	fc := &fakeCommander{resp: resp}

	return NewRouter(fc, logger.NewTestLogger()), fc
}

func TestHandleMapsCommands(t *testing.T) {
	user := int64(77)

	tests := []struct {
		text string
		want control.Request
	}{
		{text: "/connect", want: control.Request{Operation: control.OpConnect}},
		{text: "/disconnect", want: control.Request{Operation: control.OpDisconnect}},
		{text: `/scene "Live Cam"`, want: control.Request{Operation: control.OpSetScene, Args: control.Args{Scene: "Live Cam"}}},
		{text: "/scene Be Right Back", want: control.Request{Operation: control.OpSetScene, Args: control.Args{Scene: "Be Right Back"}}},
		{text: "/toggle Webcam", want: control.Request{Operation: control.OpToggleVisibility, Args: control.Args{Source: "Webcam"}}},
		{text: "/mute Mic", want: control.Request{Operation: control.OpMute, Args: control.Args{Source: "Mic"}}},
		{text: "/unmute Mic", want: control.Request{Operation: control.OpUnmute, Args: control.Args{Source: "Mic"}}},
		{text: "/stream start", want: control.Request{Operation: control.OpStreamStart}},
		{text: "/stream STOP", want: control.Request{Operation: control.OpStreamStop}},
		{text: "/record status", want: control.Request{Operation: control.OpRecordStatus}},
		{text: `/play "Intro Video"`, want: control.Request{Operation: control.OpMediaPlay, Args: control.Args{Source: "Intro Video"}}},
		{text: "/pause Music", want: control.Request{Operation: control.OpMediaPause, Args: control.Args{Source: "Music"}}},
		{text: "/restart Music", want: control.Request{Operation: control.OpMediaRestart, Args: control.Args{Source: "Music"}}},
		{text: "/stopmedia Music", want: control.Request{Operation: control.OpMediaStop, Args: control.Args{Source: "Music"}}},
		{text: "/next Playlist", want: control.Request{Operation: control.OpMediaNext, Args: control.Args{Source: "Playlist"}}},
		{text: "/previous Playlist", want: control.Request{Operation: control.OpMediaPrevious, Args: control.Args{Source: "Playlist"}}},
		{text: "/mediastatus Playlist", want: control.Request{Operation: control.OpMediaStatus, Args: control.Args{Source: "Playlist"}}},
		{text: "/stats", want: control.Request{Operation: control.OpStats}},
		{text: "/version", want: control.Request{Operation: control.OpVersion}},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			r, fc := newRouter(control.Response{Success: true, Message: "done"})

			ok, msg := r.Handle(context.Background(), tc.text, &user)
			assert.True(t, ok)
			assert.Equal(t, "done", msg)

			want := tc.want
			want.UserID = &user
			assert.Equal(t, want, fc.last(t))
		})
	}
}

func TestHandleConnectWithID(t *testing.T) {
	r, fc := newRouter(control.Response{Success: true, Message: "Connected to OBS"})

	ok, _ := r.Handle(context.Background(), "/connect 3", nil)
	require.True(t, ok)

	req := fc.last(t)
	require.NotNil(t, req.EndpointID)
	assert.Equal(t, int64(3), *req.EndpointID)

	ok, msg := r.Handle(context.Background(), "/connect three", nil)
	assert.False(t, ok)
	assert.Equal(t, msgInvalidID, msg)
	assert.Len(t, fc.requests, 1)
}

func TestHandleUsageErrors(t *testing.T) {
	r, fc := newRouter(control.Response{Success: true})

	tests := []struct {
		text string
		want string
	}{
		{"/scene", "Please specify a scene name. Usage: /scene <scene_name>"},
		{"/mute", "Please specify a source name. Usage: /mute <source>"},
		{"/play", "Please specify a source name. Usage: /play <source>"},
		{"/stream", "Please specify an action. Usage: /stream <start|stop|status>"},
		{"/record pause", "Please specify an action. Usage: /record <start|stop|status>"},
		{"/launch", "Unknown command /launch. Use /help to see available commands."},
		{"hello there", msgUnknownText},
		{`/scene "Live`, msgBadQuote},
	}

	for _, tc := range tests {
		ok, msg := r.Handle(context.Background(), tc.text, nil)
		assert.False(t, ok, tc.text)
		assert.Equal(t, tc.want, msg, tc.text)
	}

	assert.Empty(t, fc.requests)
}

func TestHandleFailurePassesMessage(t *testing.T) {
	r, _ := newRouter(control.Response{
		Message: "OBS is not connected, please connect first",
		Kind:    control.KindNotConnected,
	})

	ok, msg := r.Handle(context.Background(), "/scenes", nil)
	assert.False(t, ok)
	assert.Equal(t, "OBS is not connected, please connect first", msg)
}

func TestHandleHelpAndStart(t *testing.T) {
	r, fc := newRouter(control.Response{})

	ok, msg := r.Handle(context.Background(), "/help", nil)
	assert.True(t, ok)
	assert.Contains(t, msg, "/scene <name>")
	assert.Contains(t, msg, "/mediastatus <source>")

	ok, msg = r.Handle(context.Background(), "/start", nil)
	assert.True(t, ok)
	assert.Contains(t, msg, "/connect")
	assert.Empty(t, fc.requests)
}

func TestFormatScenes(t *testing.T) {
	r, _ := newRouter(control.Response{
		Success: true,
		Message: "Found 2 scenes",
		Data: control.ScenesResult{
			Current: "Live Cam",
			Scenes:  []models.Scene{{Name: "Intro", Index: 1}, {Name: "Live Cam", Index: 0}},
		},
	})

	ok, msg := r.Handle(context.Background(), "/scenes", nil)
	require.True(t, ok)
	assert.Equal(t, "Available scenes:\n1. Intro\n2. Live Cam (current)", msg)
}

func TestFormatSources(t *testing.T) {
	r, fc := newRouter(control.Response{
		Success: true,
		Data: []models.Source{
			{Name: "Webcam", Kind: "v4l2_input", Visible: true},
			{Name: "Music", Kind: "ffmpeg_source", Muted: true, Media: true},
		},
	})

	ok, msg := r.Handle(context.Background(), "/sources Live Cam", nil)
	require.True(t, ok)
	assert.Equal(t, "Sources:\n1. Webcam (v4l2_input) visible\n2. Music (ffmpeg_source) hidden, muted, media", msg)
	assert.Equal(t, "Live Cam", fc.last(t).Args.Scene)
}

func TestFormatStatus(t *testing.T) {
	r, _ := newRouter(control.Response{
		Success: true,
		Data: []models.EndpointStatus{
			{ID: 1, Name: "Studio", Connected: true, State: "connected", Default: true},
			{ID: 2, Name: "Backup", State: "reconnecting"},
			{ID: 3, Name: "Spare", State: "disconnected"},
		},
	})

	ok, msg := r.Handle(context.Background(), "/status", nil)
	require.True(t, ok)
	assert.Equal(t, "OBS connections:\n- Studio (1): Connected [default]\n- Backup (2): reconnecting\n- Spare (3): Disconnected", msg)

	r, _ = newRouter(control.Response{Success: true, Data: []models.EndpointStatus{}})

	_, msg = r.Handle(context.Background(), "/status", nil)
	assert.Equal(t, "No OBS connections configured", msg)
}
