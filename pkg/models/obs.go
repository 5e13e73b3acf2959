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

package models

// Scene is one entry of the remote scene list.
type Scene struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Source is a scene item as seen at query time.
type Source struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Type        string  `json:"type"`
	SceneItemID int     `json:"scene_item_id"`
	Visible     bool    `json:"visible"`
	Muted       bool    `json:"muted"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Media       bool    `json:"media"`
}

// OutputStatus describes the stream or record output.
type OutputStatus struct {
	Active       bool    `json:"active"`
	Paused       bool    `json:"paused,omitempty"`
	Reconnecting bool    `json:"reconnecting,omitempty"`
	Timecode     string  `json:"timecode"`
	DurationMS   int64   `json:"duration_ms"`
	Bytes        int64   `json:"bytes"`
	Congestion   float64 `json:"congestion,omitempty"`
}

// Media playback states reported by OBS.
const (
	MediaStateNone      = "OBS_MEDIA_STATE_NONE"
	MediaStatePlaying   = "OBS_MEDIA_STATE_PLAYING"
	MediaStateOpening   = "OBS_MEDIA_STATE_OPENING"
	MediaStateBuffering = "OBS_MEDIA_STATE_BUFFERING"
	MediaStatePaused    = "OBS_MEDIA_STATE_PAUSED"
	MediaStateStopped   = "OBS_MEDIA_STATE_STOPPED"
	MediaStateEnded     = "OBS_MEDIA_STATE_ENDED"
	MediaStateError     = "OBS_MEDIA_STATE_ERROR"
)

// MediaStatus is the transport state of a media input.
type MediaStatus struct {
	Source     string `json:"source"`
	State      string `json:"state"`
	DurationMS int64  `json:"duration_ms"`
	CursorMS   int64  `json:"cursor_ms"`
}

// Playing reports whether the media input is currently playing.
func (m MediaStatus) Playing() bool {
	return m.State == MediaStatePlaying
}

// Stats is a subset of the OBS performance counters.
type Stats struct {
	CPUUsage            float64 `json:"cpu_usage"`
	MemoryUsageMB       float64 `json:"memory_usage_mb"`
	ActiveFPS           float64 `json:"active_fps"`
	AverageFrameTimeMS  float64 `json:"average_frame_time_ms"`
	RenderSkippedFrames int64   `json:"render_skipped_frames"`
	RenderTotalFrames   int64   `json:"render_total_frames"`
	OutputSkippedFrames int64   `json:"output_skipped_frames"`
	OutputTotalFrames   int64   `json:"output_total_frames"`
}

// Version identifies the remote OBS and WebSocket plugin.
type Version struct {
	OBSVersion       string `json:"obs_version"`
	WebSocketVersion string `json:"websocket_version"`
	RPCVersion       int    `json:"rpc_version"`
	Platform         string `json:"platform,omitempty"`
}
