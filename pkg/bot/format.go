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
	"fmt"
	"strings"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/models"
)

const helpText = `OBS control bot

Basic commands:
/start - Welcome message
/help - Show this help message
/status - Show OBS connection status

OBS control commands:
/connect [id] - Connect to OBS (default connection when no id)
/disconnect [id] - Disconnect from OBS
/scenes - List all scenes
/sources [scene] - List sources in the current or named scene
/scene <name> - Switch to scene
/stream <start|stop|status> - Control streaming
/record <start|stop|status> - Control recording
/mute <source> - Mute audio source
/unmute <source> - Unmute audio source
/toggle <source> - Toggle source visibility
/stats - Show OBS performance counters
/version - Show OBS and WebSocket versions

Media source commands:
/play <source> - Play media source
/pause <source> - Pause media source
/restart <source> - Restart media source
/stopmedia <source> - Stop media source
/next <source> - Play next item in a playlist source
/previous <source> - Play previous item in a playlist source
/mediastatus <source> - Show media source state

Names with spaces can be quoted, for example /scene "Live Cam".`

func formatStatus(resp control.Response) string {
	statuses, ok := resp.Data.([]models.EndpointStatus)
	if !ok {
		return resp.Message
	}

	if len(statuses) == 0 {
		return "No OBS connections configured"
	}

	var b strings.Builder

	b.WriteString("OBS connections:\n")

	for _, st := range statuses {
		state := "Disconnected"
		if st.Connected {
			state = "Connected"
		} else if st.State != "" && st.State != "disconnected" {
			state = st.State
		}

		fmt.Fprintf(&b, "- %s (%d): %s", st.Name, st.ID, state)

		if st.Default {
			b.WriteString(" [default]")
		}

		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatScenes(resp control.Response) string {
	result, ok := resp.Data.(control.ScenesResult)
	if !ok {
		return resp.Message
	}

	if len(result.Scenes) == 0 {
		return "No scenes found in OBS."
	}

	var b strings.Builder

	b.WriteString("Available scenes:\n")

	for i, scene := range result.Scenes {
		fmt.Fprintf(&b, "%d. %s", i+1, scene.Name)

		if scene.Name == result.Current {
			b.WriteString(" (current)")
		}

		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatSources(resp control.Response) string {
	list, ok := resp.Data.([]models.Source)
	if !ok {
		return resp.Message
	}

	if len(list) == 0 {
		return "No sources found in the scene."
	}

	var b strings.Builder

	b.WriteString("Sources:\n")

	for i, src := range list {
		flags := []string{"hidden"}
		if src.Visible {
			flags[0] = "visible"
		}

		if src.Muted {
			flags = append(flags, "muted")
		}

		if src.Media {
			flags = append(flags, "media")
		}

		fmt.Fprintf(&b, "%d. %s (%s) %s\n", i+1, src.Name, src.Kind, strings.Join(flags, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}
