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

// Request types and payload shapes of obs-websocket 5.x. These never leave
// the package; operations convert them to models types.
const (
	reqGetSceneList            = "GetSceneList"
	reqGetCurrentProgramScene  = "GetCurrentProgramScene"
	reqSetCurrentProgramScene  = "SetCurrentProgramScene"
	reqGetSceneItemList        = "GetSceneItemList"
	reqGetSceneItemID          = "GetSceneItemId"
	reqGetSceneItemEnabled     = "GetSceneItemEnabled"
	reqSetSceneItemEnabled     = "SetSceneItemEnabled"
	reqGetInputList            = "GetInputList"
	reqGetInputMute            = "GetInputMute"
	reqSetInputMute            = "SetInputMute"
	reqToggleInputMute         = "ToggleInputMute"
	reqGetInputSettings        = "GetInputSettings"
	reqGetStreamStatus         = "GetStreamStatus"
	reqStartStream             = "StartStream"
	reqStopStream              = "StopStream"
	reqGetRecordStatus         = "GetRecordStatus"
	reqStartRecord             = "StartRecord"
	reqStopRecord              = "StopRecord"
	reqTriggerMediaInputAction = "TriggerMediaInputAction"
	reqGetMediaInputStatus     = "GetMediaInputStatus"
	reqGetStats                = "GetStats"
	reqGetVersion              = "GetVersion"
)

const sourceTypeInput = "OBS_SOURCE_TYPE_INPUT"

type sceneListResponse struct {
	CurrentProgramSceneName string `json:"currentProgramSceneName"`
	Scenes                  []struct {
		SceneName  string `json:"sceneName"`
		SceneIndex int    `json:"sceneIndex"`
	} `json:"scenes"`
}

type currentSceneResponse struct {
	CurrentProgramSceneName string `json:"currentProgramSceneName"`
}

type sceneNameRequest struct {
	SceneName string `json:"sceneName"`
}

type sceneItem struct {
	SceneItemID      int    `json:"sceneItemId"`
	SourceName       string `json:"sourceName"`
	SourceType       string `json:"sourceType"`
	InputKind        string `json:"inputKind"`
	SceneItemEnabled bool   `json:"sceneItemEnabled"`
	Transform        struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"sceneItemTransform"`
}

type sceneItemListResponse struct {
	SceneItems []sceneItem `json:"sceneItems"`
}

type sceneItemIDRequest struct {
	SceneName  string `json:"sceneName"`
	SourceName string `json:"sourceName"`
}

type sceneItemIDResponse struct {
	SceneItemID int `json:"sceneItemId"`
}

type sceneItemRequest struct {
	SceneName   string `json:"sceneName"`
	SceneItemID int    `json:"sceneItemId"`
}

type sceneItemEnabledRequest struct {
	SceneName        string `json:"sceneName"`
	SceneItemID      int    `json:"sceneItemId"`
	SceneItemEnabled bool   `json:"sceneItemEnabled"`
}

type sceneItemEnabledResponse struct {
	SceneItemEnabled bool `json:"sceneItemEnabled"`
}

type inputListResponse struct {
	Inputs []struct {
		InputName string `json:"inputName"`
		InputKind string `json:"inputKind"`
	} `json:"inputs"`
}

type inputNameRequest struct {
	InputName string `json:"inputName"`
}

type inputMuteRequest struct {
	InputName  string `json:"inputName"`
	InputMuted bool   `json:"inputMuted"`
}

type inputMuteResponse struct {
	InputMuted bool `json:"inputMuted"`
}

type inputSettingsResponse struct {
	InputKind string `json:"inputKind"`
}

type outputStatusResponse struct {
	OutputActive       bool    `json:"outputActive"`
	OutputPaused       bool    `json:"outputPaused"`
	OutputReconnecting bool    `json:"outputReconnecting"`
	OutputTimecode     string  `json:"outputTimecode"`
	OutputDuration     int64   `json:"outputDuration"`
	OutputBytes        int64   `json:"outputBytes"`
	OutputCongestion   float64 `json:"outputCongestion"`
}

type mediaActionRequest struct {
	InputName   string `json:"inputName"`
	MediaAction string `json:"mediaAction"`
}

type mediaStatusResponse struct {
	MediaState    string `json:"mediaState"`
	MediaDuration *int64 `json:"mediaDuration"`
	MediaCursor   *int64 `json:"mediaCursor"`
}

type statsResponse struct {
	CPUUsage               float64 `json:"cpuUsage"`
	MemoryUsage            float64 `json:"memoryUsage"`
	ActiveFPS              float64 `json:"activeFps"`
	AverageFrameRenderTime float64 `json:"averageFrameRenderTime"`
	RenderSkippedFrames    int64   `json:"renderSkippedFrames"`
	RenderTotalFrames      int64   `json:"renderTotalFrames"`
	OutputSkippedFrames    int64   `json:"outputSkippedFrames"`
	OutputTotalFrames      int64   `json:"outputTotalFrames"`
}

type versionResponse struct {
	OBSVersion          string `json:"obsVersion"`
	OBSWebSocketVersion string `json:"obsWebSocketVersion"`
	RPCVersion          int    `json:"rpcVersion"`
	Platform            string `json:"platform"`
}
