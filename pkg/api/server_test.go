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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/registry"
)

type testServer struct {
	commands  *MockCommander
	endpoints *MockEndpointAdmin
	diagnoser *MockDiagnoser
	handler   http.Handler
}

func newTestServer(t *testing.T, opts ...func(*APIServer)) *testServer {
	t.Helper()

	ctrl := gomock.NewController(t)

	ts := &testServer{
		commands:  NewMockCommander(ctrl),
		endpoints: NewMockEndpointAdmin(ctrl),
		diagnoser: NewMockDiagnoser(ctrl),
	}

	opts = append([]func(*APIServer){
		WithCommander(ts.commands),
		WithEndpointAdmin(ts.endpoints),
		WithDiagnoser(ts.diagnoser),
		WithLogger(logger.NewTestLogger()),
	}, opts...)

	ts.handler = NewAPIServer(models.CORSConfig{}, opts...).Handler()

	return ts
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, WithAPIKey("secret"))

	ts.endpoints.EXPECT().List(gomock.Any()).Return([]models.EndpointStatus{
		{ID: 1, Connected: true}, {ID: 2},
	})

	rr := ts.do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Connections)
	assert.Equal(t, 1, resp.Connected)
}

func TestAPIKeyProtectsOBSRoutes(t *testing.T) {
	ts := newTestServer(t, WithAPIKey("secret"))

	rr := ts.do(http.MethodGet, "/api/obs/connections", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	ts.endpoints.EXPECT().List(gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/obs/connections", http.NoBody)
	req.Header.Set("X-API-Key", "secret")

	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCreateConnection(t *testing.T) {
	ts := newTestServer(t)

	ts.endpoints.EXPECT().
		AddEndpoint(gomock.Any(), &models.EndpointInput{Name: "studio", Host: "10.0.0.5", Port: 4455, Password: "pw"}).
		Return(int64(3), nil)

	rr := ts.do(http.MethodPost, "/api/obs/connections",
		`{"name":"studio","host":"10.0.0.5","port":4455,"password":"pw"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ConnectionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.ID)
}

func TestCreateConnectionErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/api/obs/connections", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rr).Error)

	ts.endpoints.EXPECT().AddEndpoint(gomock.Any(), gomock.Any()).
		Return(int64(0), &registry.ValidationError{Field: "port", Message: "port must be between 1 and 65535"})

	rr = ts.do(http.MethodPost, "/api/obs/connections", `{"name":"x","host":"h","port":70000}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "port must be between 1 and 65535", decodeError(t, rr).Error)

	ts.endpoints.EXPECT().AddEndpoint(gomock.Any(), gomock.Any()).
		Return(int64(0), fmt.Errorf("insert: %w", errors.New("pool closed")))

	rr = ts.do(http.MethodPost, "/api/obs/connections", `{"name":"x","host":"h","port":4455}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", decodeError(t, rr).Error)
}

func TestUpdateAndDeleteConnection(t *testing.T) {
	ts := newTestServer(t)

	ts.endpoints.EXPECT().UpdateEndpoint(gomock.Any(), int64(2), &models.EndpointInput{Name: "b", Host: "h", Port: 4456}).Return(nil)

	rr := ts.do(http.MethodPut, "/api/obs/connections/2", `{"name":"b","host":"h","port":4456}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	ts.endpoints.EXPECT().RemoveEndpoint(gomock.Any(), int64(9)).Return(registry.ErrEndpointNotFound)

	rr = ts.do(http.MethodDelete, "/api/obs/connections/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "OBS connection not found", decodeError(t, rr).Error)

	rr = ts.do(http.MethodDelete, "/api/obs/connections/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSetDefaultConnection(t *testing.T) {
	ts := newTestServer(t)

	ts.endpoints.EXPECT().SetDefault(int64(4)).Return(nil)

	rr := ts.do(http.MethodPost, "/api/obs/connections/4/default", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestConnectConnection(t *testing.T) {
	ts := newTestServer(t)

	ts.commands.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req control.Request) control.Response {
			assert.Equal(t, control.OpConnect, req.Operation)
			require.NotNil(t, req.EndpointID)
			assert.Equal(t, int64(5), *req.EndpointID)

			return control.Response{
				Success: false,
				Message: "connection refused on 10.0.0.5:4455",
				Kind:    control.KindUnreachable,
			}
		})

	rr := ts.do(http.MethodPost, "/api/obs/connections/5/connect", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "connection refused on 10.0.0.5:4455", resp.Error)
	assert.Equal(t, control.KindUnreachable, resp.Kind)
}

func TestDisconnectConnection(t *testing.T) {
	ts := newTestServer(t)

	ts.commands.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(control.Response{Success: true, Message: "Disconnected from OBS"})

	rr := ts.do(http.MethodPost, "/api/obs/connections/1/disconnect", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp control.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Disconnected from OBS", resp.Message)
}

func TestCommandStatusCodes(t *testing.T) {
	tests := []struct {
		kind control.ErrorKind
		want int
	}{
		{control.KindNone, http.StatusOK},
		{control.KindValidation, http.StatusBadRequest},
		{control.KindNotFound, http.StatusNotFound},
		{control.KindNoEndpoint, http.StatusInternalServerError},
		{control.KindSourceNotFound, http.StatusNotFound},
		{control.KindNotConnected, http.StatusConflict},
		{control.KindRemote, http.StatusInternalServerError},
		{control.KindTimeout, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			ts := newTestServer(t)

			ts.commands.EXPECT().Execute(gomock.Any(), control.Request{
				Operation: control.OpSetScene,
				Args:      control.Args{Scene: "Live Cam"},
			}).Return(control.Response{Success: tc.kind == control.KindNone, Message: "m", Kind: tc.kind})

			rr := ts.do(http.MethodPost, "/api/obs/command", `{"operation":"set_scene","args":{"scene":"Live Cam"}}`)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestStreamRoutes(t *testing.T) {
	ts := newTestServer(t)

	id := int64(2)

	ts.commands.EXPECT().
		Execute(gomock.Any(), control.Request{Operation: control.OpStreamStart, EndpointID: &id}).
		Return(control.Response{Success: true, Message: "Stream started"})

	rr := ts.do(http.MethodPost, "/api/obs/stream", `{"action":"start","connection_id":2}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(http.MethodPost, "/api/obs/stream", `{"action":"pause"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `Invalid action. Use "start" or "stop"`, decodeError(t, rr).Error)

	ts.commands.EXPECT().
		Execute(gomock.Any(), control.Request{Operation: control.OpStreamStatus}).
		Return(control.Response{Success: false, Message: "OBS is not connected, please connect first", Kind: control.KindNotConnected})

	rr = ts.do(http.MethodGet, "/api/obs/stream/status", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.do(http.MethodGet, "/api/obs/record/status?connection_id=x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordRoutes(t *testing.T) {
	ts := newTestServer(t)

	id := int64(1)

	ts.commands.EXPECT().
		Execute(gomock.Any(), control.Request{Operation: control.OpRecordStatus, EndpointID: &id}).
		Return(control.Response{Success: true, Message: "Not recording"})
	ts.commands.EXPECT().
		Execute(gomock.Any(), control.Request{Operation: control.OpRecordStop}).
		Return(control.Response{Success: true, Message: "Recording stopped"})

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/obs/record/status?connection_id=1", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/obs/record", `{"action":"stop"}`).Code)
}

func TestDiagnostics(t *testing.T) {
	ts := newTestServer(t)

	refused := probe.Result{Host: "10.0.0.5", Port: 4455, Reachable: true, Reason: probe.ReasonRefused}

	ts.diagnoser.EXPECT().Diagnose(gomock.Any(), "10.0.0.5", 4455).
		Return(probe.Diagnostics{Result: refused, Recommendations: probe.Recommend(refused)})
	ts.diagnoser.EXPECT().ScanCommonPorts(gomock.Any(), "10.0.0.5").
		Return([]probe.PortResult{{Port: 4455, Reason: probe.ReasonRefused}, {Port: 4466, Open: true, Reason: probe.ReasonNone}})

	rr := ts.do(http.MethodGet, "/api/obs/diagnostics?host=10.0.0.5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DiagnosticsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, probe.ReasonRefused, resp.Diagnostics.Reason)
	assert.NotEmpty(t, resp.Diagnostics.Recommendations)
	require.Len(t, resp.CommonPorts, 2)
	assert.True(t, resp.CommonPorts[1].Open)
	assert.False(t, resp.QuickTest)
}

func TestQuickDiagnostics(t *testing.T) {
	ts := newTestServer(t)

	ts.diagnoser.EXPECT().Probe(gomock.Any(), "obs.local", 4466, probe.QuickTimeout).
		Return(probe.Result{Host: "obs.local", Port: 4466, Reachable: true, PortOpen: true, Reason: probe.ReasonNone})

	rr := ts.do(http.MethodGet, "/api/obs/diagnostics/quick?host=obs.local&port=4466", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DiagnosticsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.QuickTest)
	assert.True(t, resp.Diagnostics.PortOpen)
	assert.Contains(t, resp.Diagnostics.Recommendations, "Port 4466 is open and accepting connections")
}

func TestDiagnosticsValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/obs/diagnostics", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "host is required", decodeError(t, rr).Error)

	rr = ts.do(http.MethodGet, "/api/obs/diagnostics/quick?host=h&port=99999", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatRoute(t *testing.T) {
	chat := NewMockChatHandler(gomock.NewController(t))
	ts := newTestServer(t, WithChatHandler(chat))

	user := int64(42)
	chat.EXPECT().Handle(gomock.Any(), `/scene "Live Cam"`, &user).Return(true, `Switched to scene "Live Cam"`)

	rr := ts.do(http.MethodPost, "/api/obs/chat", `{"text":"/scene \"Live Cam\"","user_id":42}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, `Switched to scene "Live Cam"`, resp.Message)
}

func TestChatRouteDisabled(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/api/obs/chat", `{"text":"/help"}`)
	assert.NotEqual(t, http.StatusOK, rr.Code)
}

func TestTestConnectionRoute(t *testing.T) {
	tester := NewMockConnectionTester(gomock.NewController(t))
	ts := newTestServer(t, WithConnectionTester(tester))

	tester.EXPECT().TestConnection(gomock.Any(), "10.0.0.7", 4455, "pw").Return(control.Response{
		Success: true,
		Message: "OBS connection test successful",
		Data:    map[string]interface{}{"scene_count": 2},
	})

	rr := ts.do(http.MethodPost, "/api/obs/test-connection", `{"host":" 10.0.0.7 ","port":4455,"password":"pw"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp control.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "OBS connection test successful", resp.Message)
}

func TestTestConnectionRouteFailure(t *testing.T) {
	tester := NewMockConnectionTester(gomock.NewController(t))
	ts := newTestServer(t, WithConnectionTester(tester))

	tester.EXPECT().TestConnection(gomock.Any(), "10.0.0.7", 4455, "").Return(control.Response{
		Message: "authentication failed, check the WebSocket password",
		Kind:    control.KindAuth,
	})

	rr := ts.do(http.MethodPost, "/api/obs/test-connection", `{"host":"10.0.0.7","port":4455}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, control.KindAuth, decodeError(t, rr).Kind)
}

func TestTestConnectionRouteRequiresHostAndPort(t *testing.T) {
	tester := NewMockConnectionTester(gomock.NewController(t))
	ts := newTestServer(t, WithConnectionTester(tester))

	rr := ts.do(http.MethodPost, "/api/obs/test-connection", `{"host":"10.0.0.7"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Host and port are required", decodeError(t, rr).Error)

	rr = ts.do(http.MethodPost, "/api/obs/test-connection", `{"port":4455}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
