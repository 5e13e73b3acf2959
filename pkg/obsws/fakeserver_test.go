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

package obsws

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obsctl/pkg/models"
)

type requestHandler func(req Request) RequestResponse

// fakeOBS speaks just enough obs-websocket 5.x for the client tests.
type fakeOBS struct {
	t        *testing.T
	password string
	salt     string
	handle   requestHandler

	mu    sync.Mutex
	conns []*websocket.Conn

	server *httptest.Server
}

func newFakeOBS(t *testing.T, password string, handle requestHandler) *fakeOBS {
	t.Helper()

	f := &fakeOBS{t: t, password: password, salt: "c2FsdA==", handle: handle}

	upgrader := websocket.Upgrader{Subprotocols: []string{Subprotocol}}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		f.mu.Lock()
		f.conns = append(f.conns, ws)
		f.mu.Unlock()

		f.serve(ws)
	}))

	t.Cleanup(f.server.Close)

	return f
}

const fakeChallenge = "Y2hhbGxlbmdl"

func (f *fakeOBS) serve(ws *websocket.Conn) {
	defer func() { _ = ws.Close() }()

	hello := Hello{OBSWebSocketVersion: "5.4.2", RPCVersion: RPCVersion}
	if f.password != "" {
		hello.Authentication = &AuthChallenge{Challenge: fakeChallenge, Salt: f.salt}
	}

	if err := writeOp(ws, OpHello, hello); err != nil {
		return
	}

	var identify Identify
	if err := readOp(ws, OpIdentify, &identify); err != nil {
		return
	}

	if f.password != "" && identify.Authentication != AuthResponse(f.password, f.salt, fakeChallenge) {
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseAuthenticationFailed, "Authentication failed."))

		return
	}

	if err := writeOp(ws, OpIdentified, Identified{NegotiatedRPCVersion: RPCVersion}); err != nil {
		return
	}

	// an unsolicited event the client must ignore
	_ = writeOp(ws, OpEvent, Event{EventType: "CurrentProgramSceneChanged", EventIntent: 4})

	var writeMu sync.Mutex

	for {
		var req Request
		if err := readOp(ws, OpRequest, &req); err != nil {
			return
		}

		go func(req Request) {
			resp := f.handle(req)
			resp.RequestID = req.RequestID
			resp.RequestType = req.RequestType

			writeMu.Lock()
			defer writeMu.Unlock()

			_ = writeOp(ws, OpRequestResponse, resp)
		}(req)
	}
}

// dropAll closes every server side connection without a close frame.
func (f *fakeOBS) dropAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ws := range f.conns {
		_ = ws.UnderlyingConn().Close()
	}
}

func (f *fakeOBS) endpoint(password string) *models.Endpoint {
	u, err := url.Parse(f.server.URL)
	require.NoError(f.t, err)

	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(f.t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(f.t, err)

	return &models.Endpoint{ID: 1, Name: "fake", Host: host, Port: port, Password: password}
}

func ok(data interface{}) RequestResponse {
	raw, _ := json.Marshal(data)
	return RequestResponse{RequestStatus: RequestStatus{Result: true, Code: statusSuccess}, ResponseData: raw}
}
