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

package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// HandshakeTimeout bounds the WebSocket upgrade plus the wait for Hello.
	HandshakeTimeout = 3 * time.Second

	obsSubprotocol = "obswebsocket.json"
	opHello        = 0
)

var errNotHello = errors.New("first message is not an obs-websocket Hello")

// Handshake reports whether an open port speaks obs-websocket 5.x.
type Handshake struct {
	Ready        bool   `json:"ready"`
	Version      string `json:"obs_websocket_version,omitempty"`
	RPCVersion   int    `json:"rpc_version,omitempty"`
	AuthRequired bool   `json:"auth_required"`
	Error        string `json:"error,omitempty"`
}

type helloFrame struct {
	Op   int `json:"op"`
	Data struct {
		OBSWebSocketVersion string          `json:"obsWebSocketVersion"`
		RPCVersion          int             `json:"rpcVersion"`
		Authentication      json.RawMessage `json:"authentication"`
	} `json:"d"`
}

// CheckHandshake upgrades host:port to a WebSocket and waits for the server
// Hello. It never identifies, so no password is needed and OBS sees only a
// short-lived client.
func (p *Prober) CheckHandshake(ctx context.Context, host string, port int, timeout time.Duration) Handshake {
	if timeout <= 0 {
		timeout = HandshakeTimeout
	}

	hsCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := websocket.Dialer{
		NetDialContext:   p.dialer.DialContext,
		HandshakeTimeout: timeout,
		Subprotocols:     []string{obsSubprotocol},
	}

	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, strconv.Itoa(port))}

	ws, resp, err := dialer.DialContext(hsCtx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		p.logger.Debug().Str("url", u.String()).Err(err).Msg("WebSocket upgrade failed")

		return Handshake{Error: err.Error()}
	}

	defer func() { _ = ws.Close() }()

	if deadline, ok := hsCtx.Deadline(); ok {
		_ = ws.SetReadDeadline(deadline)
	}

	var hello helloFrame
	if err := ws.ReadJSON(&hello); err != nil {
		return Handshake{Error: fmt.Sprintf("read hello: %v", err)}
	}

	if hello.Op != opHello || hello.Data.RPCVersion == 0 {
		return Handshake{Error: fmt.Sprintf("%v (op %d)", errNotHello, hello.Op)}
	}

	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))

	return Handshake{
		Ready:        true,
		Version:      hello.Data.OBSWebSocketVersion,
		RPCVersion:   hello.Data.RPCVersion,
		AuthRequired: len(hello.Data.Authentication) > 0 && string(hello.Data.Authentication) != "null",
	}
}
