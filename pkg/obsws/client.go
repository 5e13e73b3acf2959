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

// Package obsws is an obs-websocket 5.x client. It implements the
// session.Transport contract on top of gorilla/websocket.
package obsws

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

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/session"
)

const defaultHandshakeTimeout = 10 * time.Second

var (
	errUnexpectedOp     = errors.New("unexpected message op")
	errPasswordRequired = errors.New("server requires a password")
)

// Client dials OBS instances.
type Client struct {
	logger             logger.Logger
	handshakeTimeout   time.Duration
	eventSubscriptions int
	dialer             *websocket.Dialer
}

type Option func(*Client)

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.handshakeTimeout = d
	}
}

// WithEventSubscriptions sets the event bitmask sent in Identify. Events are
// read and logged at debug level; the default is none.
func WithEventSubscriptions(mask int) Option {
	return func(c *Client) {
		c.eventSubscriptions = mask
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:           logger.NewTestLogger(),
		handshakeTimeout: defaultHandshakeTimeout,
	}

	for _, o := range opts {
		o(c)
	}

	c.dialer = &websocket.Dialer{
		HandshakeTimeout: c.handshakeTimeout,
		Subprotocols:     []string{Subprotocol},
	}

	return c
}

// Dial connects to the endpoint and completes Hello/Identify. A rejected
// password is reported as session.ErrAuthenticationFailed.
func (c *Client) Dial(ctx context.Context, ep *models.Endpoint) (session.Conn, error) {
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))}

	ws, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	conn := newConn(ws, c.logger.WithFields(map[string]interface{}{
		"endpoint_id": ep.ID,
		"host":        ep.Host,
	}))

	if err := c.identify(ctx, ws, ep.Password); err != nil {
		_ = ws.Close()
		return nil, err
	}

	go conn.readLoop()

	return conn, nil
}

func (c *Client) identify(ctx context.Context, ws *websocket.Conn, password string) error {
	deadline := time.Now().Add(c.handshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	_ = ws.SetReadDeadline(deadline)
	_ = ws.SetWriteDeadline(deadline)

	var hello Hello
	if err := readOp(ws, OpHello, &hello); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}

	identify := Identify{
		RPCVersion:         RPCVersion,
		EventSubscriptions: c.eventSubscriptions,
	}

	if hello.Authentication != nil {
		if password == "" {
			return fmt.Errorf("%w: %w", session.ErrAuthenticationFailed, errPasswordRequired)
		}

		identify.Authentication = AuthResponse(password, hello.Authentication.Salt, hello.Authentication.Challenge)
	}

	if err := writeOp(ws, OpIdentify, identify); err != nil {
		return fmt.Errorf("send identify: %w", err)
	}

	var identified Identified
	if err := readOp(ws, OpIdentified, &identified); err != nil {
		if websocket.IsCloseError(err, CloseAuthenticationFailed) {
			return fmt.Errorf("%w: %w", session.ErrAuthenticationFailed, err)
		}

		return fmt.Errorf("read identified: %w", err)
	}

	_ = ws.SetReadDeadline(time.Time{})
	_ = ws.SetWriteDeadline(time.Time{})

	return nil
}

func readOp(ws *websocket.Conn, want OpCode, dst interface{}) error {
	var msg Message
	if err := ws.ReadJSON(&msg); err != nil {
		return err
	}

	if msg.Op != want {
		return fmt.Errorf("%w: got %d, want %d", errUnexpectedOp, msg.Op, want)
	}

	return json.Unmarshal(msg.Data, dst)
}

func writeOp(ws *websocket.Conn, op OpCode, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return ws.WriteJSON(Message{Op: op, Data: raw})
}
