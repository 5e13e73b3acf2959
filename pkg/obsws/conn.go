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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/carverauto/obsctl/pkg/session"
)

const (
	closeWriteTimeout = time.Second
	// requestWriteTimeout bounds a single frame write. It is independent of
	// the caller's context: gorilla treats an expired write deadline as fatal
	// for the whole connection.
	requestWriteTimeout = 5 * time.Second
)

// Conn is an identified obs-websocket connection. Requests are correlated to
// responses by request id, so concurrent Calls are fine.
type Conn struct {
	ws     *websocket.Conn
	logger zerolog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan *RequestResponse
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, log zerolog.Logger) *Conn {
	return &Conn{
		ws:      ws,
		logger:  log,
		pending: make(map[string]chan *RequestResponse),
		done:    make(chan struct{}),
	}
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Call sends one request and waits for its response.
func (c *Conn) Call(ctx context.Context, requestType string, data, out interface{}) error {
	id := uuid.NewString()
	ch := make(chan *RequestResponse, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()

		return fmt.Errorf("%w: %w", session.ErrConnectionLost, err)
	}

	c.pending[id] = ch
	c.mu.Unlock()

	defer c.forget(id)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.write(Request{RequestType: requestType, RequestID: id, RequestData: data}); err != nil {
		return fmt.Errorf("send %s: %w", requestType, err)
	}

	select {
	case resp := <-ch:
		return decodeResponse(resp, out)
	case <-c.done:
		return fmt.Errorf("%w: %w", session.ErrConnectionLost, c.closeErr())
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeResponse(resp *RequestResponse, out interface{}) error {
	if !resp.RequestStatus.Result {
		return &session.RemoteError{Code: resp.RequestStatus.Code, Message: resp.RequestStatus.Comment}
	}

	if out == nil || len(resp.ResponseData) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.ResponseData, out); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.RequestType, err)
	}

	return nil
}

// write sends one request frame. A failed write leaves the gorilla
// connection unusable, so it is torn down and Done fires.
func (c *Conn) write(req Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(requestWriteTimeout))
	err = c.ws.WriteJSON(Message{Op: OpRequest, Data: raw})
	c.writeMu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Msg("OBS request write failed, closing connection")
		c.terminate(err)

		return fmt.Errorf("%w: %w", session.ErrConnectionLost, err)
	}

	return nil
}

func (c *Conn) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Conn) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

func (c *Conn) readLoop() {
	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Msg("OBS connection closed")
			}

			c.terminate(err)

			return
		}

		switch msg.Op {
		case OpRequestResponse:
			c.dispatch(msg.Data)
		case OpEvent:
			var ev Event
			if err := json.Unmarshal(msg.Data, &ev); err == nil {
				c.logger.Debug().Str("event", ev.EventType).Msg("OBS event")
			}
		case OpHello, OpIdentify, OpIdentified, OpReidentify, OpRequest:
			c.logger.Debug().Int("op", int(msg.Op)).Msg("Ignoring message")
		default:
			c.logger.Debug().Int("op", int(msg.Op)).Msg("Ignoring unknown message")
		}
	}
}

func (c *Conn) dispatch(data json.RawMessage) {
	var resp RequestResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn().Err(err).Msg("Malformed request response")
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[resp.RequestID]
	delete(c.pending, resp.RequestID)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug().Str("request_id", resp.RequestID).Msg("Response for unknown request")
		return
	}

	ch <- &resp
}

func (c *Conn) terminate(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if err == nil {
			err = websocket.ErrCloseSent
		}

		c.err = err
		c.mu.Unlock()

		_ = c.ws.Close()

		close(c.done)
	})
}

// Close sends a normal close frame and tears down the connection.
func (c *Conn) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}

	c.writeMu.Lock()
	err := c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeWriteTimeout))
	c.writeMu.Unlock()

	c.terminate(nil)

	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}

	return nil
}
