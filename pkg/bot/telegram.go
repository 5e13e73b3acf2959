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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

const (
	// telegramMaxMessage stays under the Bot API limit of 4096 characters.
	telegramMaxMessage = 4000
	// pollGrace is added to the long-poll timeout for the HTTP client.
	pollGrace = 10 * time.Second
)

var errTelegramAPI = errors.New("telegram api error")

// Handler answers one chat message. Implemented by *Router.
type Handler interface {
	Handle(ctx context.Context, text string, userID *int64) (bool, string)
}

type telegramChat struct {
	ID int64 `json:"id"`
}

type telegramUser struct {
	ID int64 `json:"id"`
}

type telegramMessage struct {
	MessageID       int           `json:"message_id"`
	MessageThreadID int64         `json:"message_thread_id,omitempty"`
	Chat            telegramChat  `json:"chat"`
	From            *telegramUser `json:"from,omitempty"`
	Text            string        `json:"text"`
}

type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message,omitempty"`
}

type telegramResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Telegram long-polls the Bot API and relays text messages to a Handler.
type Telegram struct {
	token       string
	apiURL      string
	pollTimeout time.Duration
	allowed     map[int64]struct{}
	handler     Handler
	client      *http.Client
	retry       backoff.BackOff
	logger      zerolog.Logger
}

// NewTelegram builds a poller from a validated config.
func NewTelegram(cfg *models.TelegramConfig, handler Handler, log logger.Logger) *Telegram {
	if log == nil {
		log = logger.NewTestLogger()
	}

	allowed := make(map[int64]struct{}, len(cfg.AllowedChats))
	for _, id := range cfg.AllowedChats {
		allowed[id] = struct{}{}
	}

	pollTimeout := time.Duration(cfg.PollTimeout)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = time.Minute

	return &Telegram{
		token:       cfg.Token,
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		pollTimeout: pollTimeout,
		allowed:     allowed,
		handler:     handler,
		client:      &http.Client{Timeout: pollTimeout + pollGrace},
		retry:       retry,
		logger:      log.WithFields(map[string]interface{}{"component": "telegram"}),
	}
}

// Run polls for updates until ctx ends. Failed polls are retried with
// exponential backoff. It returns nil on cancellation.
func (t *Telegram) Run(ctx context.Context) error {
	t.logger.Info().Int("allowed_chats", len(t.allowed)).Msg("Starting Telegram bot")

	var offset int64

	for {
		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			wait := t.retry.NextBackOff()

			t.logger.Warn().Err(err).Dur("retry_in", wait).Msg("Telegram poll failed")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}

			continue
		}

		t.retry.Reset()

		for _, u := range updates {
			offset = u.UpdateID + 1

			if u.Message != nil {
				t.handle(ctx, u.Message)
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (t *Telegram) handle(ctx context.Context, msg *telegramMessage) {
	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	if len(t.allowed) > 0 {
		if _, ok := t.allowed[msg.Chat.ID]; !ok {
			t.logger.Debug().Int64("chat_id", msg.Chat.ID).Msg("Ignoring message from chat not in allowed_chats")
			return
		}
	}

	var userID *int64
	if msg.From != nil {
		id := msg.From.ID
		userID = &id
	}

	_, reply := t.handler.Handle(ctx, msg.Text, userID)
	if reply == "" {
		return
	}

	if err := t.sendMessage(ctx, msg.Chat.ID, msg.MessageThreadID, reply); err != nil {
		t.logger.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Failed to send Telegram reply")
	}
}

func (t *Telegram) getUpdates(ctx context.Context, offset int64) ([]telegramUpdate, error) {
	params := url.Values{
		"offset":          {strconv.FormatInt(offset, 10)},
		"timeout":         {strconv.Itoa(int(t.pollTimeout / time.Second))},
		"allowed_updates": {`["message"]`},
	}

	raw, err := t.call(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []telegramUpdate
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}

	return updates, nil
}

// sendMessage sends text as plain text, split into several messages when it
// is longer than Telegram accepts.
func (t *Telegram) sendMessage(ctx context.Context, chatID, threadID int64, text string) error {
	for _, part := range splitMessage(text, telegramMaxMessage) {
		params := url.Values{
			"chat_id": {strconv.FormatInt(chatID, 10)},
			"text":    {part},
		}

		if threadID > 0 {
			params.Set("message_thread_id", strconv.FormatInt(threadID, 10))
		}

		if _, err := t.call(ctx, "sendMessage", params); err != nil {
			return err
		}
	}

	return nil
}

// call posts a Bot API method. Errors never include the request URL, which
// carries the bot token.
func (t *Telegram) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	endpoint := t.apiURL + "/bot" + t.token + "/" + method

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", method, scrubURL(err))
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, scrubURL(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}

	var result telegramResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%s: decode response (status %d): %w", method, resp.StatusCode, err)
	}

	if !result.OK {
		return nil, fmt.Errorf("%w: %s: %s", errTelegramAPI, method, result.Description)
	}

	return result.Result, nil
}

func scrubURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}

	return err
}

// splitMessage breaks text into chunks of at most limit runes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string

	for len(runes) > limit {
		cut := limit

		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}

	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}

	return parts
}
