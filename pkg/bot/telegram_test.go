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
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

const testToken = "123:secret"

type sentMessage struct {
	chatID string
	thread string
	text   string
}

// fakeBotAPI serves getUpdates from a queue of batches and records sendMessage.
type fakeBotAPI struct {
	t *testing.T

	mu      sync.Mutex
	batches [][]telegramUpdate
	offsets []string
	sent    []sentMessage
	failGet int

	sentCh chan sentMessage
	server *httptest.Server
}

func newFakeBotAPI(t *testing.T, batches ...[]telegramUpdate) *fakeBotAPI {
	t.Helper()

	f := &fakeBotAPI{t: t, batches: batches, sentCh: make(chan sentMessage, 16)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.URL.Path {
	case "/bot" + testToken + "/getUpdates":
		f.mu.Lock()
		f.offsets = append(f.offsets, r.PostForm.Get("offset"))

		if f.failGet > 0 {
			f.failGet--
			f.mu.Unlock()
			writeBotResponse(w, false, nil, "Bad Gateway")

			return
		}

		var batch []telegramUpdate
		if len(f.batches) > 0 {
			batch, f.batches = f.batches[0], f.batches[1:]
		}
		f.mu.Unlock()

		if batch == nil {
			select {
			case <-r.Context().Done():
			case <-time.After(50 * time.Millisecond):
			}
		}

		writeBotResponse(w, true, batch, "")
	case "/bot" + testToken + "/sendMessage":
		msg := sentMessage{
			chatID: r.PostForm.Get("chat_id"),
			thread: r.PostForm.Get("message_thread_id"),
			text:   r.PostForm.Get("text"),
		}

		f.mu.Lock()
		f.sent = append(f.sent, msg)
		f.mu.Unlock()

		f.sentCh <- msg

		writeBotResponse(w, true, map[string]int{"message_id": 1}, "")
	default:
		writeBotResponse(w, false, nil, "Not Found")
	}
}

func writeBotResponse(w http.ResponseWriter, ok bool, result interface{}, description string) {
	raw, _ := json.Marshal(result)
	_ = json.NewEncoder(w).Encode(telegramResponse{OK: ok, Result: raw, Description: description})
}

func (f *fakeBotAPI) waitSent(t *testing.T) sentMessage {
	t.Helper()

	select {
	case msg := <-f.sentCh:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message sent")
		return sentMessage{}
	}
}

type stubHandler struct {
	mu    sync.Mutex
	texts []string
	users []*int64
}

func (h *stubHandler) Handle(_ context.Context, text string, userID *int64) (bool, string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.texts = append(h.texts, text)
	h.users = append(h.users, userID)

	return true, "echo " + text
}

func textUpdate(id, chat, user int64, text string) telegramUpdate {
	return telegramUpdate{UpdateID: id, Message: &telegramMessage{
		MessageID: int(id),
		Chat:      telegramChat{ID: chat},
		From:      &telegramUser{ID: user},
		Text:      text,
	}}
}

func runTelegram(t *testing.T, api *fakeBotAPI, handler Handler, allowed ...int64) {
	t.Helper()

	tg := NewTelegram(&models.TelegramConfig{
		Token:        testToken,
		APIURL:       api.server.URL + "/",
		AllowedChats: allowed,
		PollTimeout:  models.Duration(time.Second),
	}, handler, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- tg.Run(ctx) }()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("telegram poller did not stop")
		}
	})
}

func TestTelegramRelaysCommands(t *testing.T) {
	api := newFakeBotAPI(t, []telegramUpdate{textUpdate(10, 555, 42, "/scenes")})
	handler := &stubHandler{}

	runTelegram(t, api, handler)

	msg := api.waitSent(t)
	assert.Equal(t, "555", msg.chatID)
	assert.Equal(t, "echo /scenes", msg.text)
	assert.Empty(t, msg.thread)

	handler.mu.Lock()
	require.Len(t, handler.users, 1)
	require.NotNil(t, handler.users[0])
	assert.Equal(t, int64(42), *handler.users[0])
	handler.mu.Unlock()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()

		return len(api.offsets) >= 2 && api.offsets[1] == "11"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTelegramIgnoresChatsNotAllowed(t *testing.T) {
	api := newFakeBotAPI(t, []telegramUpdate{
		textUpdate(1, 999, 7, "/stream start"),
		textUpdate(2, 555, 7, "/status"),
	})
	handler := &stubHandler{}

	runTelegram(t, api, handler, 555)

	msg := api.waitSent(t)
	assert.Equal(t, "555", msg.chatID)
	assert.Equal(t, "echo /status", msg.text)

	handler.mu.Lock()
	assert.Equal(t, []string{"/status"}, handler.texts)
	handler.mu.Unlock()
}

func TestTelegramRetriesFailedPolls(t *testing.T) {
	api := newFakeBotAPI(t, []telegramUpdate{textUpdate(3, 555, 7, "/help")})
	api.failGet = 1

	runTelegram(t, api, &stubHandler{})

	msg := api.waitSent(t)
	assert.Equal(t, "echo /help", msg.text)
}

func TestTelegramUsesRouterReplies(t *testing.T) {
	api := newFakeBotAPI(t, []telegramUpdate{textUpdate(4, 555, 7, `/scene "Live Cam"`)})
	router, fc := newRouter(control.Response{Success: true, Message: "ok"})

	runTelegram(t, api, router)

	msg := api.waitSent(t)
	assert.Equal(t, "555", msg.chatID)
	assert.NotEmpty(t, msg.text)
	assert.Equal(t, control.OpSetScene, fc.last(t).Operation)
	require.NotNil(t, fc.last(t).UserID)
	assert.Equal(t, int64(7), *fc.last(t).UserID)
}

func TestTelegramErrorsHideToken(t *testing.T) {
	tg := NewTelegram(&models.TelegramConfig{
		Token:       testToken,
		APIURL:      "http://127.0.0.1:1",
		PollTimeout: models.Duration(time.Second),
	}, &stubHandler{}, nil)

	_, err := tg.call(context.Background(), "getMe", nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	lines := strings.Repeat("line\n", 5)
	parts := splitMessage(lines, 12)
	assert.Equal(t, lines, strings.Join(parts, ""))

	for _, p := range parts {
		assert.LessOrEqual(t, len([]rune(p)), 12)
	}

	long := strings.Repeat("é", 25)
	parts = splitMessage(long, 10)
	assert.Equal(t, []string{strings.Repeat("é", 10), strings.Repeat("é", 10), strings.Repeat("é", 5)}, parts)
	assert.Equal(t, long, strings.Join(parts, ""))
}
