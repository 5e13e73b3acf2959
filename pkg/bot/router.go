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

// Package bot maps chat slash commands onto facade operations and renders
// the outcome as plain text.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/logger"
)

const (
	msgUnknownText   = "I understand commands. Use /help to see available commands."
	msgWelcome       = "Welcome to the OBS control bot.\n\nUse /help to see available commands.\nUse /connect to connect to OBS Studio."
	msgBadQuote      = "Unterminated quote in command, close the quote and try again."
	msgInvalidID     = "Connection id must be a positive number."
	msgOutputActions = "Please specify an action. Usage: /%s <start|stop|status>"
)

// Commander runs facade operations. Implemented by *control.Service.
type Commander interface {
	Execute(ctx context.Context, req control.Request) control.Response
}

type call struct {
	args []string
	user *int64
}

type command func(ctx context.Context, r *Router, c call) (bool, string)

// Router dispatches chat commands. It is safe for concurrent use.
type Router struct {
	commands Commander
	logger   logger.Logger
	table    map[string]command
}

func NewRouter(commands Commander, log logger.Logger) *Router {
	if log == nil {
		log = logger.NewTestLogger()
	}

	r := &Router{commands: commands, logger: log}
	r.table = map[string]command{
		"start":       reply(msgWelcome),
		"help":        reply(helpText),
		"status":      status,
		"connect":     targeted(control.OpConnect),
		"disconnect":  targeted(control.OpDisconnect),
		"scenes":      scenes,
		"scene":       setScene,
		"sources":     sources,
		"toggle":      withSource("toggle", control.OpToggleVisibility),
		"mute":        withSource("mute", control.OpMute),
		"unmute":      withSource("unmute", control.OpUnmute),
		"stream":      output("stream", control.OpStreamStart, control.OpStreamStop, control.OpStreamStatus),
		"record":      output("record", control.OpRecordStart, control.OpRecordStop, control.OpRecordStatus),
		"play":        withSource("play", control.OpMediaPlay),
		"pause":       withSource("pause", control.OpMediaPause),
		"restart":     withSource("restart", control.OpMediaRestart),
		"stopmedia":   withSource("stopmedia", control.OpMediaStop),
		"next":        withSource("next", control.OpMediaNext),
		"previous":    withSource("previous", control.OpMediaPrevious),
		"mediastatus": withSource("mediastatus", control.OpMediaStatus),
		"stats":       plain(control.OpStats),
		"version":     plain(control.OpVersion),
	}

	return r
}

// Handle runs one chat message and returns whether it succeeded plus the
// text to send back.
func (r *Router) Handle(ctx context.Context, text string, userID *int64) (bool, string) {
	name, args, err := parseCommand(text)

	switch {
	case errors.Is(err, errNotCommand):
		return false, msgUnknownText
	case errors.Is(err, errUnterminatedQuote):
		return false, msgBadQuote
	}

	cmd, ok := r.table[name]
	if !ok {
		return false, fmt.Sprintf("Unknown command /%s. Use /help to see available commands.", name)
	}

	ok, msg := cmd(ctx, r, call{args: args, user: userID})

	r.logger.Debug().
		Str("command", name).
		Int("args", len(args)).
		Bool("success", ok).
		Msg("Handled chat command")

	return ok, msg
}

func (r *Router) execute(ctx context.Context, c call, req control.Request) control.Response {
	req.UserID = c.user

	return r.commands.Execute(ctx, req)
}

func reply(text string) command {
	return func(context.Context, *Router, call) (bool, string) {
		return true, text
	}
}

func plain(op control.Operation) command {
	return func(ctx context.Context, r *Router, c call) (bool, string) {
		resp := r.execute(ctx, c, control.Request{Operation: op})

		return resp.Success, resp.Message
	}
}

// targeted runs op on the connection id given as the first argument, or
// on the default connection.
func targeted(op control.Operation) command {
	return func(ctx context.Context, r *Router, c call) (bool, string) {
		req := control.Request{Operation: op}

		if len(c.args) > 0 {
			id, err := strconv.ParseInt(c.args[0], 10, 64)
			if err != nil || id <= 0 {
				return false, msgInvalidID
			}

			req.EndpointID = &id
		}

		resp := r.execute(ctx, c, req)

		return resp.Success, resp.Message
	}
}

func withSource(name string, op control.Operation) command {
	return func(ctx context.Context, r *Router, c call) (bool, string) {
		source := strings.Join(c.args, " ")
		if source == "" {
			return false, fmt.Sprintf("Please specify a source name. Usage: /%s <source>", name)
		}

		resp := r.execute(ctx, c, control.Request{Operation: op, Args: control.Args{Source: source}})

		return resp.Success, resp.Message
	}
}

func output(name string, start, stop, stat control.Operation) command {
	return func(ctx context.Context, r *Router, c call) (bool, string) {
		if len(c.args) == 0 {
			return false, fmt.Sprintf(msgOutputActions, name)
		}

		var op control.Operation

		switch strings.ToLower(c.args[0]) {
		case "start":
			op = start
		case "stop":
			op = stop
		case "status":
			op = stat
		default:
			return false, fmt.Sprintf(msgOutputActions, name)
		}

		resp := r.execute(ctx, c, control.Request{Operation: op})

		return resp.Success, resp.Message
	}
}

func status(ctx context.Context, r *Router, c call) (bool, string) {
	resp := r.execute(ctx, c, control.Request{Operation: control.OpStatus})
	if !resp.Success {
		return false, resp.Message
	}

	return true, formatStatus(resp)
}

func scenes(ctx context.Context, r *Router, c call) (bool, string) {
	resp := r.execute(ctx, c, control.Request{Operation: control.OpScenes})
	if !resp.Success {
		return false, resp.Message
	}

	return true, formatScenes(resp)
}

func setScene(ctx context.Context, r *Router, c call) (bool, string) {
	scene := strings.Join(c.args, " ")
	if scene == "" {
		return false, "Please specify a scene name. Usage: /scene <scene_name>"
	}

	resp := r.execute(ctx, c, control.Request{Operation: control.OpSetScene, Args: control.Args{Scene: scene}})

	return resp.Success, resp.Message
}

func sources(ctx context.Context, r *Router, c call) (bool, string) {
	resp := r.execute(ctx, c, control.Request{
		Operation: control.OpSources,
		Args:      control.Args{Scene: strings.Join(c.args, " ")},
	})
	if !resp.Success {
		return false, resp.Message
	}

	return true, formatSources(resp)
}
