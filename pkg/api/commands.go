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
	"net/http"

	"github.com/carverauto/obsctl/pkg/control"
)

// handleCommand runs any facade operation from a JSON control.Request.
func (s *APIServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req control.Request
	if !s.decodeBody(w, r, &req) {
		return
	}

	s.writeResponse(w, s.commands.Execute(r.Context(), req))
}

func (s *APIServer) outputStatus(op control.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.queryID(w, r)
		if !ok {
			return
		}

		s.writeResponse(w, s.commands.Execute(r.Context(), control.Request{Operation: op, EndpointID: id}))
	}
}

func (s *APIServer) outputAction(start, stop control.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OutputActionRequest
		if !s.decodeBody(w, r, &req) {
			return
		}

		var op control.Operation

		switch req.Action {
		case "start":
			op = start
		case "stop":
			op = stop
		default:
			s.writeError(w, `Invalid action. Use "start" or "stop"`, control.KindValidation, http.StatusBadRequest)
			return
		}

		s.writeResponse(w, s.commands.Execute(r.Context(), control.Request{Operation: op, EndpointID: req.ConnectionID}))
	}
}

// handleChat always answers 200: the reply text is meant for the chat user.
func (s *APIServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ok, msg := s.chat.Handle(r.Context(), req.Text, req.UserID)

	s.writeJSON(w, http.StatusOK, ChatResponse{Success: ok, Message: msg})
}
