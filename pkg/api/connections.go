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
	"strings"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/models"
)

// listConnections returns every configured endpoint with its live state.
func (s *APIServer) listConnections(w http.ResponseWriter, r *http.Request) {
	statuses := s.endpoints.List(r.Context())
	if statuses == nil {
		statuses = []models.EndpointStatus{}
	}

	s.writeJSON(w, http.StatusOK, statuses)
}

func (s *APIServer) createConnection(w http.ResponseWriter, r *http.Request) {
	var in models.EndpointInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	id, err := s.endpoints.AddEndpoint(r.Context(), &in)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.logger.Info().Int64("endpoint_id", id).Str("host", in.Host).Int("port", in.Port).Msg("OBS connection added")

	s.writeJSON(w, http.StatusOK, ConnectionResponse{ID: id, Message: "OBS connection added"})
}

func (s *APIServer) updateConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var in models.EndpointInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	if err := s.endpoints.UpdateEndpoint(r.Context(), id, &in); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ConnectionResponse{ID: id, Message: "OBS connection updated"})
}

func (s *APIServer) deleteConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.endpoints.RemoveEndpoint(r.Context(), id); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.logger.Info().Int64("endpoint_id", id).Msg("OBS connection removed")

	s.writeJSON(w, http.StatusOK, ConnectionResponse{ID: id, Message: "OBS connection removed"})
}

func (s *APIServer) setDefaultConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.endpoints.SetDefault(id); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ConnectionResponse{ID: id, Message: "Default OBS connection set"})
}

func (s *APIServer) connectConnection(w http.ResponseWriter, r *http.Request) {
	s.runOnPath(w, r, control.OpConnect)
}

func (s *APIServer) disconnectConnection(w http.ResponseWriter, r *http.Request) {
	s.runOnPath(w, r, control.OpDisconnect)
}

func (s *APIServer) runOnPath(w http.ResponseWriter, r *http.Request, op control.Operation) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	s.writeResponse(w, s.commands.Execute(r.Context(), control.Request{Operation: op, EndpointID: &id}))
}

// testConnection dials the posted parameters without saving them.
func (s *APIServer) testConnection(w http.ResponseWriter, r *http.Request) {
	var req TestConnectionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Host) == "" || req.Port == 0 {
		s.writeError(w, "Host and port are required", control.KindValidation, http.StatusBadRequest)
		return
	}

	s.writeResponse(w, s.tester.TestConnection(r.Context(), strings.TrimSpace(req.Host), req.Port, req.Password))
}
