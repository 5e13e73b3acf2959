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
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/probe"
)

// diagnosticsTarget reads host and port from the query. Port falls back to
// the obs-websocket default.
func (s *APIServer) diagnosticsTarget(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	q := r.URL.Query()

	host := strings.TrimSpace(q.Get("host"))
	if host == "" {
		s.writeError(w, "host is required", control.KindValidation, http.StatusBadRequest)
		return "", 0, false
	}

	port := probe.DefaultPort

	if raw := q.Get("port"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > 65535 {
			s.writeError(w, "port must be a number between 1 and 65535", control.KindValidation, http.StatusBadRequest)
			return "", 0, false
		}

		port = p
	}

	return host, port, true
}

// getDiagnostics runs the full probe and scans the usual OBS ports.
func (s *APIServer) getDiagnostics(w http.ResponseWriter, r *http.Request) {
	host, port, ok := s.diagnosticsTarget(w, r)
	if !ok {
		return
	}

	diag := s.diagnoser.Diagnose(r.Context(), host, port)

	resp := DiagnosticsResponse{
		Diagnostics: diag,
		Timestamp:   time.Now().UTC(),
	}

	if !diag.PortOpen {
		resp.CommonPorts = s.diagnoser.ScanCommonPorts(r.Context(), host)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *APIServer) getQuickDiagnostics(w http.ResponseWriter, r *http.Request) {
	host, port, ok := s.diagnosticsTarget(w, r)
	if !ok {
		return
	}

	result := s.diagnoser.Probe(r.Context(), host, port, probe.QuickTimeout)
	now := time.Now().UTC()

	s.writeJSON(w, http.StatusOK, DiagnosticsResponse{
		Diagnostics: probe.Diagnostics{
			Result:          result,
			Recommendations: probe.Recommend(result),
			CheckedAt:       now,
		},
		QuickTest: true,
		Timestamp: now,
	})
}
