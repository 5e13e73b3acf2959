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

// Package api exposes the command facade and endpoint administration over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/obsctl/pkg/control"
	srHttp "github.com/carverauto/obsctl/pkg/http"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	maxBodyBytes        = 1 << 20
	healthPath          = "/api/health"
)

var errServerNotStarted = errors.New("api server not started")

// APIServer serves the obsctl HTTP API.
type APIServer struct {
	router     *mux.Router
	corsConfig models.CORSConfig
	apiKey     string
	commands   Commander
	endpoints  EndpointAdmin
	diagnoser  Diagnoser
	chat       ChatHandler
	tester     ConnectionTester
	logger     logger.Logger
	srv        *http.Server
}

// NewAPIServer creates a new API server instance with the given configuration.
func NewAPIServer(config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:     mux.NewRouter(),
		corsConfig: config,
	}

	for _, o := range options {
		o(s)
	}

	if s.logger == nil {
		s.logger = logger.NewTestLogger()
	}

	if s.diagnoser == nil {
		s.diagnoser = probe.NewProber(s.logger)
	}

	s.setupRoutes()

	return s
}

func WithCommander(c Commander) func(server *APIServer) {
	return func(server *APIServer) {
		server.commands = c
	}
}

func WithEndpointAdmin(a EndpointAdmin) func(server *APIServer) {
	return func(server *APIServer) {
		server.endpoints = a
	}
}

func WithDiagnoser(d Diagnoser) func(server *APIServer) {
	return func(server *APIServer) {
		server.diagnoser = d
	}
}

// WithChatHandler enables the chat relay route.
func WithChatHandler(h ChatHandler) func(server *APIServer) {
	return func(server *APIServer) {
		server.chat = h
	}
}

// WithConnectionTester enables the test-connection route.
func WithConnectionTester(t ConnectionTester) func(server *APIServer) {
	return func(server *APIServer) {
		server.tester = t
	}
}

// WithAPIKey requires the key on every route except health.
func WithAPIKey(key string) func(server *APIServer) {
	return func(server *APIServer) {
		server.apiKey = key
	}
}

func WithLogger(log logger.Logger) func(server *APIServer) {
	return func(server *APIServer) {
		server.logger = log
	}
}

func (s *APIServer) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return srHttp.CommonMiddleware(next, s.corsConfig, s.logger)
	})

	s.router.HandleFunc(healthPath, s.getHealth).Methods(http.MethodGet)

	protected := s.router.PathPrefix("/api/obs").Subrouter()
	protected.Use(srHttp.APIKeyMiddlewareWithOptions(srHttp.APIKeyOptions{
		APIKey:          s.apiKey,
		LogUnauthorized: true,
		Logger:          s.logger,
	}))

	protected.HandleFunc("/connections", s.listConnections).Methods(http.MethodGet)
	protected.HandleFunc("/connections", s.createConnection).Methods(http.MethodPost)
	protected.HandleFunc("/connections/{id}", s.updateConnection).Methods(http.MethodPut)
	protected.HandleFunc("/connections/{id}", s.deleteConnection).Methods(http.MethodDelete)
	protected.HandleFunc("/connections/{id}/connect", s.connectConnection).Methods(http.MethodPost)
	protected.HandleFunc("/connections/{id}/disconnect", s.disconnectConnection).Methods(http.MethodPost)
	protected.HandleFunc("/connections/{id}/default", s.setDefaultConnection).Methods(http.MethodPost)

	protected.HandleFunc("/command", s.handleCommand).Methods(http.MethodPost)

	protected.HandleFunc("/stream/status", s.outputStatus(control.OpStreamStatus)).Methods(http.MethodGet)
	protected.HandleFunc("/stream", s.outputAction(control.OpStreamStart, control.OpStreamStop)).Methods(http.MethodPost)
	protected.HandleFunc("/record/status", s.outputStatus(control.OpRecordStatus)).Methods(http.MethodGet)
	protected.HandleFunc("/record", s.outputAction(control.OpRecordStart, control.OpRecordStop)).Methods(http.MethodPost)

	if s.chat != nil {
		protected.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	}

	if s.tester != nil {
		protected.HandleFunc("/test-connection", s.testConnection).Methods(http.MethodPost)
	}

	protected.HandleFunc("/diagnostics", s.getDiagnostics).Methods(http.MethodGet)
	protected.HandleFunc("/diagnostics/quick", s.getQuickDiagnostics).Methods(http.MethodGet)
}

// Handler returns the routed handler, mainly for tests.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *APIServer) Start(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP API")

	return s.srv.ListenAndServe()
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return errServerNotStarted
	}

	return s.srv.Shutdown(ctx)
}

func (s *APIServer) getHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC()}

	if s.endpoints != nil {
		for _, st := range s.endpoints.List(r.Context()) {
			resp.Connections++

			if st.Connected {
				resp.Connected++
			}
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// statusForKind maps a failure class to an HTTP status code.
func statusForKind(kind control.ErrorKind) int {
	switch kind {
	case control.KindNone:
		return http.StatusOK
	case control.KindValidation, control.KindUnsupported:
		return http.StatusBadRequest
	case control.KindNotFound, control.KindSourceNotFound:
		return http.StatusNotFound
	case control.KindNotConnected, control.KindBusy:
		return http.StatusConflict
	case control.KindNoEndpoint, control.KindUnreachable, control.KindAuth, control.KindTimeout,
		control.KindRemote, control.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding response")
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, message string, kind control.ErrorKind, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: message, Kind: kind})
}

// writeFailure translates a core error. Internal failures are logged and
// reported without detail.
func (s *APIServer) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind, msg := control.Translate(err)
	if kind == control.KindInternal {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")

		msg = "internal server error"
	}

	s.writeError(w, msg, kind, statusForKind(kind))
}

// writeResponse writes a facade response with the status matching its kind.
func (s *APIServer) writeResponse(w http.ResponseWriter, resp control.Response) {
	if !resp.Success {
		s.writeError(w, resp.Message, resp.Kind, statusForKind(resp.Kind))
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *APIServer) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, "invalid request body", control.KindValidation, http.StatusBadRequest)
		return false
	}

	return true
}

func (s *APIServer) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, "invalid connection id", control.KindValidation, http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

// queryID reads the optional connection_id query parameter.
func (s *APIServer) queryID(w http.ResponseWriter, r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("connection_id")
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, "invalid connection id", control.KindValidation, http.StatusBadRequest)
		return nil, false
	}

	return &id, true
}
