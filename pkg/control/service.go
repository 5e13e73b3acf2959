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

// Package control is the single entry point chat and HTTP callers use to
// drive OBS endpoints.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

const (
	tracerName          = "obsctl.control"
	defaultAuditTimeout = 5 * time.Second
)

// Service executes operations against the registry's sessions.
type Service struct {
	targets      Targets
	audit        AuditWriter
	logger       logger.Logger
	tracer       trace.Tracer
	auditTimeout time.Duration

	pending sync.WaitGroup
}

type Option func(*Service)

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// WithAuditWriter records every executed operation.
func WithAuditWriter(w AuditWriter) Option {
	return func(s *Service) {
		s.audit = w
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithAuditTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

func NewService(targets Targets, opts ...Option) *Service {
	s := &Service{
		targets:      targets,
		logger:       logger.NewTestLogger(),
		tracer:       otel.Tracer(tracerName),
		auditTimeout: defaultAuditTimeout,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// Execute runs req and never panics on caller input. Failures are reported
// through Response.Kind and an operator-facing message.
func (s *Service) Execute(ctx context.Context, req Request) Response {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "control."+string(req.Operation))
	defer span.End()

	span.SetAttributes(attribute.String("operation", string(req.Operation)))

	if req.EndpointID != nil {
		span.SetAttributes(attribute.Int64("endpoint_id", *req.EndpointID))
	}

	data, msg, err := s.dispatch(ctx, req)

	resp := Response{Success: err == nil, Message: msg, Data: data}

	if err != nil {
		resp.Kind, resp.Message = Translate(err)

		span.RecordError(err)
		span.SetStatus(codes.Error, resp.Message)

		s.logger.Warn().
			Str("operation", string(req.Operation)).
			Str("kind", string(resp.Kind)).
			Err(err).
			Msg("Command failed")
	} else {
		s.logger.Debug().
			Str("operation", string(req.Operation)).
			Msg("Command succeeded")
	}

	elapsed := time.Since(start)

	recordCommand(ctx, req.Operation, resp, elapsed)
	s.appendRecord(ctx, req, resp, elapsed)

	return resp
}

func (s *Service) dispatch(ctx context.Context, req Request) (interface{}, string, error) {
	switch req.Operation {
	case OpConnect:
		if err := s.targets.Connect(ctx, req.EndpointID); err != nil {
			return nil, "", err
		}

		return nil, "Connected to OBS", nil
	case OpDisconnect:
		if err := s.targets.Disconnect(ctx, req.EndpointID); err != nil {
			return nil, "", err
		}

		return nil, "Disconnected from OBS", nil
	case OpStatus:
		return s.status(ctx)
	}

	def, ok := operations[req.Operation]
	if !ok {
		return nil, "", usage(req.Operation, "unknown operation %q", req.Operation)
	}

	if err := def.validate(req.Operation, req.Args); err != nil {
		return nil, "", err
	}

	sess, err := s.targets.Resolve(req.EndpointID)
	if err != nil {
		return nil, "", err
	}

	return def.run(ctx, sess, req.Args)
}

func (s *Service) status(ctx context.Context) (interface{}, string, error) {
	list := s.targets.List(ctx)
	if len(list) == 0 {
		return list, "No OBS connections configured", nil
	}

	connected := 0

	for _, st := range list {
		if st.Connected {
			connected++
		}
	}

	return list, fmt.Sprintf("%d of %d OBS connections connected", connected, len(list)), nil
}

// appendRecord writes the audit record in the background with a context
// detached from the caller.
func (s *Service) appendRecord(ctx context.Context, req Request, resp Response, elapsed time.Duration) {
	if s.audit == nil {
		return
	}

	rec := &models.CommandRecord{
		Command:         string(req.Operation),
		Response:        resp.Message,
		Status:          models.CommandStatusSuccess,
		Outcome:         string(resp.Kind),
		ExecutionTimeMS: elapsed.Milliseconds(),
		UserID:          req.UserID,
		EndpointID:      req.EndpointID,
		CreatedAt:       time.Now().UTC(),
	}

	if !resp.Success {
		rec.Status = models.CommandStatusError
	}

	if rec.EndpointID == nil {
		if id := s.targets.DefaultID(); id != 0 {
			rec.EndpointID = &id
		}
	}

	if !req.Args.empty() {
		if params, err := json.Marshal(req.Args); err == nil {
			rec.Parameters = string(params)
		}
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)

	s.pending.Add(1)

	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := s.audit.AppendCommandRecord(auditCtx, rec); err != nil {
			s.logger.Warn().
				Str("operation", rec.Command).
				Err(err).
				Msg("Failed to write command record")
		}
	}()
}

// Wait blocks until pending command records are written.
func (s *Service) Wait() {
	s.pending.Wait()
}
