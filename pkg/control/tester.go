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

package control

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/registry"
	"github.com/carverauto/obsctl/pkg/session"
)

const (
	// DefaultTestBudget bounds a whole connection test, dial included.
	DefaultTestBudget = 10 * time.Second

	opTestConnection Operation = "test_connection"
	msgTestPassed              = "OBS connection test successful"
)

// Tester checks connection parameters that are not saved as an endpoint.
// It never touches the registry or the store.
type Tester struct {
	deps   session.Dependencies
	cfg    session.Config
	budget time.Duration
	logger logger.Logger
	tracer trace.Tracer
}

func NewTester(transport session.Transport, prober session.Prober, cfg session.Config, log logger.Logger) *Tester {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Tester{
		deps:   session.Dependencies{Transport: transport, Prober: prober, Logger: log},
		cfg:    cfg,
		budget: DefaultTestBudget,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// TestConnection dials host:port, reads the version and first scenes and
// disconnects. Data is a session.TrialResult on success.
func (t *Tester) TestConnection(ctx context.Context, host string, port int, password string) Response {
	start := time.Now()

	ctx, span := t.tracer.Start(ctx, "control."+string(opTestConnection))
	defer span.End()

	span.SetAttributes(attribute.String("host", host), attribute.Int("port", port))

	resp := t.run(ctx, host, port, password)

	if !resp.Success {
		span.SetStatus(codes.Error, resp.Message)

		t.logger.Info().
			Str("host", host).
			Int("port", port).
			Str("kind", string(resp.Kind)).
			Msg("Connection test failed")
	}

	recordCommand(ctx, opTestConnection, resp, time.Since(start))

	return resp
}

func (t *Tester) run(ctx context.Context, host string, port int, password string) Response {
	if err := registry.ValidateTarget(host, port, password); err != nil {
		kind, msg := Translate(err)
		return Response{Kind: kind, Message: msg}
	}

	ctx, cancel := context.WithTimeout(ctx, t.budget)
	defer cancel()

	result, err := session.Trial(ctx, t.deps, t.cfg, &models.Endpoint{Host: host, Port: port, Password: password})
	if err != nil {
		if ctx.Err() != nil {
			err = session.ErrTimeout
		}

		kind, msg := Translate(err)

		return Response{Kind: kind, Message: msg}
	}

	return Response{Success: true, Message: msgTestPassed, Data: result}
}
