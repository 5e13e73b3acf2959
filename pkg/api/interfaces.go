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
	"context"
	"time"

	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/probe"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/obsctl/pkg/api Commander,EndpointAdmin,Diagnoser,ChatHandler,ConnectionTester

// Commander runs facade operations. Implemented by *control.Service.
type Commander interface {
	Execute(ctx context.Context, req control.Request) control.Response
}

// EndpointAdmin manages the configured endpoints. Implemented by
// *registry.Registry.
type EndpointAdmin interface {
	AddEndpoint(ctx context.Context, in *models.EndpointInput) (int64, error)
	UpdateEndpoint(ctx context.Context, id int64, in *models.EndpointInput) error
	RemoveEndpoint(ctx context.Context, id int64) error
	SetDefault(id int64) error
	List(ctx context.Context) []models.EndpointStatus
}

// Diagnoser runs reachability checks against arbitrary hosts. Implemented
// by *probe.Prober.
type Diagnoser interface {
	Probe(ctx context.Context, host string, port int, timeout time.Duration) probe.Result
	Diagnose(ctx context.Context, host string, port int) probe.Diagnostics
	ScanCommonPorts(ctx context.Context, host string) []probe.PortResult
}

// ChatHandler answers slash commands relayed from a chat network.
// Implemented by *bot.Router.
type ChatHandler interface {
	Handle(ctx context.Context, text string, userID *int64) (bool, string)
}

// ConnectionTester checks unsaved connection parameters. Implemented by
// *control.Tester.
type ConnectionTester interface {
	TestConnection(ctx context.Context, host string, port int, password string) control.Response
}
