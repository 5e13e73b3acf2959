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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	controlMeterName      = "obsctl.control"
	metricCommandsTotal   = "obsctl.commands"
	metricCommandDuration = "obsctl.command.duration"
)

var (
	controlMetricsOnce sync.Once

	commandCounter  metric.Int64Counter
	commandDuration metric.Float64Histogram
)

func initControlMetrics() {
	meter := otel.Meter(controlMeterName)

	if counter, err := meter.Int64Counter(
		metricCommandsTotal,
		metric.WithDescription("Commands executed against OBS endpoints"),
	); err != nil {
		otel.Handle(err)
	} else {
		commandCounter = counter
	}

	if hist, err := meter.Float64Histogram(
		metricCommandDuration,
		metric.WithDescription("Time taken to execute a command"),
		metric.WithUnit("ms"),
	); err != nil {
		otel.Handle(err)
	} else {
		commandDuration = hist
	}
}

func outcome(resp Response) string {
	if resp.Success {
		return "success"
	}

	return string(resp.Kind)
}

func recordCommand(ctx context.Context, op Operation, resp Response, elapsed time.Duration) {
	controlMetricsOnce.Do(initControlMetrics)

	attrs := metric.WithAttributes(
		attribute.String("operation", string(op)),
		attribute.String("outcome", outcome(resp)),
	)

	if commandCounter != nil {
		commandCounter.Add(ctx, 1, attrs)
	}

	if commandDuration != nil {
		commandDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
