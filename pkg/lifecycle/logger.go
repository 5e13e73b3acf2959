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

// Package lifecycle wires the process-level logging and telemetry pieces.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/version"
)

// LoggerImpl implements logger.Logger on top of a zerolog.Logger.
type LoggerImpl struct {
	logger zerolog.Logger
}

// NewLoggerImpl creates a logger writing to the configured output.
func NewLoggerImpl(config *logger.Config) (*LoggerImpl, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	if err := logger.CheckFormat(config); err != nil {
		return nil, err
	}

	return newLoggerImpl(config, logger.OutputWriter(config))
}

func newLoggerImpl(config *logger.Config, output io.Writer) (*LoggerImpl, error) {
	level, err := logger.ParseLevel(config)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &LoggerImpl{logger: zlog}, nil
}

func (l *LoggerImpl) Debug() *zerolog.Event {
	return l.logger.Debug()
}

func (l *LoggerImpl) Info() *zerolog.Event {
	return l.logger.Info()
}

func (l *LoggerImpl) Warn() *zerolog.Event {
	return l.logger.Warn()
}

func (l *LoggerImpl) Error() *zerolog.Event {
	return l.logger.Error()
}

func (l *LoggerImpl) With() zerolog.Context {
	return l.logger.With()
}

func (l *LoggerImpl) WithFields(fields map[string]interface{}) zerolog.Logger {
	return l.logger.With().Fields(fields).Logger()
}

// CreateComponentLogger creates a logger tagged with the component name,
// makes it the zerolog global, and starts the trace and metric exporters
// when OTel is enabled.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	impl, err := NewLoggerImpl(config)
	if err != nil {
		return nil, err
	}

	componentLogger := &LoggerImpl{
		logger: impl.logger.With().Str("component", component).Logger(),
	}

	log.Logger = componentLogger.logger

	if err := initializeTelemetry(ctx, component, config, componentLogger); err != nil {
		return nil, err
	}

	return componentLogger, nil
}

func initializeTelemetry(ctx context.Context, component string, config *logger.Config, l logger.Logger) error {
	serviceName := config.OTel.ServiceName
	if serviceName == "" {
		serviceName = component
	}

	otelConfig := config.OTel

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version(),
		Logger:         l,
		OTel:           &otelConfig,
	}); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version(),
		OTel:           &otelConfig,
	})
	if err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return nil
}

// ShutdownLogger flushes the telemetry exporters.
func ShutdownLogger() error {
	return logger.Shutdown()
}
