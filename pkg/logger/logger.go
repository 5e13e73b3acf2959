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

// Package logger holds the zerolog-based Logger interface, its
// configuration, and the OpenTelemetry pipelines started alongside it.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	formatJSON    = "json"
	formatConsole = "console"
)

var errUnknownFormat = errors.New("unknown log format")

type Config struct {
	Level      string     `json:"level"`
	Debug      bool       `json:"debug"`
	Output     string     `json:"output"`
	Format     string     `json:"format,omitempty"`
	TimeFormat string     `json:"time_format"`
	OTel       OTelConfig `json:"otel"`
}

// ParseLevel resolves the effective level, with Debug taking precedence.
func ParseLevel(config *Config) (zerolog.Level, error) {
	if config.Debug {
		return zerolog.DebugLevel, nil
	}

	if config.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(strings.ToLower(config.Level))
}

// CheckFormat rejects formats OutputWriter does not know.
func CheckFormat(config *Config) error {
	switch strings.ToLower(config.Format) {
	case "", formatJSON, formatConsole:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, config.Format)
	}
}

// OutputWriter maps the configured output and format to a writer. Console
// output is meant for operators running obsctl in a terminal.
func OutputWriter(config *Config) io.Writer {
	var w io.Writer

	switch strings.ToLower(config.Output) {
	case "stderr":
		w = os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		w = os.Stdout
	}

	if strings.EqualFold(config.Format, formatConsole) {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}

	return w
}

// Shutdown flushes the telemetry pipelines started by this package.
func Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(shutdownMeterProvider(ctx), shutdownTracerProvider(ctx))
}
