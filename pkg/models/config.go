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

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/obsctl/pkg/logger"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

const (
	defaultListenAddr           = ":8090"
	defaultReconnectInterval    = 5 * time.Second
	defaultMaxReconnectAttempts = 5
	defaultProbeTimeout         = 5 * time.Second
	defaultRequestTimeout       = 10 * time.Second
	defaultDatabasePort         = 5432
	defaultEventsStream         = "events"
	defaultTelegramAPIURL       = "https://api.telegram.org"
	defaultTelegramPollTimeout  = 30 * time.Second
)

// DefaultMediaKinds is the set of input kinds that accept media transport
// controls when the configuration does not override it.
var DefaultMediaKinds = []string{
	"ffmpeg_source",
	"vlc_source",
	"image_source",
	"browser_source",
	"text_gdiplus",
	"text_ft2_source",
	"monitor_capture",
	"window_capture",
	"game_capture",
	"dshow_input",
	"wasapi_input_capture",
	"wasapi_output_capture",
	"coreaudio_input_capture",
	"coreaudio_output_capture",
	"pulse_input_capture",
	"pulse_output_capture",
	"v4l2_input",
	"av_capture_input",
	"xshm_input",
}

// Config is the top-level configuration of the obsctl service.
type Config struct {
	ListenAddr string          `json:"listen_addr"`
	APIKey     string          `json:"api_key,omitempty" sensitive:"true"`
	CORS       CORSConfig      `json:"cors,omitempty"`
	Database   DatabaseConfig  `json:"database"`
	Session    SessionConfig   `json:"session,omitempty"`
	NATS       *NATSConfig     `json:"nats,omitempty"`
	Telegram   *TelegramConfig `json:"telegram,omitempty"`
	Logging    *logger.Config  `json:"logging,omitempty"`
}

// CORSConfig controls which browser origins may call the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins,omitempty"`
	AllowCredentials bool     `json:"allow_credentials,omitempty"`
}

// DatabaseConfig describes the PostgreSQL instance holding endpoints and
// command history.
type DatabaseConfig struct {
	Host               string            `json:"host"`
	Port               int               `json:"port,omitempty"`
	Database           string            `json:"database"`
	Username           string            `json:"username,omitempty"`
	Password           string            `json:"password,omitempty" sensitive:"true"`
	SSLMode            string            `json:"ssl_mode,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
}

// TLSConfig holds client certificate paths. Relative paths resolve against
// the owning section's cert_dir.
type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// SessionConfig tunes the behaviour of every remote session.
type SessionConfig struct {
	ReconnectInterval    Duration `json:"reconnect_interval,omitempty"`
	MaxReconnectAttempts int      `json:"max_reconnect_attempts,omitempty"`
	ProbeTimeout         Duration `json:"probe_timeout,omitempty"`
	RequestTimeout       Duration `json:"request_timeout,omitempty"`
	MediaKinds           []string `json:"media_kinds,omitempty"`
}

// NATSConfig enables publishing endpoint state events to JetStream.
type NATSConfig struct {
	URL        string     `json:"url"`
	Stream     string     `json:"stream,omitempty"`
	Domain     string     `json:"domain,omitempty"`
	CertDir    string     `json:"cert_dir,omitempty"`
	ServerName string     `json:"server_name,omitempty"`
	TLS        *TLSConfig `json:"tls,omitempty"`
}

// TelegramConfig enables the Telegram bot front end. An empty AllowedChats
// accepts commands from every chat.
type TelegramConfig struct {
	Token        string   `json:"token" sensitive:"true"`
	AllowedChats []int64  `json:"allowed_chats,omitempty"`
	APIURL       string   `json:"api_url,omitempty"`
	PollTimeout  Duration `json:"poll_timeout,omitempty"`
}

// ApplyDefaults fills in zero values with the documented defaults.
func (c *SessionConfig) ApplyDefaults() {
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = Duration(defaultReconnectInterval)
	}

	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = defaultMaxReconnectAttempts
	}

	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = Duration(defaultProbeTimeout)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(defaultRequestTimeout)
	}

	if len(c.MediaKinds) == 0 {
		c.MediaKinds = append([]string(nil), DefaultMediaKinds...)
	}
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if strings.TrimSpace(c.Database.Host) == "" {
		return errDatabaseHostRequired
	}

	if strings.TrimSpace(c.Database.Database) == "" {
		return errDatabaseNameRequired
	}

	if c.Database.Port == 0 {
		c.Database.Port = defaultDatabasePort
	}

	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("%w: %d", errDatabasePortInvalid, c.Database.Port)
	}

	if c.NATS != nil {
		if c.NATS.URL == "" {
			return errNATSURLRequired
		}

		if c.NATS.Stream == "" {
			c.NATS.Stream = defaultEventsStream
		}
	}

	if c.Telegram != nil {
		if strings.TrimSpace(c.Telegram.Token) == "" {
			return errTelegramTokenRequired
		}

		if c.Telegram.APIURL == "" {
			c.Telegram.APIURL = defaultTelegramAPIURL
		}

		if c.Telegram.PollTimeout <= 0 {
			c.Telegram.PollTimeout = Duration(defaultTelegramPollTimeout)
		}
	}

	c.Session.ApplyDefaults()

	return nil
}
