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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Duration
		wantErr error
	}{
		{name: "string", input: `"1m30s"`, want: Duration(90 * time.Second)},
		{name: "nanoseconds", input: `1500`, want: Duration(1500)},
		{name: "boolean", input: `true`, wantErr: errInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
}

func TestDurationMarshal(t *testing.T) {
	data, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"5s"`, string(data))
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{Database: DatabaseConfig{Host: "db", Database: "obsctl"}}
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := valid()
		cfg.NATS = &NATSConfig{URL: "nats://localhost:4222"}

		require.NoError(t, cfg.Validate())
		assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
		assert.Equal(t, defaultDatabasePort, cfg.Database.Port)
		assert.Equal(t, defaultEventsStream, cfg.NATS.Stream)
		assert.Equal(t, defaultMaxReconnectAttempts, cfg.Session.MaxReconnectAttempts)
		assert.Equal(t, Duration(defaultProbeTimeout), cfg.Session.ProbeTimeout)
	})

	t.Run("telegram defaults", func(t *testing.T) {
		cfg := valid()
		cfg.Telegram = &TelegramConfig{Token: "123:abc"}

		require.NoError(t, cfg.Validate())
		assert.Equal(t, defaultTelegramAPIURL, cfg.Telegram.APIURL)
		assert.Equal(t, Duration(defaultTelegramPollTimeout), cfg.Telegram.PollTimeout)
	})

	t.Run("media kinds are copied", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())

		cfg.Session.MediaKinds[0] = "changed"
		assert.Equal(t, "ffmpeg_source", DefaultMediaKinds[0])
	})

	errorCases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = " " }, want: errDatabaseHostRequired},
		{name: "missing database", mutate: func(c *Config) { c.Database.Database = "" }, want: errDatabaseNameRequired},
		{name: "bad port", mutate: func(c *Config) { c.Database.Port = 70000 }, want: errDatabasePortInvalid},
		{name: "nats without url", mutate: func(c *Config) { c.NATS = &NATSConfig{} }, want: errNATSURLRequired},
		{name: "telegram without token", mutate: func(c *Config) { c.Telegram = &TelegramConfig{} }, want: errTelegramTokenRequired},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestEndpointPasswordIsNotSerialized(t *testing.T) {
	ep := &Endpoint{ID: 1, Name: "studio", Host: "10.0.0.5", Port: 4455, Password: "secret"}
	assert.True(t, ep.HasPassword())

	data, err := json.Marshal(ep)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var nilEndpoint *Endpoint
	assert.False(t, nilEndpoint.HasPassword())
}
