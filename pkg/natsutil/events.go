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

// Package natsutil publishes endpoint state changes as CloudEvents on NATS
// JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
)

const (
	EndpointStateEventType = "com.carverauto.obsctl.endpoint.state"
	EndpointStateSubject   = "events.obs.endpoint"
	eventSource            = "obsctl/registry"
)

type jsPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher implements registry.EventPublisher.
type EventPublisher struct {
	js     jsPublisher
	stream string
	logger logger.Logger
}

func NewEventPublisher(js jsPublisher, streamName string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:     js,
		stream: streamName,
		logger: log,
	}
}

func newEndpointStateEvent(data *models.EndpointStateEventData) models.CloudEvent {
	ts := data.Timestamp

	return models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            EndpointStateEventType,
		DataContentType: "application/json",
		Subject:         EndpointStateSubject,
		Time:            &ts,
		Data:            data,
	}
}

// PublishEndpointState publishes one connected/disconnected transition.
func (p *EventPublisher) PublishEndpointState(ctx context.Context, data *models.EndpointStateEventData) error {
	if data == nil {
		return errNilEventData
	}

	event := newEndpointStateEvent(data)

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal endpoint state event: %w", err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, eventBytes, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish endpoint state event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("seq", ack.Sequence).
		Int64("endpoint_id", data.EndpointID).
		Msg("Published endpoint state event")

	return nil
}

// Connect dials NATS, makes sure the events stream carries the endpoint
// subject and returns a publisher for it.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger) (*EventPublisher, *nats.Conn, error) {
	nc, err := ConnectWithSecurity(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	js, err := newJetStream(nc, cfg.Domain)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	if err := ensureStream(ctx, js, cfg.Stream, EndpointStateSubject, log); err != nil {
		nc.Close()
		return nil, nil, err
	}

	return NewEventPublisher(js, cfg.Stream, log), nc, nil
}

func newJetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain != "" {
		js, err := jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}

		return js, nil
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return js, nil
}

// ConnectWithSecurity connects with optional mTLS and logs connection changes.
func ConnectWithSecurity(cfg *models.NATSConfig, log logger.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("obsctl"),
		nats.MaxReconnects(-1),
	}

	if cfg.TLS != nil {
		tlsConf, err := TLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts, nats.Secure(tlsConf))
	}

	opts = append(opts,
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

type streamManager interface {
	Stream(ctx context.Context, stream string) (jetstream.Stream, error)
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// ensureStream creates the stream, or widens an existing one so it
// captures subject.
func ensureStream(ctx context.Context, js streamManager, name, subject string, log logger.Logger) error {
	stream, err := js.Stream(ctx, name)

	switch {
	case err == nil:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to read stream %s: %w", name, err)
		}

		subjects := ensureSubjectList(append([]string(nil), info.Config.Subjects...), subject)
		if len(subjects) == len(info.Config.Subjects) {
			return nil
		}

		cfg := info.Config
		cfg.Subjects = subjects

		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("failed to add subject %s to stream %s: %w", subject, name, err)
		}

		log.Info().Str("stream", name).Str("subject", subject).Msg("Added subject to NATS stream")

		return nil
	case isStreamMissingErr(err):
		if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}

		log.Info().Str("stream", name).Msg("Created NATS JetStream stream")

		return nil
	default:
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}

// ensureSubjectList appends subject unless a pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token, ">"
// matches the remainder.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, tok := range pt {
		if tok == ">" {
			return len(st) > i
		}

		if i >= len(st) {
			return false
		}

		if tok != "*" && tok != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}
