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

package session

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// startSupervisor begins reconnecting after a drop, unless the session moved
// on (explicit connect/disconnect) in the meantime.
func (s *Session) startSupervisor(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != epoch || s.cfg.MaxReconnectAttempts <= 0 {
		return
	}

	// A supervisor can still be registered here only when its own successful
	// attempt produced the connection that just dropped. Let it finish first.
	prev := s.supervisorDone

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.supervisorCancel = cancel
	s.supervisorDone = done
	s.state = StateReconnecting
	s.attempts = 0

	go func() {
		if prev != nil {
			<-prev
		}

		s.supervise(ctx, epoch, done)
	}()
}

// detachSupervisorLocked clears the running supervisor and returns a func
// that stops it and waits for it to exit. Call the func without s.mu held.
func (s *Session) detachSupervisorLocked() func() {
	cancel, done := s.supervisorCancel, s.supervisorDone
	s.supervisorCancel, s.supervisorDone = nil, nil

	if cancel == nil {
		return func() {}
	}

	return func() {
		cancel()
		<-done
	}
}

func (s *Session) supervise(ctx context.Context, epoch uint64, done chan struct{}) {
	defer close(done)

	interval := s.cfg.ReconnectInterval

	// the first attempt also waits one interval
	timer := time.NewTimer(interval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C:
	}

	operation := func() (struct{}, error) {
		s.mu.Lock()
		s.attempts++
		attempt := s.attempts
		s.mu.Unlock()

		s.logger.Info().
			Int64("endpoint_id", s.id).
			Int("attempt", attempt).
			Int("max_attempts", s.cfg.MaxReconnectAttempts).
			Msg("Reconnecting to OBS")

		err := s.establish(ctx, epoch, StateReconnecting)
		if err == nil {
			return struct{}{}, nil
		}

		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		if errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, errConnectSuperseded) {
			return struct{}{}, backoff.Permanent(err)
		}

		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
		backoff.WithMaxTries(uint(s.cfg.MaxReconnectAttempts)),
		backoff.WithMaxElapsedTime(0),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.supervisorDone == done {
		s.supervisorCancel, s.supervisorDone = nil, nil
	}

	if err == nil || s.epoch != epoch || s.closed {
		return
	}

	if s.conn == nil {
		s.state = StateDisconnected
	}

	s.logger.Error().
		Int64("endpoint_id", s.id).
		Int("attempts", s.attempts).
		Err(err).
		Msg("Giving up reconnecting to OBS, connect manually")
}
