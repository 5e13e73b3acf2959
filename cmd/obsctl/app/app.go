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

// Package app wires the obsctl service together and runs it until signalled.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/obsctl/pkg/api"
	"github.com/carverauto/obsctl/pkg/bot"
	"github.com/carverauto/obsctl/pkg/config"
	"github.com/carverauto/obsctl/pkg/control"
	"github.com/carverauto/obsctl/pkg/db"
	"github.com/carverauto/obsctl/pkg/lifecycle"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/models"
	"github.com/carverauto/obsctl/pkg/natsutil"
	"github.com/carverauto/obsctl/pkg/obsws"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/registry"
	"github.com/carverauto/obsctl/pkg/session"
)

const shutdownTimeout = 15 * time.Second

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots the service and blocks until SIGINT/SIGTERM or a fatal server
// error, then shuts everything down.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg models.Config
	if err := config.NewConfig(nil).LoadAndValidate(ctx, opts.ConfigPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "obsctl", cfg.Logging)
	if err != nil {
		return err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down logger")
		}
	}()

	if redacted, err := config.Redacted(&cfg); err == nil {
		mainLogger.Debug().RawJSON("config", redacted).Msg("Loaded configuration")
	}

	pool, err := db.NewPool(ctx, &cfg.Database, mainLogger)
	if err != nil {
		return err
	}

	store := db.NewStore(pool, mainLogger)
	defer store.Close()

	if err := db.RunMigrations(ctx, pool, mainLogger); err != nil {
		return err
	}

	sessionCfg := session.ConfigFromModel(cfg.Session)

	regOpts := []registry.Option{
		registry.WithLogger(mainLogger),
		registry.WithSessionConfig(sessionCfg),
	}

	nc, regOpts, err := withEvents(ctx, cfg.NATS, mainLogger, regOpts)
	if err != nil {
		return err
	}

	if nc != nil {
		defer drainNATS(nc, mainLogger)
	}

	prober := probe.NewProber(mainLogger)
	transport := obsws.NewClient(
		obsws.WithLogger(mainLogger),
		obsws.WithHandshakeTimeout(time.Duration(cfg.Session.RequestTimeout)),
	)

	reg := registry.New(store, transport, prober, regOpts...)
	if err := reg.InitializeFromStore(ctx); err != nil {
		return err
	}

	svc := control.NewService(reg,
		control.WithLogger(mainLogger),
		control.WithAuditWriter(store),
	)

	router := bot.NewRouter(svc, mainLogger)

	apiServer := api.NewAPIServer(cfg.CORS,
		api.WithCommander(svc),
		api.WithEndpointAdmin(reg),
		api.WithDiagnoser(prober),
		api.WithChatHandler(router),
		api.WithConnectionTester(control.NewTester(transport, prober, sessionCfg, mainLogger)),
		api.WithAPIKey(cfg.APIKey),
		api.WithLogger(mainLogger),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := apiServer.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http api: %w", err)
		}

		return nil
	})

	if cfg.Telegram != nil {
		telegram := bot.NewTelegram(cfg.Telegram, router, mainLogger)

		g.Go(func() error {
			return telegram.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		if ctx.Err() != nil {
			mainLogger.Info().Msg("Shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			mainLogger.Warn().Err(err).Msg("HTTP API shutdown")
		}

		return nil
	})

	runErr := g.Wait()
	if runErr != nil {
		mainLogger.Error().Err(runErr).Msg("Service stopped with error")
	}

	reg.ReleaseAll()

	svc.Wait()

	return runErr
}

// withEvents connects to NATS when configured and adds the publisher to
// the registry options.
func withEvents(
	ctx context.Context, cfg *models.NATSConfig, log logger.Logger, opts []registry.Option,
) (*nats.Conn, []registry.Option, error) {
	if cfg == nil {
		return nil, opts, nil
	}

	publisher, nc, err := natsutil.Connect(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	return nc, append(opts, registry.WithEventPublisher(publisher)), nil
}

func drainNATS(nc *nats.Conn, log logger.Logger) {
	if err := nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("Error draining NATS connection")
	}
}
