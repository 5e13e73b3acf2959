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

// obs-probe checks whether an OBS WebSocket server is reachable and explains
// what to fix when it is not. With --attempts it waits for the port to open.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/carverauto/obsctl/pkg/lifecycle"
	"github.com/carverauto/obsctl/pkg/logger"
	"github.com/carverauto/obsctl/pkg/probe"
	"github.com/carverauto/obsctl/pkg/version"
)

var (
	errPortClosed    = errors.New("port not reachable")
	errInvalidTarget = errors.New("--host and a --port between 1 and 65535 are required")
)

type options struct {
	host     string
	port     int
	attempts int
	interval time.Duration
	timeout  time.Duration
	scan     bool
	asJSON   bool
	quiet    bool
}

type report struct {
	Diagnostics probe.Diagnostics  `json:"diagnostics"`
	CommonPorts []probe.PortResult `json:"common_ports,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errPortClosed) {
			_, _ = fmt.Fprintf(os.Stderr, "obs-probe: %v\n", err)
			os.Exit(2)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("obs-probe", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.host, "host", "", "OBS host to check")
	flagSet.IntVar(&opts.port, "port", probe.DefaultPort, "OBS WebSocket port")
	flagSet.IntVar(&opts.attempts, "attempts", 1, "attempts before giving up (0 waits forever)")
	flagSet.DurationVar(&opts.interval, "interval", 2*time.Second, "delay between attempts")
	flagSet.DurationVar(&opts.timeout, "timeout", probe.DefaultTimeout, "per-attempt dial timeout")
	flagSet.BoolVar(&opts.scan, "scan", false, "also scan the usual OBS WebSocket ports")
	flagSet.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	flagSet.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	showVersion := flagSet.Bool("version", false, "print the version and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, version.String("obs-probe"))
		return err
	}

	if opts.host == "" || opts.port <= 0 || opts.port > 65535 {
		return errInvalidTarget
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log, err := lifecycle.CreateComponentLogger(ctx, "obs-probe", &logger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		return err
	}

	prober := probe.NewProber(log)

	result := waitForPort(ctx, prober, opts, stderr)

	var hs *probe.Handshake

	if result.PortOpen {
		h := prober.CheckHandshake(ctx, opts.host, opts.port, opts.timeout)
		hs = &h
	}

	rep := report{
		Diagnostics: probe.Diagnostics{
			Result:          result,
			WebSocket:       hs,
			Recommendations: probe.RecommendHandshake(result, hs),
			CheckedAt:       time.Now().UTC(),
		},
	}

	if opts.scan {
		rep.CommonPorts = prober.ScanCommonPorts(ctx, opts.host)
	}

	if err := printReport(stdout, rep, opts.asJSON); err != nil {
		return err
	}

	if !result.PortOpen {
		return errPortClosed
	}

	return nil
}

// waitForPort probes until the port opens, attempts run out or ctx ends.
func waitForPort(ctx context.Context, prober *probe.Prober, opts options, progress io.Writer) probe.Result {
	var result probe.Result

	for attempt := 1; opts.attempts <= 0 || attempt <= opts.attempts; attempt++ {
		if !opts.quiet && opts.attempts != 1 {
			_, _ = fmt.Fprintf(progress, "obs-probe: checking %s:%d (attempt %d)\n", opts.host, opts.port, attempt)
		}

		result = prober.Probe(ctx, opts.host, opts.port, opts.timeout)
		if result.PortOpen || (opts.attempts > 0 && attempt >= opts.attempts) {
			return result
		}

		select {
		case <-ctx.Done():
			return result
		case <-time.After(opts.interval):
		}
	}

	return result
}

func printReport(w io.Writer, rep report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rep)
	}

	var b strings.Builder

	r := rep.Diagnostics.Result
	status := "OPEN"

	if !r.PortOpen {
		status = "CLOSED (" + string(r.Reason) + ")"
	}

	fmt.Fprintf(&b, "%s:%d %s in %s\n", r.Host, r.Port, status, r.Latency.Round(time.Millisecond))

	if hs := rep.Diagnostics.WebSocket; hs != nil {
		switch {
		case !hs.Ready:
			fmt.Fprintf(&b, "WebSocket: no obs-websocket Hello (%s)\n", hs.Error)
		case hs.AuthRequired:
			fmt.Fprintf(&b, "WebSocket: obs-websocket %s, password required\n", hs.Version)
		default:
			fmt.Fprintf(&b, "WebSocket: obs-websocket %s, no password\n", hs.Version)
		}
	}

	for _, rec := range rep.Diagnostics.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}

	if len(rep.CommonPorts) > 0 {
		b.WriteString("Common ports:\n")

		for _, p := range rep.CommonPorts {
			state := "closed"
			if p.Open {
				state = "open"
			}

			fmt.Fprintf(&b, "  %d: %s\n", p.Port, state)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}
