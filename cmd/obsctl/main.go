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

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/carverauto/obsctl/cmd/obsctl/app"
	"github.com/carverauto/obsctl/pkg/version"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("obsctl", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", "/etc/obsctl/obsctl.json", "path to the obsctl config file")
	showVersion := flagSet.Bool("version", false, "print the version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	if *showVersion {
		fmt.Println(version.String("obsctl"))
		return nil
	}

	return app.Run(context.Background(), app.Options{ConfigPath: *configPath})
}
