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

// Package version reports the obsctl build. Values are injected with
// -ldflags "-X github.com/carverauto/obsctl/pkg/version.version=...".
package version

import "fmt"

//nolint:gochecknoglobals // set via ldflags
var (
	version = "dev"
	buildID = "dev"
)

func Version() string {
	return version
}

func BuildID() string {
	return buildID
}

// String formats the version line printed by --version.
func String(binary string) string {
	return fmt.Sprintf("%s %s (build: %s)", binary, version, buildID)
}
