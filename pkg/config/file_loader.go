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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
)

var (
	errEmptyConfigFile = errors.New("config file is empty")
	errTrailingData    = errors.New("unexpected data after config object")

	envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// FileConfigLoader reads a JSON config file. ${VAR} references are
// replaced with the environment value before decoding, and unknown keys
// are rejected so typos surface at startup.
type FileConfigLoader struct {
	// AllowUnknownFields relaxes strict decoding.
	AllowUnknownFields bool
}

// Load implements ConfigLoader.
func (l *FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", errEmptyConfigFile, path)
	}

	data = expandEnvRefs(data)

	dec := json.NewDecoder(bytes.NewReader(data))
	if !l.AllowUnknownFields {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode config file %q: %w", path, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", errTrailingData, path)
	}

	return nil
}

// expandEnvRefs substitutes ${VAR} with the variable's value. Unset
// variables are left untouched.
func expandEnvRefs(data []byte) []byte {
	return envRefPattern.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := envRefPattern.FindSubmatch(ref)[1]

		value, ok := os.LookupEnv(string(name))
		if !ok {
			return ref
		}

		quoted, err := json.Marshal(value)
		if err != nil {
			return ref
		}

		// strip the surrounding quotes; the reference already sits inside a JSON string
		return quoted[1 : len(quoted)-1]
	})
}
