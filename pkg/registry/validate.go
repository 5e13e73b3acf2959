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

package registry

import (
	"regexp"
	"unicode/utf8"

	"github.com/carverauto/obsctl/pkg/models"
)

const (
	maxNameLength     = 50
	maxHostLength     = 253
	maxPasswordLength = 100
	maxPort           = 65535
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	hostPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

// ValidateEndpoint checks administrator input and returns a *ValidationError
// for the first offending field.
func ValidateEndpoint(in *models.EndpointInput) error {
	if in == nil {
		return &ValidationError{Field: "endpoint", Message: "endpoint details are required"}
	}

	switch n := utf8.RuneCountInString(in.Name); {
	case n == 0:
		return &ValidationError{Field: "name", Message: "name is required"}
	case n > maxNameLength:
		return &ValidationError{Field: "name", Message: "name must be at most 50 characters"}
	case !namePattern.MatchString(in.Name):
		return &ValidationError{Field: "name", Message: "name may contain letters, numbers, spaces, hyphens and underscores"}
	}

	return ValidateTarget(in.Host, in.Port, in.Password)
}

// ValidateTarget checks the connection parameters of an endpoint that is not
// necessarily saved.
func ValidateTarget(host string, port int, password string) error {
	switch n := len(host); {
	case n == 0:
		return &ValidationError{Field: "host", Message: "host is required"}
	case n > maxHostLength:
		return &ValidationError{Field: "host", Message: "host must be at most 253 characters"}
	case !hostPattern.MatchString(host):
		return &ValidationError{Field: "host", Message: "host must be a hostname or IPv4 address"}
	}

	if port < 1 || port > maxPort {
		return &ValidationError{Field: "port", Message: "port must be between 1 and 65535"}
	}

	if utf8.RuneCountInString(password) > maxPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at most 100 characters"}
	}

	return nil
}
