// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package detect finds the billing project from the environment.
package detect

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/transport"
)

const (
	// ProjectIDSentinel asks ProjectID to look the project up.
	ProjectIDSentinel = "*detect-project-id*"

	envProjectID = "GOOGLE_CLOUD_PROJECT"
)

var (
	envLookup = os.Getenv
	adcLookup = func(ctx context.Context, opts ...option.ClientOption) (string, error) {
		creds, err := transport.Creds(ctx, opts...)
		if err != nil {
			return "", err
		}
		return creds.ProjectID, nil
	}
)

// ProjectID returns projectID unchanged unless it is ProjectIDSentinel. In
// that case the GOOGLE_CLOUD_PROJECT environment variable is consulted first,
// then the project of the application default credentials.
func ProjectID(ctx context.Context, projectID string, opts ...option.ClientOption) (string, error) {
	if projectID != ProjectIDSentinel {
		return projectID, nil
	}
	if id := envLookup(envProjectID); id != "" {
		return id, nil
	}
	id, err := adcLookup(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("fetching creds: %w", err)
	}
	if id == "" {
		return "", errors.New("unable to detect projectID, please refer to docs for DetectProjectID")
	}
	return id, nil
}
