// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bigquery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bqjobs/bqjobs-go/bigquery/internal"
	"github.com/bqjobs/bqjobs-go/internal/detect"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/internallog"
	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"
)

const (
	// Scope is the Oauth2 scope for the service.
	// For relevant BigQuery scopes, see:
	// https://developers.google.com/identity/protocols/googlescopes#bigqueryv2
	Scope           = "https://www.googleapis.com/auth/bigquery"
	userAgentPrefix = "bqjobs-go"
)

var xGoogHeader = fmt.Sprintf("gl-go/%s gccl/%s", internal.GoVersion(), internal.Version)

func setClientHeader(headers http.Header) {
	headers.Set("x-goog-api-client", xGoogHeader)
}

// Client submits, tracks and reads BigQuery jobs.
//
// A Client is safe for concurrent use, but each wait or read runs in the
// goroutine that called it.
type Client struct {
	// Location, if set, will be used as the default location for all subsequent
	// job operations. A location specified directly in one of those operations
	// will override this value.
	Location string

	projectID         string
	svc               service
	sync              bool
	jobIDGen          JobIDGenerator
	newWaitPrinter    func() WaitPrinter
	maxRowsPerRequest int64
	submitRetries     int
	jobCreationMode   JobCreationMode
	defaultDataset    *DatasetReference
	logger            *slog.Logger

	// now, sleep and submitBackoff are replaced in tests.
	now           func() time.Time
	sleep         func(context.Context, time.Duration) error
	submitBackoff gax.Backoff
}

// DetectProjectID is a sentinel value that instructs NewClient to detect the
// project ID. It is given in place of the projectID argument. NewClient will
// use the project ID from the GOOGLE_CLOUD_PROJECT environment variable or
// from the default credentials
// (https://developers.google.com/accounts/docs/application-default-credentials).
const DetectProjectID = detect.ProjectIDSentinel

// NewClient constructs a new Client which can perform BigQuery operations.
// Operations performed via the client are billed to the specified GCP project.
//
// If the project ID is set to DetectProjectID, NewClient will attempt to detect
// the project ID from credentials.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	o := []option.ClientOption{
		option.WithScopes(Scope),
		option.WithUserAgent(fmt.Sprintf("%s/%s", userAgentPrefix, internal.Version)),
	}
	o = append(o, opts...)
	bqs, err := bq.NewService(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("bigquery: constructing client: %w", err)
	}

	// Handle project autodetection.
	projectID, err = detect.ProjectID(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(projectID, &bigqueryService{s: bqs}, newCustomClientConfig(opts...)), nil
}

func newClient(projectID string, svc service, conf *customClientConfig) *Client {
	c := &Client{
		projectID:         projectID,
		svc:               svc,
		sync:              conf.synchronous,
		jobIDGen:          conf.jobIDGenerator,
		newWaitPrinter:    conf.newWaitPrinter,
		maxRowsPerRequest: conf.maxRowsPerRequest,
		submitRetries:     conf.submitRetries,
		jobCreationMode:   conf.jobCreationMode,
		defaultDataset:    conf.defaultDataset,
		logger:            internallog.New(conf.logger),
		now:               time.Now,
		sleep:             gax.Sleep,
		submitBackoff:     defaultRetryBackoff(),
	}
	if c.jobIDGen == nil {
		c.jobIDGen = NewIncrementingJobIDGenerator(RandomJobIDGenerator{})
	}
	if c.newWaitPrinter == nil {
		c.newWaitPrinter = func() WaitPrinter { return NewTransitionWaitPrinter(os.Stderr) }
	}
	return c
}

// Project returns the project ID or number for this instance of the client, which may have
// either been explicitly specified or autodetected.
func (c *Client) Project() string {
	return c.projectID
}

// Synchronous reports whether the client waits for jobs in ExecuteJob and
// CancelJob.
func (c *Client) Synchronous() bool {
	return c.sync
}

// Close closes any resources held by the client.
// Close should be called when the client is no longer needed.
// It need not be called at program exit.
func (c *Client) Close() error {
	return nil
}
