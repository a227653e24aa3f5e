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
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/option/internaloption"
)

// type for collecting custom ClientOption values.
type customClientConfig struct {
	jobCreationMode JobCreationMode

	// submitRetries bounds the retries of a job insert that carries a
	// client-chosen ID. Zero disables them.
	submitRetries int

	jobIDGenerator    JobIDGenerator
	newWaitPrinter    func() WaitPrinter
	synchronous       bool
	maxRowsPerRequest int64
	logger            *slog.Logger
	defaultDataset    *DatasetReference
}

type customClientOption interface {
	option.ClientOption
	ApplyCustomClientOpt(*customClientConfig)
}

func newCustomClientConfig(opts ...option.ClientOption) *customClientConfig {
	conf := &customClientConfig{synchronous: true}
	for _, opt := range opts {
		if cOpt, ok := opt.(customClientOption); ok {
			cOpt.ApplyCustomClientOpt(conf)
		}
	}
	return conf
}

// JobCreationMode controls how job creation is handled.  Some queries may
// be run without creating a job to expedite fetching results.
type JobCreationMode string

var (
	// JobCreationModeUnspecified is the default (unspecified) option.
	JobCreationModeUnspecified JobCreationMode = "JOB_CREATION_MODE_UNSPECIFIED"
	// JobCreationModeRequired indicates job creation is required.
	JobCreationModeRequired JobCreationMode = "JOB_CREATION_REQUIRED"
	// JobCreationModeOptional indicates job creation is optional, and returning
	// results immediately is prioritized.  The conditions under which BigQuery
	// can choose to avoid job creation are internal and subject to change.
	JobCreationModeOptional JobCreationMode = "JOB_CREATION_OPTIONAL"
)

// WithDefaultJobCreationMode is a ClientOption that governs the job creation
// mode used by RunQueryRPC when the request does not choose one.
func WithDefaultJobCreationMode(mode JobCreationMode) option.ClientOption {
	return &applierJobCreationMode{mode: mode}
}

// applier for propagating the custom client option to the config object
type applierJobCreationMode struct {
	internaloption.EmbeddableAdapter
	mode JobCreationMode
}

func (s *applierJobCreationMode) ApplyCustomClientOpt(c *customClientConfig) {
	c.jobCreationMode = s.mode
}

// WithSubmitRetries is a ClientOption that retries transient failures of a
// job insert up to n times, but only when the job carries a client-chosen ID
// and has no media to upload. The ID makes the insert idempotent: a retry
// that finds the job already created returns that job.
func WithSubmitRetries(n int) option.ClientOption {
	return &applierSubmitRetries{n: n}
}

type applierSubmitRetries struct {
	internaloption.EmbeddableAdapter
	n int
}

func (s *applierSubmitRetries) ApplyCustomClientOpt(c *customClientConfig) {
	c.submitRetries = s.n
}

// WithJobIDGenerator is a ClientOption that sets the generator used for jobs
// submitted without an explicit ID or generator. The default is an
// IncrementingJobIDGenerator over a RandomJobIDGenerator.
func WithJobIDGenerator(g JobIDGenerator) option.ClientOption {
	return &applierJobIDGenerator{g: g}
}

type applierJobIDGenerator struct {
	internaloption.EmbeddableAdapter
	g JobIDGenerator
}

func (s *applierJobIDGenerator) ApplyCustomClientOpt(c *customClientConfig) {
	c.jobIDGenerator = s.g
}

// WithWaitPrinter is a ClientOption that sets the factory for the progress
// printer used while waiting on jobs. Each wait gets its own printer.
func WithWaitPrinter(newPrinter func() WaitPrinter) option.ClientOption {
	return &applierWaitPrinter{f: newPrinter}
}

type applierWaitPrinter struct {
	internaloption.EmbeddableAdapter
	f func() WaitPrinter
}

func (s *applierWaitPrinter) ApplyCustomClientOpt(c *customClientConfig) {
	c.newWaitPrinter = s.f
}

// WithSynchronous is a ClientOption that chooses whether ExecuteJob and
// CancelJob wait for jobs to finish. Clients are synchronous by default.
func WithSynchronous(sync bool) option.ClientOption {
	return &applierSynchronous{sync: sync}
}

type applierSynchronous struct {
	internaloption.EmbeddableAdapter
	sync bool
}

func (s *applierSynchronous) ApplyCustomClientOpt(c *customClientConfig) {
	c.synchronous = s.sync
}

// WithMaxRowsPerRequest is a ClientOption that caps the rows asked for in a
// single page request. Zero leaves the page size to the service.
func WithMaxRowsPerRequest(n int64) option.ClientOption {
	return &applierMaxRowsPerRequest{n: n}
}

type applierMaxRowsPerRequest struct {
	internaloption.EmbeddableAdapter
	n int64
}

func (s *applierMaxRowsPerRequest) ApplyCustomClientOpt(c *customClientConfig) {
	c.maxRowsPerRequest = s.n
}

// WithLogger is a ClientOption that sets the logger for warnings about
// transient errors and debug output about submitted jobs. Without it the
// client logs according to the GOOGLE_SDK_GO_LOGGING_LEVEL environment
// variable.
func WithLogger(l *slog.Logger) option.ClientOption {
	return &applierLogger{l: l}
}

type applierLogger struct {
	internaloption.EmbeddableAdapter
	l *slog.Logger
}

func (s *applierLogger) ApplyCustomClientOpt(c *customClientConfig) {
	c.logger = s.l
}

// WithDefaultDataset is a ClientOption that sets the dataset used to resolve
// unqualified table names in queries that do not name one.
func WithDefaultDataset(ds DatasetReference) option.ClientOption {
	return &applierDefaultDataset{ds: ds}
}

type applierDefaultDataset struct {
	internaloption.EmbeddableAdapter
	ds DatasetReference
}

func (s *applierDefaultDataset) ApplyCustomClientOpt(c *customClientConfig) {
	ds := s.ds
	c.defaultDataset = &ds
}
