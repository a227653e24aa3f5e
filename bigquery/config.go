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
	"io"
	"time"

	bq "google.golang.org/api/bigquery/v2"
)

// JobConfiguration is the configuration of a job. It is implemented only by
// *QueryConfig, *LoadConfig, *ExtractConfig and *CopyConfig.
type JobConfiguration interface {
	// validate reports a *ConfigurationError for unusable input.
	validate() error
	// toBQ renders the wire form, plus the media to upload, if any.
	toBQ() (*bq.JobConfiguration, io.Reader)
}

// QueryPriority specifies a priority with which a query is to be executed.
type QueryPriority string

const (
	// BatchPriority specifies that the query should be scheduled with the
	// batch priority.  BigQuery queues each batch query on your behalf, and
	// starts the query as soon as idle resources are available, usually within
	// a few minutes. If BigQuery hasn't started the query within 24 hours,
	// BigQuery changes the job priority to interactive. Batch queries don't
	// count towards your concurrent rate limit, which can make it easier to
	// start many queries at once.
	BatchPriority QueryPriority = "BATCH"
	// InteractivePriority specifies that the query should be scheduled with
	// interactive priority, which means that the query is executed as soon as
	// possible. Interactive queries count towards your concurrent rate limit
	// and your daily limit. It is the default priority with which queries get
	// executed.
	InteractivePriority QueryPriority = "INTERACTIVE"
)

// ConnectionProperty represents a single key and value pair that can be sent alongside a query request or load
// job.
type ConnectionProperty struct {
	// Name of the connection property to set.
	Key string
	// Value of the connection property.
	Value string
}

// QueryConfig holds the configuration for a query job.
type QueryConfig struct {
	// Q is the SQL query text. It must not be empty.
	Q string

	// DefaultProjectID and DefaultDatasetID specify the dataset to use for unqualified table names in the query.
	// If DefaultProjectID is set, DefaultDatasetID must also be set.
	DefaultProjectID string
	DefaultDatasetID string

	// Dst is the table into which the results of the query will be written.
	// If this field is nil, a temporary table will be created.
	Dst *TableReference

	// CreateDisposition specifies the circumstances under which the destination table will be created.
	// The default is CreateIfNeeded.
	CreateDisposition TableCreateDisposition

	// WriteDisposition specifies how existing data in the destination table is treated.
	// The default is WriteEmpty.
	WriteDisposition TableWriteDisposition

	// DisableQueryCache prevents results being fetched from the query cache.
	// If this field is false, results are fetched from the cache if they are available.
	DisableQueryCache bool

	// UseLegacySQL causes the query to use legacy SQL.
	UseLegacySQL bool

	// Priority specifies the priority with which to schedule the query.
	// The default priority is InteractivePriority.
	Priority QueryPriority

	// MaxBytesBilled limits the bytes billed for this job.
	// Queries that would exceed this limit will fail (without incurring a charge).
	// If this field is less than 1, the project default will be used.
	MaxBytesBilled int64

	// DryRun asks the service to validate the query and estimate its cost
	// without running it.
	DryRun bool

	// CreateSession will trigger creation of a new session when true.
	CreateSession bool

	// ConnectionProperties are optional key-values settings.
	ConnectionProperties []*ConnectionProperty

	// The labels associated with this job.
	Labels map[string]string

	// JobTimeout bounds the job's run time on the server. Zero means no limit.
	JobTimeout time.Duration
}

// NewQueryConfig returns a configuration for running q with standard SQL.
func NewQueryConfig(q string) *QueryConfig {
	return &QueryConfig{Q: q}
}

func (qc *QueryConfig) validate() error {
	if qc.Q == "" {
		return configErrorf("query is empty")
	}
	if qc.DefaultProjectID != "" && qc.DefaultDatasetID == "" {
		return configErrorf("DefaultProjectID set without DefaultDatasetID")
	}
	if qc.Dst != nil {
		return qc.Dst.validate()
	}
	return nil
}

func (qc *QueryConfig) toBQ() (*bq.JobConfiguration, io.Reader) {
	qconf := &bq.JobConfigurationQuery{
		Query:              qc.Q,
		CreateDisposition:  string(qc.CreateDisposition),
		WriteDisposition:   string(qc.WriteDisposition),
		Priority:           string(qc.Priority),
		MaximumBytesBilled: qc.MaxBytesBilled,
		CreateSession:      qc.CreateSession,
	}
	if qc.DefaultDatasetID != "" {
		qconf.DefaultDataset = &bq.DatasetReference{
			ProjectId: qc.DefaultProjectID,
			DatasetId: qc.DefaultDatasetID,
		}
	}
	if qc.Dst != nil {
		qconf.DestinationTable = qc.Dst.toBQ()
	}
	if qc.DisableQueryCache {
		useCache := false
		qconf.UseQueryCache = &useCache
	}
	// The service defaults to legacy SQL, so the flag is always sent.
	legacy := qc.UseLegacySQL
	qconf.UseLegacySql = &legacy
	for _, cp := range qc.ConnectionProperties {
		qconf.ConnectionProperties = append(qconf.ConnectionProperties, &bq.ConnectionProperty{
			Key:   cp.Key,
			Value: cp.Value,
		})
	}
	return &bq.JobConfiguration{
		Query:        qconf,
		DryRun:       qc.DryRun,
		Labels:       qc.Labels,
		JobTimeoutMs: qc.JobTimeout.Milliseconds(),
	}, nil
}
