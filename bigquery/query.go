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
	"math"
	"time"

	"github.com/google/uuid"
	bq "google.golang.org/api/bigquery/v2"
)

// RunQuery runs q as a query job, waits for it to finish and reads at most
// maxRows rows of the result starting at startRow. It waits even on an
// asynchronous client. A dry run returns the schema the query would produce
// and no rows.
func (c *Client) RunQuery(ctx context.Context, q *QueryConfig, idc JobIDConfig, startRow, maxRows int64) (Schema, [][]Value, *Job, error) {
	if q == nil {
		return nil, nil, nil, configErrorf("no query configuration")
	}
	job, err := c.RunJobSynchronously(ctx, q, idc)
	if err != nil {
		return nil, nil, job, err
	}
	if q.DryRun {
		var schema Schema
		if job.Statistics != nil && job.Statistics.Query != nil {
			schema = job.Statistics.Query.Schema
		}
		return schema, nil, job, nil
	}
	schema, rows, err := c.JobReader(job.Reference).ReadSchemaAndRows(ctx, startRow, maxRows)
	if err != nil {
		return nil, nil, job, err
	}
	return schema, rows, job, nil
}

// RPCQuery is a query run with the jobs.query method, which can return
// results without a separate job to poll.
type RPCQuery struct {
	// Q is the SQL query text.
	Q string

	// ProjectID is the project to run in. If empty, the client's project is
	// used.
	ProjectID string

	// Location is where the query runs. If empty, the client's Location is
	// used.
	Location string

	DryRun            bool
	DisableQueryCache bool
	UseLegacySQL      bool
	CreateSession     bool
	MaxBytesBilled    int64

	// DefaultDataset resolves unqualified table names. If nil, the client's
	// default dataset is used.
	DefaultDataset *DatasetReference

	ConnectionProperties []*ConnectionProperty
	Labels               map[string]string

	// RequestID makes the request idempotent. A random ID is used if empty.
	RequestID string

	// JobCreationMode overrides the client's default mode.
	JobCreationMode JobCreationMode

	// MaxResults caps the rows returned. Zero returns every row.
	MaxResults int64

	// Wait bounds the whole call. Zero waits forever.
	Wait time.Duration

	// MaxSingleWait bounds each request made while waiting. Zero leaves it
	// to the service.
	MaxSingleWait time.Duration

	// NewWaitPrinter overrides the client's wait printer factory.
	NewWaitPrinter func() WaitPrinter
}

// QueryExecution describes how a query run by RunQueryRPC went.
type QueryExecution struct {
	// State is SUCCESS for a query that completed.
	State string
	// JobRef is nil when the service answered without creating a job.
	JobRef    *JobReference
	QueryID   string
	Errors    []*Error
	SessionID string

	// DryRun is set for dry runs, which only report Statistics.
	DryRun     bool
	Statistics *QueryStatistics
}

// RunQueryRPC runs a query with jobs.query, waits for it with
// jobs.getQueryResults if it does not finish right away, and reads its rows.
//
// Transient errors are logged and the query is polled again. Other errors are
// returned at once. If q.Wait elapses first, RunQueryRPC returns a
// *WaitTimeoutError.
func (c *Client) RunQueryRPC(ctx context.Context, q *RPCQuery) (Schema, [][]Value, *QueryExecution, error) {
	if !c.sync {
		return nil, nil, nil, configErrorf("running an RPC-style query asynchronously is not supported")
	}
	if q == nil || q.Q == "" {
		return nil, nil, nil, configErrorf("no query string provided")
	}
	projectID := q.ProjectID
	if projectID == "" {
		projectID = c.projectID
	}
	if projectID == "" {
		return nil, nil, nil, configErrorf("cannot run a query without a project ID")
	}
	wait := q.Wait
	if wait <= 0 {
		wait = WaitForever
	}
	maxRows := q.MaxResults
	if maxRows <= 0 {
		maxRows = math.MaxInt64
	}
	newPrinter := q.NewWaitPrinter
	if newPrinter == nil {
		newPrinter = c.newWaitPrinter
	}
	printer := newPrinter()
	defer printer.Done()

	req := c.queryRequest(q, projectID)
	start := c.now()
	var ref *JobReference
	for {
		elapsed := c.now().Sub(start)
		remaining := wait - elapsed
		if remaining <= 0 {
			e := &WaitTimeoutError{Waited: elapsed}
			if ref != nil {
				e.JobID, e.LastState = ref.JobID, Running
			}
			return nil, nil, nil, e
		}
		timeout := time.Duration(-1)
		if wait != WaitForever {
			timeout = remaining
		}
		if q.MaxSingleWait > 0 && (timeout < 0 || q.MaxSingleWait < timeout) {
			timeout = q.MaxSingleWait
		}

		var (
			res *queryResult
			err error
		)
		if ref == nil {
			if timeout >= 0 {
				req.TimeoutMs = timeout.Milliseconds()
			}
			res, err = c.svc.query(ctx, projectID, req)
			if err == nil && q.DryRun {
				return nil, nil, dryRunExecution(res), nil
			}
			if err == nil {
				ref = res.jobRef
			}
		} else {
			printer.Print(ref.JobID, elapsed, Running.String())
			res, err = c.svc.getQueryResults(ctx, *ref, pageRequest{maxResults: req.MaxResults}, timeout)
		}
		if err != nil {
			if !Classify(err).Transient() {
				return nil, nil, nil, err
			}
			c.logger.WarnContext(ctx, "transient error during query", "error", err)
			if err := c.sleep(ctx, time.Second); err != nil {
				return nil, nil, nil, err
			}
			continue
		}
		if !res.jobComplete {
			if ref == nil {
				return nil, nil, nil, &MalformedResponseError{Msg: "incomplete query returned no job reference"}
			}
			continue
		}

		src := &querySource{first: res}
		if ref != nil {
			src.job = &jobSource{svc: c.svc, ref: *ref}
		}
		reader := &TableReader{src: src, maxRowsPerRequest: c.maxRowsPerRequest}
		schema, rows, err := reader.ReadSchemaAndRows(ctx, 0, maxRows)
		if err != nil {
			return nil, nil, nil, err
		}
		return schema, rows, &QueryExecution{
			State:     "SUCCESS",
			JobRef:    ref,
			QueryID:   res.queryID,
			Errors:    res.errors,
			SessionID: res.sessionID,
		}, nil
	}
}

func (c *Client) queryRequest(q *RPCQuery, projectID string) *bq.QueryRequest {
	location := q.Location
	if location == "" {
		location = c.Location
	}
	mode := q.JobCreationMode
	if mode == "" {
		mode = c.jobCreationMode
	}
	requestID := q.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	legacy := q.UseLegacySQL
	req := &bq.QueryRequest{
		Query:              q.Q,
		DryRun:             q.DryRun,
		UseLegacySql:       &legacy,
		CreateSession:      q.CreateSession,
		MaximumBytesBilled: q.MaxBytesBilled,
		Location:           location,
		Labels:             q.Labels,
		RequestId:          requestID,
		JobCreationMode:    string(mode),
	}
	if q.DisableQueryCache {
		useCache := false
		req.UseQueryCache = &useCache
	}
	ds := q.DefaultDataset
	if ds == nil {
		ds = c.defaultDataset
	}
	if req.DefaultDataset = ds.toBQ(); req.DefaultDataset != nil && req.DefaultDataset.ProjectId == "" {
		req.DefaultDataset.ProjectId = projectID
	}
	for _, cp := range q.ConnectionProperties {
		req.ConnectionProperties = append(req.ConnectionProperties, &bq.ConnectionProperty{Key: cp.Key, Value: cp.Value})
	}
	rows := q.MaxResults
	if c.maxRowsPerRequest > 0 && (rows <= 0 || c.maxRowsPerRequest < rows) {
		rows = c.maxRowsPerRequest
	}
	if rows > 0 {
		req.MaxResults = rows
	}
	return req
}

func dryRunExecution(res *queryResult) *QueryExecution {
	return &QueryExecution{
		DryRun:  true,
		JobRef:  res.jobRef,
		QueryID: res.queryID,
		Statistics: &QueryStatistics{
			TotalBytesProcessed: res.totalBytesProcessed,
			CacheHit:            res.cacheHit,
			Schema:              res.schema,
		},
	}
}
