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
	"io"
	"time"

	"github.com/bqjobs/bqjobs-go/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	bq "google.golang.org/api/bigquery/v2"
)

// service provides an internal abstraction to isolate the generated
// BigQuery API; most of this package uses this interface instead.
// The single implementation, *bigqueryService, contains all the knowledge
// of the generated BigQuery API.
//
// Implementations do not retry. Errors from the service are returned as
// *ServiceError.
type service interface {
	// Jobs
	insertJob(ctx context.Context, projectID string, job *bq.Job, media io.Reader) (*Job, error)
	getJob(ctx context.Context, ref JobReference) (*Job, error)
	cancelJob(ctx context.Context, ref JobReference) (*Job, error)

	// Table data
	listTableData(ctx context.Context, table TableReference, req pageRequest) (*readDataResult, error)
	getTableSchema(ctx context.Context, table TableReference, selectedFields string) (Schema, error)

	// Queries
	query(ctx context.Context, projectID string, req *bq.QueryRequest) (*queryResult, error)
	getQueryResults(ctx context.Context, ref JobReference, req pageRequest, timeout time.Duration) (*queryResult, error)

	// Row access policies
	listRowAccessPolicies(ctx context.Context, table TableReference, pageSize int64, pageToken string) ([]*RowAccessPolicy, string, error)
	getRowAccessPolicyIAM(ctx context.Context, p *RowAccessPolicy) (map[string][]string, error)
}

// pageRequest asks for one page of rows. Exactly one of pageToken and
// startIndex is sent: the token when it is set, the index otherwise.
type pageRequest struct {
	startIndex     uint64
	pageToken      string
	maxResults     int64
	selectedFields string
}

type readDataResult struct {
	pageToken string
	rows      []*bq.TableRow
	totalRows uint64
	// schema is only carried by query responses.
	schema Schema
}

type queryResult struct {
	readDataResult
	// jobRef is nil for queries that ran without creating a job.
	jobRef              *JobReference
	queryID             string
	jobComplete         bool
	errors              []*Error
	cacheHit            bool
	totalBytesProcessed int64
	sessionID           string
}

type bigqueryService struct {
	s *bq.Service
}

func (s *bigqueryService) insertJob(ctx context.Context, projectID string, job *bq.Job, media io.Reader) (j *Job, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.jobs.insert", jobAttrs(job.JobReference)...)
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Jobs.Insert(projectID, job).Context(ctx)
	setClientHeader(call.Header())
	if media != nil {
		call.Media(media)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	return bqToJob(res)
}

func (s *bigqueryService) getJob(ctx context.Context, ref JobReference) (j *Job, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.jobs.get", jobAttrs(ref.toBQ())...)
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Jobs.Get(ref.ProjectID, ref.JobID).
		Fields("jobReference", "status", "statistics").
		Context(ctx)
	setClientHeader(call.Header())
	if ref.Location != "" {
		call = call.Location(ref.Location)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	return bqToJob(res)
}

func (s *bigqueryService) cancelJob(ctx context.Context, ref JobReference) (j *Job, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.jobs.cancel", jobAttrs(ref.toBQ())...)
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Jobs.Cancel(ref.ProjectID, ref.JobID).Context(ctx)
	setClientHeader(call.Header())
	if ref.Location != "" {
		call = call.Location(ref.Location)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	return bqToJob(res.Job)
}

func (s *bigqueryService) listTableData(ctx context.Context, table TableReference, req pageRequest) (r *readDataResult, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.tabledata.list",
		attribute.String("bigquery.table", table.FullyQualifiedName()))
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Tabledata.List(table.ProjectID, table.DatasetID, table.TableID).Context(ctx)
	setClientHeader(call.Header())
	if req.pageToken != "" {
		call = call.PageToken(req.pageToken)
	} else {
		call = call.StartIndex(req.startIndex)
	}
	if req.maxResults > 0 {
		call = call.MaxResults(req.maxResults)
	}
	if req.selectedFields != "" {
		call = call.SelectedFields(req.selectedFields)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	return &readDataResult{
		pageToken: res.PageToken,
		rows:      res.Rows,
		totalRows: uint64(res.TotalRows),
	}, nil
}

func (s *bigqueryService) getTableSchema(ctx context.Context, table TableReference, selectedFields string) (sc Schema, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.tables.get",
		attribute.String("bigquery.table", table.FullyQualifiedName()))
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Tables.Get(table.ProjectID, table.DatasetID, table.TableID).
		Fields("schema").
		Context(ctx)
	setClientHeader(call.Header())
	if selectedFields != "" {
		call = call.SelectedFields(selectedFields)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	return bqToSchema(res.Schema), nil
}

func (s *bigqueryService) query(ctx context.Context, projectID string, req *bq.QueryRequest) (r *queryResult, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.jobs.query",
		attribute.String("bigquery.request_id", req.RequestId))
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Jobs.Query(projectID, req).Context(ctx)
	setClientHeader(call.Header())
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	qr := &queryResult{
		readDataResult: readDataResult{
			pageToken: res.PageToken,
			rows:      res.Rows,
			totalRows: res.TotalRows,
			schema:    bqToSchema(res.Schema),
		},
		queryID:             res.QueryId,
		jobComplete:         res.JobComplete,
		cacheHit:            res.CacheHit,
		totalBytesProcessed: res.TotalBytesProcessed,
	}
	if res.JobReference != nil {
		ref := bqToJobReference(res.JobReference)
		qr.jobRef = &ref
	}
	if res.SessionInfo != nil {
		qr.sessionID = res.SessionInfo.SessionId
	}
	for _, e := range res.Errors {
		qr.errors = append(qr.errors, bqToError(e))
	}
	return qr, nil
}

func (s *bigqueryService) getQueryResults(ctx context.Context, ref JobReference, req pageRequest, timeout time.Duration) (r *queryResult, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.jobs.getQueryResults", jobAttrs(ref.toBQ())...)
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.Jobs.GetQueryResults(ref.ProjectID, ref.JobID).Context(ctx)
	setClientHeader(call.Header())
	// A negative timeout leaves the wait to the service.
	if timeout >= 0 {
		call = call.TimeoutMs(timeout.Milliseconds())
	}
	if ref.Location != "" {
		call = call.Location(ref.Location)
	}
	if req.pageToken != "" {
		call = call.PageToken(req.pageToken)
	} else {
		call = call.StartIndex(req.startIndex)
	}
	if req.maxResults > 0 {
		call = call.MaxResults(req.maxResults)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	qr := &queryResult{
		readDataResult: readDataResult{
			pageToken: res.PageToken,
			rows:      res.Rows,
			totalRows: res.TotalRows,
			schema:    bqToSchema(res.Schema),
		},
		jobComplete:         res.JobComplete,
		cacheHit:            res.CacheHit,
		totalBytesProcessed: res.TotalBytesProcessed,
	}
	if res.JobReference != nil {
		jr := bqToJobReference(res.JobReference)
		qr.jobRef = &jr
	}
	for _, e := range res.Errors {
		qr.errors = append(qr.errors, bqToError(e))
	}
	return qr, nil
}

func (s *bigqueryService) listRowAccessPolicies(ctx context.Context, table TableReference, pageSize int64, pageToken string) (ps []*RowAccessPolicy, next string, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.rowAccessPolicies.list",
		attribute.String("bigquery.table", table.FullyQualifiedName()))
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.RowAccessPolicies.List(table.ProjectID, table.DatasetID, table.TableID).
		PageToken(pageToken).
		Context(ctx)
	setClientHeader(call.Header())
	if pageSize > 0 {
		call = call.PageSize(pageSize)
	}
	res, err := call.Do()
	if err != nil {
		return nil, "", fromAPIError(err)
	}
	for _, p := range res.RowAccessPolicies {
		ps = append(ps, bqToRowAccessPolicy(p))
	}
	return ps, res.NextPageToken, nil
}

func (s *bigqueryService) getRowAccessPolicyIAM(ctx context.Context, p *RowAccessPolicy) (bindings map[string][]string, err error) {
	ctx = trace.StartSpan(ctx, "bigquery.rowAccessPolicies.getIamPolicy",
		attribute.String("bigquery.row_access_policy", p.resourceName()))
	defer func() { trace.EndSpan(ctx, err) }()

	call := s.s.RowAccessPolicies.GetIamPolicy(p.resourceName(), &bq.GetIamPolicyRequest{}).Context(ctx)
	setClientHeader(call.Header())
	res, err := call.Do()
	if err != nil {
		return nil, fromAPIError(err)
	}
	bindings = make(map[string][]string)
	for _, b := range res.Bindings {
		bindings[b.Role] = append(bindings[b.Role], b.Members...)
	}
	return bindings, nil
}

func jobAttrs(ref *bq.JobReference) []attribute.KeyValue {
	if ref == nil {
		return nil
	}
	attrs := []attribute.KeyValue{attribute.String("bigquery.job.id", ref.JobId)}
	if ref.Location != "" {
		attrs = append(attrs, attribute.String("bigquery.job.location", ref.Location))
	}
	return attrs
}
