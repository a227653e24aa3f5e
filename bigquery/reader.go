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
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// pageSource fetches one page of rows. The first page carries the schema;
// later pages may omit it.
type pageSource interface {
	fetchPage(ctx context.Context, req pageRequest) (*readDataResult, error)
	fmt.Stringer
}

// A TableReader reads rows from a table, from the results of a completed
// query job, or from an inline query response.
type TableReader struct {
	src               pageSource
	maxRowsPerRequest int64
}

// TableReader returns a reader over the rows of a table. A table without a
// project is read from the client's project.
func (c *Client) TableReader(t TableReference) *TableReader {
	return &TableReader{
		src:               &tableSource{svc: c.svc, table: t.withProject(c.projectID)},
		maxRowsPerRequest: c.maxRowsPerRequest,
	}
}

// JobReader returns a reader over the results of a completed query job.
func (c *Client) JobReader(ref JobReference) *TableReader {
	if ref.ProjectID == "" {
		ref.ProjectID = c.projectID
	}
	return &TableReader{
		src:               &jobSource{svc: c.svc, ref: ref},
		maxRowsPerRequest: c.maxRowsPerRequest,
	}
}

func (r *TableReader) String() string { return r.src.String() }

// ReadRows reads at most maxRows rows, starting at row startRow.
func (r *TableReader) ReadRows(ctx context.Context, startRow, maxRows int64, selectedFields ...string) ([][]Value, error) {
	_, rows, err := r.ReadSchemaAndRows(ctx, startRow, maxRows, selectedFields...)
	return rows, err
}

// ReadSchemaAndRows reads at most maxRows rows, starting at row startRow,
// along with the schema. If selectedFields are given only those columns are
// returned. Pages are requested one after another until maxRows rows have
// been read or the rows run out. A failed page fails the whole read.
func (r *TableReader) ReadSchemaAndRows(ctx context.Context, startRow, maxRows int64, selectedFields ...string) (Schema, [][]Value, error) {
	if startRow < 0 {
		return nil, nil, configErrorf("negative start row %d", startRow)
	}
	var (
		schema Schema
		rows   [][]Value
		token  string
	)
	fields := strings.Join(selectedFields, ",")
	for int64(len(rows)) < maxRows {
		want := maxRows - int64(len(rows))
		if r.maxRowsPerRequest > 0 && r.maxRowsPerRequest < want {
			want = r.maxRowsPerRequest
		}
		req := pageRequest{maxResults: want, selectedFields: fields}
		if want > math.MaxInt32 {
			// Leave the page size to the service.
			req.maxResults = 0
		}
		if token != "" {
			req.pageToken = token
		} else {
			req.startIndex = uint64(startRow)
		}
		page, err := r.src.fetchPage(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		if schema == nil && len(page.schema) > 0 {
			schema = page.schema
		}
		pageRows := page.rows
		if rem := maxRows - int64(len(rows)); int64(len(pageRows)) > rem {
			pageRows = pageRows[:rem]
		}
		vals, err := convertRows(pageRows, schema)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, vals...)
		token = page.pageToken
		if token == "" || len(page.rows) == 0 {
			break
		}
	}
	return schema, rows, nil
}

// tableSource reads with tabledata.list. The table's schema is fetched once
// per field selection, alongside the first page.
type tableSource struct {
	svc   service
	table TableReference

	mu      sync.Mutex
	schemas map[string]Schema
}

func (s *tableSource) String() string { return s.table.String() }

func (s *tableSource) cachedSchema(fields string) (Schema, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schemas[fields]
	return sc, ok
}

func (s *tableSource) fetchPage(ctx context.Context, req pageRequest) (*readDataResult, error) {
	if sc, ok := s.cachedSchema(req.selectedFields); ok {
		res, err := s.svc.listTableData(ctx, s.table, req)
		if err != nil {
			return nil, err
		}
		res.schema = sc
		return res, nil
	}
	var (
		res *readDataResult
		sc  Schema
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.svc.listTableData(gctx, s.table, req)
		return err
	})
	g.Go(func() error {
		var err error
		sc, err = s.svc.getTableSchema(gctx, s.table, req.selectedFields)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.schemas == nil {
		s.schemas = make(map[string]Schema)
	}
	s.schemas[req.selectedFields] = sc
	s.mu.Unlock()
	res.schema = sc
	return res, nil
}

// jobSource reads the results of a query job with jobs.getQueryResults,
// without waiting for the job.
type jobSource struct {
	svc service
	ref JobReference
}

func (s *jobSource) String() string { return s.ref.String() }

func (s *jobSource) fetchPage(ctx context.Context, req pageRequest) (*readDataResult, error) {
	res, err := s.svc.getQueryResults(ctx, s.ref, req, 0)
	if err != nil {
		return nil, err
	}
	if !res.jobComplete {
		return nil, &JobNotDoneError{Job: s.ref}
	}
	return &res.readDataResult, nil
}

// querySource serves the rows already returned inline by jobs.query, and
// reads the rest from the query's job.
type querySource struct {
	first *queryResult
	// job is nil when the query ran without creating a job.
	job *jobSource
}

func (s *querySource) String() string {
	if s.job != nil {
		return s.job.String()
	}
	return "query " + s.first.queryID
}

// covers reports whether the inline rows answer an offset request.
func (s *querySource) covers(req pageRequest) bool {
	if req.pageToken != "" {
		return false
	}
	need := s.first.totalRows
	if req.maxResults > 0 && req.startIndex+uint64(req.maxResults) < need {
		need = req.startIndex + uint64(req.maxResults)
	}
	return uint64(len(s.first.rows)) >= need
}

func (s *querySource) fetchPage(ctx context.Context, req pageRequest) (*readDataResult, error) {
	if !s.first.jobComplete {
		ref := JobReference{}
		if s.job != nil {
			ref = s.job.ref
		}
		return nil, &JobNotDoneError{Job: ref}
	}
	if s.covers(req) {
		if uint64(len(s.first.rows)) < s.first.totalRows && s.first.pageToken == "" {
			return nil, &MalformedResponseError{
				Msg: fmt.Sprintf("query %s returned %d of %d rows without a page token", s, len(s.first.rows), s.first.totalRows),
			}
		}
		page := s.first.readDataResult
		page.rows = page.rows[min(req.startIndex, uint64(len(page.rows))):]
		return &page, nil
	}
	if s.job == nil {
		return nil, &MalformedResponseError{Msg: fmt.Sprintf("query %s has more rows but no job to read them from", s)}
	}
	return s.job.fetchPage(ctx, req)
}
