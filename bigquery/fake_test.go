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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	gax "github.com/googleapis/gax-go/v2"
	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var errUnexpectedCall = errors.New("unexpected call")

// fakeService implements service with per-method hooks. Calls without a hook
// fail with errUnexpectedCall.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	insertJobFn             func(projectID string, job *bq.Job, media io.Reader) (*Job, error)
	getJobFn                func(ref JobReference) (*Job, error)
	cancelJobFn             func(ref JobReference) (*Job, error)
	listTableDataFn         func(t TableReference, req pageRequest) (*readDataResult, error)
	getTableSchemaFn        func(t TableReference, selectedFields string) (Schema, error)
	queryFn                 func(projectID string, req *bq.QueryRequest) (*queryResult, error)
	getQueryResultsFn       func(ref JobReference, req pageRequest, timeout time.Duration) (*queryResult, error)
	listRowAccessPoliciesFn func(t TableReference, pageSize int64, pageToken string) ([]*RowAccessPolicy, string, error)
	getRowAccessPolicyIAMFn func(ctx context.Context, p *RowAccessPolicy) (map[string][]string, error)
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// count returns how many times the named method was called.
func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) insertJob(_ context.Context, projectID string, job *bq.Job, media io.Reader) (*Job, error) {
	f.record("insertJob")
	if f.insertJobFn == nil {
		return nil, errUnexpectedCall
	}
	return f.insertJobFn(projectID, job, media)
}

func (f *fakeService) getJob(_ context.Context, ref JobReference) (*Job, error) {
	f.record("getJob")
	if f.getJobFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getJobFn(ref)
}

func (f *fakeService) cancelJob(_ context.Context, ref JobReference) (*Job, error) {
	f.record("cancelJob")
	if f.cancelJobFn == nil {
		return nil, errUnexpectedCall
	}
	return f.cancelJobFn(ref)
}

func (f *fakeService) listTableData(_ context.Context, t TableReference, req pageRequest) (*readDataResult, error) {
	f.record("listTableData")
	if f.listTableDataFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listTableDataFn(t, req)
}

func (f *fakeService) getTableSchema(_ context.Context, t TableReference, selectedFields string) (Schema, error) {
	f.record("getTableSchema")
	if f.getTableSchemaFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getTableSchemaFn(t, selectedFields)
}

func (f *fakeService) query(_ context.Context, projectID string, req *bq.QueryRequest) (*queryResult, error) {
	f.record("query")
	if f.queryFn == nil {
		return nil, errUnexpectedCall
	}
	return f.queryFn(projectID, req)
}

func (f *fakeService) getQueryResults(_ context.Context, ref JobReference, req pageRequest, timeout time.Duration) (*queryResult, error) {
	f.record("getQueryResults")
	if f.getQueryResultsFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getQueryResultsFn(ref, req, timeout)
}

func (f *fakeService) listRowAccessPolicies(_ context.Context, t TableReference, pageSize int64, pageToken string) ([]*RowAccessPolicy, string, error) {
	f.record("listRowAccessPolicies")
	if f.listRowAccessPoliciesFn == nil {
		return nil, "", errUnexpectedCall
	}
	return f.listRowAccessPoliciesFn(t, pageSize, pageToken)
}

func (f *fakeService) getRowAccessPolicyIAM(ctx context.Context, p *RowAccessPolicy) (map[string][]string, error) {
	f.record("getRowAccessPolicyIAM")
	if f.getRowAccessPolicyIAMFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getRowAccessPolicyIAMFn(ctx, p)
}

// fakeClock advances only when slept on.
type fakeClock struct {
	mu     sync.Mutex
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

// advance moves the clock as a slow call would.
func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// newTestClient returns a client for project "proj" over svc with a fake
// clock, a quiet printer and a logger writing to the returned buffer.
func newTestClient(svc service, opts ...option.ClientOption) (*Client, *fakeClock, *bytes.Buffer) {
	var logs bytes.Buffer
	o := []option.ClientOption{
		WithWaitPrinter(func() WaitPrinter { return QuietWaitPrinter{} }),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	}
	c := newClient("proj", svc, newCustomClientConfig(append(o, opts...)...))
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.now
	c.sleep = clock.sleep
	c.submitBackoff = gax.Backoff{Initial: time.Millisecond, Max: time.Millisecond}
	return c, clock, &logs
}

func testJob(id string, state State) *Job {
	return &Job{
		Reference: JobReference{ProjectID: "proj", JobID: id},
		Status:    &JobStatus{State: state},
	}
}

func apiError(code int, reason string) error {
	return fromAPIError(&googleapi.Error{
		Code:    code,
		Message: fmt.Sprintf("%d %s", code, reason),
		Errors:  []googleapi.ErrorItem{{Reason: reason, Message: reason}},
	})
}
