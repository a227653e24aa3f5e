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
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bqjobs/bqjobs-go/internal/testutil"
	bq "google.golang.org/api/bigquery/v2"
	itest "google.golang.org/api/iterator/testing"
)

type listRowAccessPoliciesStub struct {
	expectedProject, expectedDataset, expectedTable string
	policies                                        []*RowAccessPolicy
}

func (s *listRowAccessPoliciesStub) listPolicies(t TableReference, pageSize int64, pageToken string) ([]*RowAccessPolicy, string, error) {
	if t.ProjectID != s.expectedProject {
		return nil, "", fmt.Errorf("wrong project id: %q", t.ProjectID)
	}
	if t.DatasetID != s.expectedDataset {
		return nil, "", fmt.Errorf("wrong dataset id: %q", t.DatasetID)
	}
	if t.TableID != s.expectedTable {
		return nil, "", fmt.Errorf("wrong table id: %q", t.TableID)
	}
	const maxPageSize = 10
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	start := 0
	if pageToken != "" {
		var err error
		start, err = strconv.Atoi(pageToken)
		if err != nil {
			return nil, "", err
		}
	}
	end := min(start+int(pageSize), len(s.policies))
	nextPageToken := ""
	if end < len(s.policies) {
		nextPageToken = strconv.Itoa(end)
	}
	// Hand out copies, as the service would.
	var out []*RowAccessPolicy
	for _, p := range s.policies[start:end] {
		cp := *p
		out = append(out, &cp)
	}
	return out, nextPageToken, nil
}

func testPolicies(n int) []*RowAccessPolicy {
	var ps []*RowAccessPolicy
	for i := 1; i <= n; i++ {
		ps = append(ps, &RowAccessPolicy{ProjectID: "p1", DatasetID: "d1", TableID: "t1", PolicyID: fmt.Sprintf("pol%d", i)})
	}
	return ps
}

func TestRowAccessPolicies(t *testing.T) {
	lps := &listRowAccessPoliciesStub{
		expectedProject: "p1",
		expectedDataset: "d1",
		expectedTable:   "t1",
		policies:        testPolicies(3),
	}
	svc := &fakeService{listRowAccessPoliciesFn: lps.listPolicies}
	c, _, _ := newTestClient(svc)
	c.projectID = "p1"

	msg, ok := itest.TestIterator(testPolicies(3),
		func() interface{} {
			return c.RowAccessPolicies(context.Background(), TableReference{DatasetID: "d1", TableID: "t1"})
		},
		func(it interface{}) (interface{}, error) { return it.(*RowAccessPolicyIterator).Next() })
	if !ok {
		t.Error(msg)
	}
}

func TestListRowAccessPoliciesWithGrantees(t *testing.T) {
	lps := &listRowAccessPoliciesStub{
		expectedProject: "p1",
		expectedDataset: "d1",
		expectedTable:   "t1",
		policies:        testPolicies(5),
	}
	var inFlight, maxInFlight atomic.Int32
	svc := &fakeService{
		listRowAccessPoliciesFn: lps.listPolicies,
		getRowAccessPolicyIAMFn: func(_ context.Context, p *RowAccessPolicy) (map[string][]string, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			// Finish out of order: later policies answer sooner.
			i, _ := strconv.Atoi(p.PolicyID[len("pol"):])
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			return map[string][]string{
				filteredDataViewerRole: {"user:" + p.PolicyID + "@example.com"},
				"roles/owner":          {"user:admin@example.com"},
			}, nil
		},
	}
	c, _, _ := newTestClient(svc)
	c.projectID = "p1"
	got, next, err := c.ListRowAccessPoliciesWithGrantees(context.Background(), TableReference{DatasetID: "d1", TableID: "t1"}, 4, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if next != "4" {
		t.Errorf("got next page token %q, want 4", next)
	}
	var want []*RowAccessPolicy
	for _, p := range testPolicies(4) {
		p.Grantees = []string{"user:" + p.PolicyID + "@example.com"}
		want = append(want, p)
	}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Errorf("-got, +want:\n%s", diff)
	}
	if m := maxInFlight.Load(); m > 2 {
		t.Errorf("%d IAM requests in flight, want at most 2", m)
	}
}

func TestListRowAccessPoliciesWithGranteesError(t *testing.T) {
	lps := &listRowAccessPoliciesStub{
		expectedProject: "proj",
		expectedDataset: "d1",
		expectedTable:   "t1",
		policies:        testPolicies(2),
	}
	lps.policies[0].ProjectID = "proj"
	lps.policies[1].ProjectID = "proj"
	wantErr := apiError(403, ReasonAccessDenied)
	svc := &fakeService{
		listRowAccessPoliciesFn: lps.listPolicies,
		getRowAccessPolicyIAMFn: func(ctx context.Context, p *RowAccessPolicy) (map[string][]string, error) {
			if p.PolicyID == "pol2" {
				return nil, wantErr
			}
			// The failure of the other request cancels this one.
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	c, _, _ := newTestClient(svc)
	_, _, err := c.ListRowAccessPoliciesWithGrantees(context.Background(), TableReference{DatasetID: "d1", TableID: "t1"}, 0, "", 2)
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

func TestListRowAccessPoliciesWithGranteesMinimumConcurrency(t *testing.T) {
	lps := &listRowAccessPoliciesStub{
		expectedProject: "proj",
		expectedDataset: "d1",
		expectedTable:   "t1",
	}
	svc := &fakeService{
		listRowAccessPoliciesFn: lps.listPolicies,
		getRowAccessPolicyIAMFn: func(context.Context, *RowAccessPolicy) (map[string][]string, error) {
			return nil, nil
		},
	}
	for _, p := range testPolicies(2) {
		p.ProjectID = "proj"
		lps.policies = append(lps.policies, p)
	}
	c, _, _ := newTestClient(svc)
	got, _, err := c.ListRowAccessPoliciesWithGrantees(context.Background(), TableReference{DatasetID: "d1", TableID: "t1"}, 0, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Grantees != nil {
		t.Errorf("got %+v", got)
	}
}

func TestBQToRowAccessPolicy(t *testing.T) {
	got := bqToRowAccessPolicy(&bq.RowAccessPolicy{
		RowAccessPolicyReference: &bq.RowAccessPolicyReference{ProjectId: "p", DatasetId: "d", TableId: "t", PolicyId: "pol"},
		FilterPredicate:          "region = 'EU'",
		CreationTime:             "2024-03-01T10:00:00Z",
		LastModifiedTime:         "not a time",
		Etag:                     "etag",
	})
	want := &RowAccessPolicy{
		ProjectID:       "p",
		DatasetID:       "d",
		TableID:         "t",
		PolicyID:        "pol",
		FilterPredicate: "region = 'EU'",
		CreationTime:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		ETag:            "etag",
	}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Errorf("-got, +want:\n%s", diff)
	}
	if got, want := got.resourceName(), "projects/p/datasets/d/tables/t/rowAccessPolicies/pol"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
