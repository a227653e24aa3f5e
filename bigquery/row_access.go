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
	"time"

	"golang.org/x/sync/errgroup"
	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/iterator"
)

// filteredDataViewerRole is the IAM role whose members are the grantees of a
// row access policy.
const filteredDataViewerRole = "roles/bigquery.filteredDataViewer"

// RowAccessPolicy restricts the rows of a table that its grantees can read.
type RowAccessPolicy struct {
	ProjectID string
	DatasetID string
	TableID   string
	PolicyID  string

	// FilterPredicate is a SQL boolean expression selecting the rows the
	// grantees can see.
	FilterPredicate string

	CreationTime     time.Time
	LastModifiedTime time.Time
	ETag             string

	// Grantees are the members holding the filtered data viewer role on the
	// policy. Only ListRowAccessPoliciesWithGrantees fills it in.
	Grantees []string
}

func (p *RowAccessPolicy) resourceName() string {
	return fmt.Sprintf("projects/%s/datasets/%s/tables/%s/rowAccessPolicies/%s",
		p.ProjectID, p.DatasetID, p.TableID, p.PolicyID)
}

func bqToRowAccessPolicy(r *bq.RowAccessPolicy) *RowAccessPolicy {
	p := &RowAccessPolicy{
		FilterPredicate: r.FilterPredicate,
		ETag:            r.Etag,
	}
	if ref := r.RowAccessPolicyReference; ref != nil {
		p.ProjectID = ref.ProjectId
		p.DatasetID = ref.DatasetId
		p.TableID = ref.TableId
		p.PolicyID = ref.PolicyId
	}
	// Unparseable times are left zero.
	p.CreationTime, _ = time.Parse(time.RFC3339Nano, r.CreationTime)
	p.LastModifiedTime, _ = time.Parse(time.RFC3339Nano, r.LastModifiedTime)
	return p
}

// A RowAccessPolicyIterator is an iterator over Row Access Policies.
type RowAccessPolicyIterator struct {
	ctx      context.Context
	svc      service
	table    TableReference
	policies []*RowAccessPolicy
	pageInfo *iterator.PageInfo
	nextFunc func() error
}

// Next returns the next result. Its second return value is Done if there are
// no more results. Once Next returns Done, all subsequent calls will return
// Done.
func (it *RowAccessPolicyIterator) Next() (*RowAccessPolicy, error) {
	if err := it.nextFunc(); err != nil {
		return nil, err
	}
	p := it.policies[0]
	it.policies = it.policies[1:]
	return p, nil
}

// PageInfo supports pagination. See the google.golang.org/api/iterator package for details.
func (it *RowAccessPolicyIterator) PageInfo() *iterator.PageInfo { return it.pageInfo }

func (it *RowAccessPolicyIterator) fetch(pageSize int, pageToken string) (string, error) {
	ps, next, err := it.svc.listRowAccessPolicies(it.ctx, it.table, int64(pageSize), pageToken)
	if err != nil {
		return "", err
	}
	it.policies = append(it.policies, ps...)
	return next, nil
}

// RowAccessPolicies returns an iterator over the row access policies of a
// table, without their grantees.
func (c *Client) RowAccessPolicies(ctx context.Context, t TableReference) *RowAccessPolicyIterator {
	it := &RowAccessPolicyIterator{
		ctx:   ctx,
		svc:   c.svc,
		table: t.withProject(c.projectID),
	}
	it.pageInfo, it.nextFunc = iterator.NewPageInfo(
		it.fetch,
		func() int { return len(it.policies) },
		func() interface{} { b := it.policies; it.policies = nil; return b })
	return it
}

// ListRowAccessPoliciesWithGrantees lists one page of the row access policies
// of a table and fills in the grantees of each. The IAM policies are fetched
// with at most concurrency requests in flight; the first failure cancels the
// others and is returned. It also returns the token of the next page.
func (c *Client) ListRowAccessPoliciesWithGrantees(ctx context.Context, t TableReference, pageSize int64, pageToken string, concurrency int) ([]*RowAccessPolicy, string, error) {
	t = t.withProject(c.projectID)
	if err := t.validate(); err != nil {
		return nil, "", err
	}
	policies, next, err := c.svc.listRowAccessPolicies(ctx, t, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	grantees := make([][]string, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for i, p := range policies {
		g.Go(func() error {
			bindings, err := c.svc.getRowAccessPolicyIAM(gctx, p)
			if err != nil {
				return fmt.Errorf("bigquery: fetching grantees of %s: %w", p.PolicyID, err)
			}
			grantees[i] = bindings[filteredDataViewerRole]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	for i, p := range policies {
		p.Grantees = grantees[i]
	}
	return policies, next, nil
}
