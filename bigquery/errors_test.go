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
	"errors"
	"testing"
	"time"

	"github.com/bqjobs/bqjobs-go/internal/testutil"
	"google.golang.org/api/googleapi"
)

func TestCheckJobError(t *testing.T) {
	ref := JobReference{ProjectID: "p", JobID: "j", Location: "EU"}
	primary := &Error{Reason: ReasonInvalidQuery, Message: "Syntax error", Location: "query"}
	for _, test := range []struct {
		desc        string
		status      *JobStatus
		sessionID   string
		wantMessage string
	}{
		{
			desc:        "single error",
			status:      &JobStatus{State: Done, ErrorResult: primary, Errors: []*Error{primary}},
			wantMessage: "Error processing job 'p:EU.j': Syntax error",
		},
		{
			desc: "more errors",
			status: &JobStatus{State: Done, ErrorResult: primary, Errors: []*Error{
				{Reason: ReasonInvalidQuery, Message: "Syntax error", Location: "query"},
				{Reason: "invalid", Message: "Column x unknown", Location: "x"},
				{Reason: "invalid", Message: "No location"},
			}},
			sessionID: "sess1",
			wantMessage: "Error processing job 'p:EU.j': Syntax error\n" +
				"Failure details:\n" +
				" - x: Column x unknown\n" +
				" - No location\n" +
				"In session: sess1",
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			job := &Job{Reference: ref, Status: test.status, SessionID: test.sessionID}
			got, err := CheckJobError(job)
			if got != job {
				t.Error("job not returned")
			}
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want *ServiceError", err)
			}
			if se.Message != test.wantMessage {
				t.Errorf("got message\n%s\nwant\n%s", se.Message, test.wantMessage)
			}
			if se.Reason != ReasonInvalidQuery || se.Location != "query" || *se.JobRef != ref || se.SessionID != test.sessionID {
				t.Errorf("got %+v", se)
			}
			if diff := testutil.Diff(se.Errors, test.status.Errors); diff != "" {
				t.Errorf("errors: -got, +want:\n%s", diff)
			}
		})
	}
}

func TestCheckJobErrorPassesThrough(t *testing.T) {
	for _, st := range []*JobStatus{
		{State: Done},
		{State: Running},
		// Errors without an error result are warnings.
		{State: Done, Errors: []*Error{{Reason: "warning", Message: "w"}}},
	} {
		job := &Job{Status: st}
		got, err := CheckJobError(job)
		if err != nil || got != job {
			t.Errorf("%+v: got %v, %v", st, got, err)
		}
	}
}

func TestCheckJobErrorMalformed(t *testing.T) {
	for _, job := range []*Job{
		nil,
		{},
		{Status: &JobStatus{State: Done, ErrorResult: &Error{Message: "no reason"}}},
		{Status: &JobStatus{State: Done, ErrorResult: &Error{Reason: "invalid"}}},
	} {
		_, err := CheckJobError(job)
		var me *MalformedResponseError
		if !errors.As(err, &me) {
			t.Errorf("%+v: got %v, want *MalformedResponseError", job, err)
		}
	}
}

func TestFromAPIError(t *testing.T) {
	ae := &googleapi.Error{
		Code:    404,
		Message: "Not found: Job p:j",
		Errors: []googleapi.ErrorItem{
			{Reason: ReasonNotFound, Message: "Not found: Job p:j"},
		},
	}
	err := fromAPIError(ae)
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want *ServiceError", err)
	}
	if se.Code != 404 || se.Reason != ReasonNotFound || se.Location != "" || se.Message != "Not found: Job p:j" {
		t.Errorf("got %+v", se)
	}
	var got *googleapi.Error
	if !errors.As(err, &got) || got != ae {
		t.Error("original error is not reachable")
	}

	other := errors.New("boom")
	if fromAPIError(other) != other {
		t.Error("non-API error was changed")
	}
	if fromAPIError(nil) != nil {
		t.Error("nil was changed")
	}
}

func TestWaitTimeoutErrorMessage(t *testing.T) {
	err := &WaitTimeoutError{JobID: "j", LastState: Pending, Waited: 90*time.Second + 400*time.Millisecond}
	want := "bigquery: wait timed out after 1m30s. Operation not finished, in state PENDING"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
