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
	"fmt"
	"strings"
	"time"

	bq "google.golang.org/api/bigquery/v2"
)

// JobReference identifies a job. The reference returned when a job is
// submitted is the one to use for every later call on that job.
type JobReference struct {
	ProjectID string
	JobID     string
	// Location is empty when the service did not report one.
	Location string
}

// String renders the reference as project:location.job, or project:job when
// the location is unknown.
func (r JobReference) String() string {
	if r.Location == "" {
		return fmt.Sprintf("%s:%s", r.ProjectID, r.JobID)
	}
	return fmt.Sprintf("%s:%s.%s", r.ProjectID, r.Location, r.JobID)
}

// ParseJobReference parses the project:location.job and project:job forms
// produced by JobReference.String. Domain-scoped projects such as
// example.com:proj are accepted.
func ParseJobReference(s string) (JobReference, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return JobReference{}, configErrorf("cannot parse job reference %q: want project:job or project:location.job", s)
	}
	ref := JobReference{ProjectID: s[:i], JobID: s[i+1:]}
	if j := strings.Index(ref.JobID, "."); j >= 0 {
		ref.Location, ref.JobID = ref.JobID[:j], ref.JobID[j+1:]
		if ref.Location == "" || ref.JobID == "" {
			return JobReference{}, configErrorf("cannot parse job reference %q", s)
		}
	}
	return ref, nil
}

func (r JobReference) toBQ() *bq.JobReference {
	return &bq.JobReference{
		ProjectId: r.ProjectID,
		JobId:     r.JobID,
		Location:  r.Location,
	}
}

func bqToJobReference(r *bq.JobReference) JobReference {
	if r == nil {
		return JobReference{}
	}
	return JobReference{ProjectID: r.ProjectId, JobID: r.JobId, Location: r.Location}
}

// A Job is one observed snapshot of a job. Snapshots are not refreshed; poll
// again to see newer state.
type Job struct {
	Reference  JobReference
	Status     *JobStatus
	Statistics *JobStatistics
	// SessionID is set when the job ran inside a session.
	SessionID string
}

// ID returns the job's ID.
func (j *Job) ID() string {
	return j.Reference.JobID
}

// State is one of a sequence of states that a Job progresses through as it is processed.
type State int

const (
	// StateUnspecified is the zero value; the service never reports it.
	StateUnspecified State = iota
	// Pending is a state that describes that the job is pending.
	Pending
	// Running is a state that describes that the job is running.
	Running
	// Done is a state that describes that the job is done.
	Done
)

var stateMap = map[string]State{"PENDING": Pending, "RUNNING": Running, "DONE": Done}

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Done:
		return "DONE"
	}
	return "STATE_UNSPECIFIED"
}

// JobStatus contains the current State of a job, and errors encountered while processing that job.
type JobStatus struct {
	State State

	// ErrorResult is set when a DONE job failed.
	ErrorResult *Error

	// All errors encountered during the running of the job.
	// Not all Errors are fatal, so errors here do not necessarily mean that the job has completed or was unsuccessful.
	Errors []*Error
}

// Done reports whether the job has completed.
func (s *JobStatus) Done() bool {
	return s.State == Done
}

// JobStatistics contains statistics about a job.
type JobStatistics struct {
	CreationTime        time.Time
	StartTime           time.Time
	EndTime             time.Time
	TotalBytesProcessed int64

	// Query is set for query jobs and dry runs.
	Query *QueryStatistics
}

// QueryStatistics are the statistics specific to query jobs.
type QueryStatistics struct {
	TotalBytesProcessed int64
	TotalBytesBilled    int64
	CacheHit            bool
	StatementType       string
	// Schema of the query result, reported for dry runs.
	Schema Schema
}

func bqToJob(j *bq.Job) (*Job, error) {
	if j == nil {
		return nil, &MalformedResponseError{Msg: "empty job resource"}
	}
	st, err := bqToJobStatus(j.Status)
	if err != nil {
		return nil, err
	}
	job := &Job{
		Reference:  bqToJobReference(j.JobReference),
		Status:     st,
		Statistics: bqToJobStatistics(j.Statistics),
	}
	if j.Statistics != nil && j.Statistics.SessionInfo != nil {
		job.SessionID = j.Statistics.SessionInfo.SessionId
	}
	return job, nil
}

func bqToJobStatus(status *bq.JobStatus) (*JobStatus, error) {
	if status == nil {
		return nil, &MalformedResponseError{Msg: "job has no status"}
	}
	state, ok := stateMap[status.State]
	if !ok {
		return nil, &MalformedResponseError{Msg: fmt.Sprintf("unexpected job state: %q", status.State)}
	}
	js := &JobStatus{State: state}
	if state == Done {
		js.ErrorResult = bqToError(status.ErrorResult)
	}
	for _, ep := range status.Errors {
		js.Errors = append(js.Errors, bqToError(ep))
	}
	return js, nil
}

func bqToJobStatistics(s *bq.JobStatistics) *JobStatistics {
	if s == nil {
		return nil
	}
	js := &JobStatistics{
		CreationTime:        unixMillisToTime(s.CreationTime),
		StartTime:           unixMillisToTime(s.StartTime),
		EndTime:             unixMillisToTime(s.EndTime),
		TotalBytesProcessed: s.TotalBytesProcessed,
	}
	if q := s.Query; q != nil {
		js.Query = &QueryStatistics{
			TotalBytesProcessed: q.TotalBytesProcessed,
			TotalBytesBilled:    q.TotalBytesBilled,
			CacheHit:            q.CacheHit,
			StatementType:       q.StatementType,
		}
		if q.Schema != nil {
			js.Query.Schema = bqToSchema(q.Schema)
		}
	}
	return js
}

// Convert a number of milliseconds since the Unix epoch to a time.Time.
// Treat an input of zero specially: convert it to the zero time,
// rather than the start of the epoch.
func unixMillisToTime(m int64) time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.Unix(0, m*1e6)
}
