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
	"time"

	"github.com/bqjobs/bqjobs-go/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	bq "google.golang.org/api/bigquery/v2"
)

// JobIDConfig describes how to create an ID for a job.
type JobIDConfig struct {
	// JobID is the ID to use for the job. If empty, an ID is generated.
	JobID string

	// Generator produces the ID when JobID is empty. If both are empty the
	// client's generator is used. Setting both is an error.
	Generator JobIDGenerator

	// ProjectID is the project the job runs in. If empty, the client's
	// project is used.
	ProjectID string

	// Location is the location for the job. If empty, the client's Location
	// is used.
	Location string
}

func (c *Client) jobID(conf JobConfiguration, idc JobIDConfig) (string, error) {
	if idc.JobID != "" {
		if idc.Generator != nil {
			return "", configErrorf("both a job ID and a job ID generator were given")
		}
		return idc.JobID, nil
	}
	gen := idc.Generator
	if gen == nil {
		gen = c.jobIDGen
	}
	return gen.Generate(conf), nil
}

// resolveJobRef fills in the client's project and location.
func (c *Client) resolveJobRef(ref JobReference) (JobReference, error) {
	if ref.ProjectID == "" {
		ref.ProjectID = c.projectID
	}
	if ref.Location == "" {
		ref.Location = c.Location
	}
	if ref.ProjectID == "" {
		return JobReference{}, configErrorf("no project ID for job %q", ref.JobID)
	}
	if ref.JobID == "" {
		return JobReference{}, configErrorf("job reference has no job ID")
	}
	return ref, nil
}

// StartJob submits a job and returns the first snapshot of it without
// waiting. The reference of the returned job is the one to use for every
// later call on the job.
func (c *Client) StartJob(ctx context.Context, conf JobConfiguration, idc JobIDConfig) (*Job, error) {
	if conf == nil {
		return nil, configErrorf("no job configuration")
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	projectID := idc.ProjectID
	if projectID == "" {
		projectID = c.projectID
	}
	if projectID == "" {
		return nil, configErrorf("cannot start a job without a project ID")
	}
	jobID, err := c.jobID(conf, idc)
	if err != nil {
		return nil, err
	}
	location := idc.Location
	if location == "" {
		location = c.Location
	}
	jc, media := conf.toBQ()
	fillJobDefaults(jc, projectID, c.defaultDataset)
	job := &bq.Job{
		Configuration: jc,
		JobReference: &bq.JobReference{
			ProjectId: projectID,
			JobId:     jobID,
			Location:  location,
		},
	}
	c.logger.DebugContext(ctx, "submitting job", "project", projectID, "job_id", jobID, "location", location)

	// Only a client-chosen ID makes a resubmission safe, and media readers
	// cannot be replayed.
	if jobID == "" || media != nil || c.submitRetries <= 0 {
		return c.svc.insertJob(ctx, projectID, job, media)
	}
	var j *Job
	retried, err := retrySubmit(ctx, c.submitBackoff, c.submitRetries+1, func() error {
		var err error
		j, err = c.svc.insertJob(ctx, projectID, job, nil)
		if err != nil && Classify(err).Transient() {
			c.logger.WarnContext(ctx, "transient error submitting job", "job_id", jobID, "error", err)
		}
		return err
	})
	if err != nil && retried && hasReason(err, ReasonDuplicate) {
		// An earlier attempt created the job before failing.
		return c.svc.getJob(ctx, JobReference{ProjectID: projectID, JobID: jobID, Location: location})
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func hasReason(err error, reason string) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Reason == reason
}

// fillJobDefaults gives table references without a project the job's
// project, and applies the client's default dataset to queries without one.
func fillJobDefaults(jc *bq.JobConfiguration, projectID string, ds *DatasetReference) {
	fill := func(t *bq.TableReference) {
		if t != nil && t.ProjectId == "" {
			t.ProjectId = projectID
		}
	}
	if q := jc.Query; q != nil {
		fill(q.DestinationTable)
		if q.DefaultDataset == nil {
			q.DefaultDataset = ds.toBQ()
		}
		if q.DefaultDataset != nil && q.DefaultDataset.ProjectId == "" {
			q.DefaultDataset.ProjectId = projectID
		}
	}
	if l := jc.Load; l != nil {
		fill(l.DestinationTable)
	}
	if e := jc.Extract; e != nil {
		fill(e.SourceTable)
	}
	if cp := jc.Copy; cp != nil {
		fill(cp.DestinationTable)
		for _, t := range cp.SourceTables {
			fill(t)
		}
	}
}

// JobFromReference fetches the current snapshot of an existing job.
func (c *Client) JobFromReference(ctx context.Context, ref JobReference) (*Job, error) {
	ref, err := c.resolveJobRef(ref)
	if err != nil {
		return nil, err
	}
	return c.svc.getJob(ctx, ref)
}

// PollJob fetches the job once and reports whether it has reached desired.
// A job that is DONE has reached every state, since states never go back.
func (c *Client) PollJob(ctx context.Context, ref JobReference, desired State) (bool, *Job, error) {
	job, err := c.JobFromReference(ctx, ref)
	if err != nil {
		return false, nil, err
	}
	st := job.Status.State
	return st == desired || st == Done, job, nil
}

// WaitJob polls the job until it reaches the desired state, and returns the
// snapshot that did. It polls according to a schedule that slows down from
// once a second to once every thirty seconds.
//
// Transient errors are logged and polling continues. A ServiceFailure error is
// returned when the poll before it also failed with one; other errors are
// returned at once. If maxWait elapses first, WaitJob returns a
// *WaitTimeoutError. The job is not cancelled.
func (c *Client) WaitJob(ctx context.Context, ref JobReference, desired State, maxWait time.Duration) (_ *Job, err error) {
	ref, err = c.resolveJobRef(ref)
	if err != nil {
		return nil, err
	}
	ctx = trace.StartSpan(ctx, "bigquery.WaitJob",
		attribute.String("bigquery.job.id", ref.JobID),
		attribute.String("bigquery.job.desired_state", desired.String()))
	defer func() { trace.EndSpan(ctx, err) }()

	w := c.newWaitState(ref.JobID, maxWait)
	defer w.printer.Done()
	for i := 0; ; i++ {
		done, job, err := c.PollJob(ctx, ref, desired)
		state := w.status
		if job != nil {
			state = job.Status.State.String()
		}
		trace.Event(ctx, "poll", map[string]interface{}{
			"attempt": i,
			"state":   state,
			"done":    done,
			"failed":  err != nil,
		})
		switch {
		case err == nil:
			w.observe(job.Status.State)
			if done {
				w.printer.Print(ref.JobID, w.elapsed(), w.status)
				return job, nil
			}
		case Classify(err).Transient():
			c.logger.WarnContext(ctx, "transient error while waiting for job", "job", ref.String(), "error", err)
		case Classify(err) == ServiceFailure && !w.serviceFailed:
			w.serviceFailed = true
			c.logger.WarnContext(ctx, "error while waiting for job", "job", ref.String(), "error", err)
		default:
			return nil, err
		}
		if w.elapsed() >= maxWait {
			return nil, w.timeout()
		}
		if err := w.pause(ctx, waitScheduleStep(i)); err != nil {
			return nil, err
		}
	}
}

// CancelJob requests cancellation of a job. Synchronous clients then wait for
// the job to finish and return its final snapshot.
func (c *Client) CancelJob(ctx context.Context, ref JobReference) (*Job, error) {
	ref, err := c.resolveJobRef(ref)
	if err != nil {
		return nil, err
	}
	job, err := c.svc.cancelJob(ctx, ref)
	if err != nil {
		return nil, err
	}
	if job.Status.Done() || !c.sync {
		return job, nil
	}
	return c.WaitJob(ctx, job.Reference, Done, WaitForever)
}

// RunJobSynchronously starts a job, waits for it to finish and returns an
// error if it failed.
func (c *Client) RunJobSynchronously(ctx context.Context, conf JobConfiguration, idc JobIDConfig) (*Job, error) {
	job, err := c.StartJob(ctx, conf, idc)
	if err != nil {
		return nil, err
	}
	if !job.Status.Done() {
		if job, err = c.WaitJob(ctx, job.Reference, Done, WaitForever); err != nil {
			return nil, err
		}
	}
	return CheckJobError(job)
}

// ExecuteJob runs a job synchronously on a synchronous client. Otherwise it
// only starts the job, returning an error if the job already failed.
func (c *Client) ExecuteJob(ctx context.Context, conf JobConfiguration, idc JobIDConfig) (*Job, error) {
	if c.sync {
		return c.RunJobSynchronously(ctx, conf, idc)
	}
	job, err := c.StartJob(ctx, conf, idc)
	if err != nil {
		return nil, err
	}
	return CheckJobError(job)
}
