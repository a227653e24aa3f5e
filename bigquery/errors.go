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
	"fmt"
	"strings"
	"time"

	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
)

// An Error contains detailed information about a failed bigquery operation.
// Detailed description of possible Reasons can be found here:
// https://cloud.google.com/bigquery/troubleshooting-errors.
type Error struct {
	// Mirrors bq.ErrorProto, but drops DebugInfo
	Location, Message, Reason string
}

func (e Error) Error() string {
	return fmt.Sprintf("{Location: %q; Message: %q; Reason: %q}", e.Location, e.Message, e.Reason)
}

func bqToError(ep *bq.ErrorProto) *Error {
	if ep == nil {
		return nil
	}
	return &Error{
		Location: ep.Location,
		Message:  ep.Message,
		Reason:   ep.Reason,
	}
}

// Error reasons the service reports that callers commonly branch on.
const (
	ReasonNotFound       = "notFound"
	ReasonDuplicate      = "duplicate"
	ReasonAccessDenied   = "accessDenied"
	ReasonInvalidQuery   = "invalidQuery"
	ReasonTermsOfService = "termsOfServiceNotAccepted"
	ReasonBackendError   = "backendError"
)

// ConfigurationError reports invalid caller input, detected before any
// request is sent.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "bigquery: " + e.Msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ServiceError is a structured failure reported by the service, either as a
// response to a request or as the final error result of a job.
type ServiceError struct {
	// Message is the display message. For job failures it names the job and
	// lists the additional errors the job reported.
	Message string
	// Reason is the machine readable reason of the primary error, such as
	// ReasonNotFound.
	Reason string
	// Location of the primary error. Only job failures carry one.
	Location string
	// Errors holds every error reported alongside the primary one.
	Errors []*Error
	// JobRef is set when the error belongs to a job.
	JobRef *JobReference
	// SessionID is set when the failed job ran in a session.
	SessionID string
	// Code is the HTTP status of the failed request, or zero for job
	// failures.
	Code int

	err error
}

func (e *ServiceError) Error() string { return e.Message }

// Unwrap returns the transport error this ServiceError was built from, if
// any.
func (e *ServiceError) Unwrap() error { return e.err }

// WaitTimeoutError is returned when a job did not reach the desired state
// within the allowed wait.
type WaitTimeoutError struct {
	JobID     string
	LastState State
	Waited    time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("bigquery: wait timed out after %v. Operation not finished, in state %s",
		e.Waited.Round(time.Second), e.LastState)
}

// JobNotDoneError is returned when results are requested from a job that has
// not completed.
type JobNotDoneError struct {
	Job JobReference
}

func (e *JobNotDoneError) Error() string {
	return fmt.Sprintf("bigquery: job %s is not done", e.Job)
}

// MalformedResponseError reports a response that breaks the service's own
// contract, such as a field without a type.
type MalformedResponseError struct {
	Msg string
}

func (e *MalformedResponseError) Error() string { return "bigquery: malformed response: " + e.Msg }

// CheckJobError returns job unchanged when it finished without an error
// result. A job that is DONE with an error result is converted to a
// *ServiceError naming the job, and a nil job is a *MalformedResponseError.
func CheckJobError(job *Job) (*Job, error) {
	if job == nil || job.Status == nil {
		return nil, &MalformedResponseError{Msg: "job has no status"}
	}
	if job.Status.State != Done || job.Status.ErrorResult == nil {
		return job, nil
	}
	ref := job.Reference
	return job, newJobError(job.Status.ErrorResult, job.Status.Errors, &ref, job.SessionID)
}

// newJobError builds the error for a failed job. Errors that repeat the
// primary one are left out of the failure details.
func newJobError(primary *Error, all []*Error, ref *JobReference, sessionID string) error {
	if primary.Reason == "" || primary.Message == "" {
		return &MalformedResponseError{
			Msg: fmt.Sprintf("error reported by server with missing error fields: %v", primary),
		}
	}
	var sb strings.Builder
	if ref != nil {
		fmt.Fprintf(&sb, "Error processing job '%s': %s", ref, primary.Message)
	} else {
		sb.WriteString(primary.Message)
	}
	var details []string
	for _, e := range all {
		if e == nil || *e == *primary {
			continue
		}
		var parts []string
		for _, p := range []string{e.Location, e.Message} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		details = append(details, " - "+strings.Join(parts, ": "))
	}
	if len(details) > 0 {
		sb.WriteString("\nFailure details:\n")
		sb.WriteString(strings.Join(details, "\n"))
	}
	if sessionID != "" {
		fmt.Fprintf(&sb, "\nIn session: %s", sessionID)
	}
	return &ServiceError{
		Message:   sb.String(),
		Reason:    primary.Reason,
		Location:  primary.Location,
		Errors:    all,
		JobRef:    ref,
		SessionID: sessionID,
	}
}

// fromAPIError converts a structured HTTP error into a *ServiceError that
// still unwraps to the original. Other errors are returned unchanged.
func fromAPIError(err error) error {
	var ae *googleapi.Error
	if err == nil || !errors.As(err, &ae) {
		return err
	}
	se := &ServiceError{
		Message: ae.Message,
		Code:    ae.Code,
		err:     err,
	}
	for _, item := range ae.Errors {
		se.Errors = append(se.Errors, &Error{Message: item.Message, Reason: item.Reason})
	}
	if len(ae.Errors) > 0 {
		se.Reason = ae.Errors[0].Reason
		if se.Message == "" {
			se.Message = ae.Errors[0].Message
		}
	}
	if se.Message == "" {
		se.Message = err.Error()
	}
	return se
}
