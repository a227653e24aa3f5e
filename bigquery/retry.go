// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
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
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bqjobs/bqjobs-go/internal"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorClass is the retry category of an error.
type ErrorClass int

const (
	// Fatal errors did not come from the service: cancelled contexts,
	// configuration mistakes, malformed responses. They are never retried.
	Fatal ErrorClass = iota
	// TransientCommunication errors are transport failures such as refused
	// or reset connections and truncated responses.
	TransientCommunication
	// TransientBackend errors are temporary failures reported by the
	// service: 5xx statuses and backendError or rateLimitExceeded reasons.
	TransientBackend
	// ServiceFailure errors are any other structured error from the service.
	ServiceFailure
)

func (c ErrorClass) String() string {
	switch c {
	case TransientCommunication:
		return "TransientCommunication"
	case TransientBackend:
		return "TransientBackend"
	case ServiceFailure:
		return "ServiceFailure"
	}
	return "Fatal"
}

// Transient reports whether errors of this class are worth retrying.
func (c ErrorClass) Transient() bool {
	return c == TransientCommunication || c == TransientBackend
}

var (
	transientReasons = []string{"backendError", "internalError", "rateLimitExceeded", "jobRateLimitExceeded"}
	retry5xxCodes    = []int{
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
)

// Classify sorts err into a retry category. It only inspects err.
func Classify(err error) ErrorClass {
	if err == nil {
		return Fatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Fatal
	}
	var (
		cfgErr       *ConfigurationError
		malformedErr *MalformedResponseError
		notDoneErr   *JobNotDoneError
		timeoutErr   *WaitTimeoutError
	)
	if errors.As(err, &cfgErr) || errors.As(err, &malformedErr) ||
		errors.As(err, &notDoneErr) || errors.As(err, &timeoutErr) {
		return Fatal
	}
	if c, ok := classifyStructured(err); ok {
		return c
	}
	if communicationError(err) {
		return TransientCommunication
	}
	return Fatal
}

// classifyStructured handles errors that carry a status from the service.
func classifyStructured(err error) (ErrorClass, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return classifyStatus(se.Code, se.Reason), true
	}
	var ae *googleapi.Error
	if errors.As(err, &ae) {
		var reason string
		if len(ae.Errors) > 0 {
			reason = ae.Errors[0].Reason
		}
		return classifyStatus(ae.Code, reason), true
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPCode() > 0 {
			return classifyStatus(apiErr.HTTPCode(), apiErr.Reason()), true
		}
		return classifyCode(apiErr.GRPCStatus().Code()), true
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return classifyCode(s.Code()), true
	}
	return 0, false
}

func classifyStatus(code int, reason string) ErrorClass {
	for _, r := range transientReasons {
		if reason == r {
			return TransientBackend
		}
	}
	for _, c := range retry5xxCodes {
		if code == c {
			return TransientBackend
		}
	}
	return ServiceFailure
}

func classifyCode(c codes.Code) ErrorClass {
	switch c {
	case codes.Unavailable:
		return TransientCommunication
	case codes.Internal, codes.ResourceExhausted:
		return TransientBackend
	}
	return ServiceFailure
}

func communicationError(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if err == io.ErrUnexpectedEOF {
			return true
		}
		// Streams can be refused on a fresh HTTP/2 connection before the
		// server's SETTINGS frame arrives.
		if err.Error() == "http2: stream closed" {
			return true
		}
		switch e := err.(type) {
		case *url.Error, net.Error:
			return true
		case interface{ Temporary() bool }:
			if e.Temporary() {
				return true
			}
		}
	}
	return false
}

// This function matches the suggestions in https://cloud.google.com/bigquery/sla.
func defaultRetryBackoff() gax.Backoff {
	return gax.Backoff{
		Initial:    1 * time.Second,
		Max:        32 * time.Second,
		Multiplier: 2,
	}
}

// retrySubmit calls call until it succeeds, fails with a non-transient
// error, or maxAttempts transient failures have happened. It reports whether
// call was attempted more than once.
func retrySubmit(ctx context.Context, bo gax.Backoff, maxAttempts int, call func() error) (retried bool, err error) {
	attempts := 0
	err = internal.RetryN(ctx, bo, maxAttempts, func() (bool, error) {
		attempts++
		err := call()
		if err == nil {
			return true, nil
		}
		return !Classify(err).Transient(), err
	})
	return attempts > 1, err
}
