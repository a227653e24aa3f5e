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

// Package internal holds helpers shared by the packages of this module.
package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gax "github.com/googleapis/gax-go/v2"
)

// RetryN calls f until f reports stop, the context is done, or maxAttempts
// failed calls have been made. A maxAttempts of zero or less means no limit.
//
// When f stops, RetryN returns f's error unchanged. When the attempts run out
// the result is a *RetryExhaustedError. When the context ends first, the
// returned error matches both the context error and the last error from f.
func RetryN(ctx context.Context, bo gax.Backoff, maxAttempts int, f func() (stop bool, err error)) error {
	return retryN(ctx, bo, maxAttempts, f, gax.Sleep)
}

func retryN(ctx context.Context, bo gax.Backoff, maxAttempts int, f func() (stop bool, err error),
	sleep func(context.Context, time.Duration) error) error {
	var failures []error
	for {
		stop, err := f()
		if stop {
			return err
		}
		if err != nil && !isContextErr(err) {
			failures = append(failures, err)
		}
		if maxAttempts > 0 && len(failures) >= maxAttempts {
			return &RetryExhaustedError{MaxRetries: maxAttempts, Errors: failures}
		}
		if ctxErr := sleep(ctx, bo.Pause()); ctxErr != nil {
			if len(failures) == 0 {
				return ctxErr
			}
			return &interruptedErr{ctxErr: ctxErr, last: failures[len(failures)-1]}
		}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// RetryExhaustedError reports that every allowed attempt failed. Errors holds
// the failures in the order they happened.
type RetryExhaustedError struct {
	MaxRetries int
	Errors     []error
}

func (e *RetryExhaustedError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("retry exhausted after %d attempts with no errors recorded", e.MaxRetries)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "retry exhausted after %d attempts; errors:\n", e.MaxRetries)
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  [%d]: %v\n", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the most recent failure.
func (e *RetryExhaustedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// interruptedErr is returned when the context ends between attempts.
type interruptedErr struct {
	ctxErr error
	last   error
}

func (e *interruptedErr) Error() string {
	return fmt.Sprintf("retry failed with %v; last error: %v", e.ctxErr, e.last)
}

func (e *interruptedErr) Unwrap() []error {
	return []error{e.ctxErr, e.last}
}
