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

package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestRetryUntilStop(t *testing.T) {
	n := 0
	endRetry := errors.New("end retry")
	err := retryN(context.Background(), gax.Backoff{}, 0,
		func() (bool, error) {
			n++
			if n < 10 {
				return false, nil
			}
			return true, endRetry
		}, noSleep)
	if err != endRetry {
		t.Errorf("got %v, want %v", err, endRetry)
	}
	if n != 10 {
		t.Errorf("n: got %d, want 10", n)
	}
}

func TestRetryContextEnds(t *testing.T) {
	n := 0
	err := retryN(context.Background(), gax.Backoff{}, 0,
		func() (bool, error) { return false, nil },
		func(context.Context, time.Duration) error {
			n++
			if n < 10 {
				return nil
			}
			return context.DeadlineExceeded
		})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestRetryKeepsLastError(t *testing.T) {
	err := retryN(context.Background(), gax.Backoff{}, 0,
		func() (bool, error) {
			return false, status.Error(codes.Unavailable, "try later")
		},
		func(context.Context, time.Duration) error { return context.DeadlineExceeded })
	want := "retry failed with context deadline exceeded; last error: rpc error: code = Unavailable desc = try later"
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("error does not match context.DeadlineExceeded")
	}
	if got := status.Code(err); got != codes.Unavailable {
		t.Errorf("status code: got %v, want %v", got, codes.Unavailable)
	}
}

func TestRetryNExhausted(t *testing.T) {
	testErrors := []error{errors.New("error 1"), errors.New("error 2"), errors.New("error 3")}
	n := 0
	err := retryN(context.Background(), gax.Backoff{}, len(testErrors),
		func() (bool, error) {
			e := testErrors[n]
			n++
			return false, e
		}, noSleep)
	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("got %T (%v), want *RetryExhaustedError", err, err)
	}
	if exhausted.MaxRetries != 3 || len(exhausted.Errors) != 3 {
		t.Errorf("got %d retries with %d errors, want 3 and 3", exhausted.MaxRetries, len(exhausted.Errors))
	}
	if !errors.Is(err, testErrors[2]) {
		t.Error("exhausted error does not unwrap to the last failure")
	}
	if n != 3 {
		t.Errorf("n: got %d, want 3", n)
	}
}

func TestRetryNSucceedsBeforeLimit(t *testing.T) {
	n := 0
	err := retryN(context.Background(), gax.Backoff{}, 5,
		func() (bool, error) {
			n++
			if n < 3 {
				return false, errors.New("temporary error")
			}
			return true, nil
		}, noSleep)
	if err != nil {
		t.Errorf("got %v, want nil", err)
	}
	if n != 3 {
		t.Errorf("n: got %d, want 3", n)
	}
}

func TestRetryNIgnoresContextFailures(t *testing.T) {
	n := 0
	err := retryN(context.Background(), gax.Backoff{}, 2,
		func() (bool, error) {
			n++
			switch n {
			case 1, 2:
				return false, context.Canceled
			case 3:
				return false, errors.New("real")
			}
			return true, nil
		}, noSleep)
	if err != nil {
		t.Errorf("got %v, want nil", err)
	}
	if n != 4 {
		t.Errorf("n: got %d, want 4", n)
	}
}
