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
	"math"
	"time"
)

// WaitForever is a maximum wait that never runs out.
const WaitForever = time.Duration(math.MaxInt64)

// waitScheduleStep returns the pause after the i'th poll of a job: one
// second for the first eight polls, then 2s, 5s, ... 29s, then 30s.
func waitScheduleStep(i int) time.Duration {
	switch {
	case i < 8:
		return time.Second
	case i < 18:
		return time.Duration(2+3*(i-8)) * time.Second
	}
	return 30 * time.Second
}

// waitState is the bookkeeping of a single wait. It is never shared.
type waitState struct {
	jobID   string
	start   time.Time
	maxWait time.Duration
	// status is what the printer shows; it stays UNKNOWN until a poll
	// succeeds.
	status    string
	lastState State
	// serviceFailed is set when the previous poll failed with a
	// ServiceFailure error.
	serviceFailed bool

	printer WaitPrinter
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

func (c *Client) newWaitState(jobID string, maxWait time.Duration) *waitState {
	return &waitState{
		jobID:   jobID,
		start:   c.now(),
		maxWait: maxWait,
		status:  "UNKNOWN",
		printer: c.newWaitPrinter(),
		now:     c.now,
		sleep:   c.sleep,
	}
}

func (w *waitState) elapsed() time.Duration {
	return w.now().Sub(w.start)
}

func (w *waitState) observe(s State) {
	w.lastState = s
	w.status = s.String()
	w.serviceFailed = false
}

func (w *waitState) timeout() error {
	return &WaitTimeoutError{JobID: w.jobID, LastState: w.lastState, Waited: w.elapsed()}
}

// pause sleeps for d, but never past the end of the wait, reporting progress
// to the printer once a second.
func (w *waitState) pause(ctx context.Context, d time.Duration) error {
	if rem := w.maxWait - w.elapsed(); d > rem {
		d = rem
	}
	for d > 0 {
		w.printer.Print(w.jobID, w.elapsed(), w.status)
		step := min(d, time.Second)
		if err := w.sleep(ctx, step); err != nil {
			return err
		}
		d -= step
	}
	return nil
}
