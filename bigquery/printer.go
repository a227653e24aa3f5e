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
	"io"
	"time"
)

// A WaitPrinter reports progress while a job is being waited on. Print is
// called about once a second and once more when the wait succeeds. Done is
// called when the wait ends, however it ends.
type WaitPrinter interface {
	Print(jobID string, waited time.Duration, state string)
	Done()
}

// QuietWaitPrinter prints nothing.
type QuietWaitPrinter struct{}

// Print does nothing.
func (QuietWaitPrinter) Print(string, time.Duration, string) {}

// Done does nothing.
func (QuietWaitPrinter) Done() {}

// VerboseWaitPrinter rewrites a single status line on every call.
type VerboseWaitPrinter struct {
	w       io.Writer
	printed bool
}

// NewVerboseWaitPrinter returns a printer writing to w.
func NewVerboseWaitPrinter(w io.Writer) *VerboseWaitPrinter {
	return &VerboseWaitPrinter{w: w}
}

// Print overwrites the status line.
func (p *VerboseWaitPrinter) Print(jobID string, waited time.Duration, state string) {
	p.printed = true
	fmt.Fprintf(p.w, "\rWaiting on %s ... (%ds) Current status: %-7s", jobID, int64(waited/time.Second), state)
}

// Done ends the status line, if one was printed.
func (p *VerboseWaitPrinter) Done() {
	if p.printed {
		fmt.Fprintln(p.w)
		p.printed = false
	}
}

// TransitionWaitPrinter prints a status line only when the state changes.
type TransitionWaitPrinter struct {
	VerboseWaitPrinter
	last string
}

// NewTransitionWaitPrinter returns a printer writing to w.
func NewTransitionWaitPrinter(w io.Writer) *TransitionWaitPrinter {
	return &TransitionWaitPrinter{VerboseWaitPrinter: VerboseWaitPrinter{w: w}}
}

// Print writes the line if state differs from the previous call.
func (p *TransitionWaitPrinter) Print(jobID string, waited time.Duration, state string) {
	if state == p.last {
		return
	}
	p.last = state
	p.VerboseWaitPrinter.Print(jobID, waited, state)
}
