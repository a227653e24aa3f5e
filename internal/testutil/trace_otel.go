// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testutil

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// SpanRecorder installs an always-sampling tracer provider backed by an
// in-memory exporter. Create it with NewSpanRecorder and call Close when done.
type SpanRecorder struct {
	exporter *tracetest.InMemoryExporter
	tp       *sdktrace.TracerProvider
	prev     trace.TracerProvider
}

// NewSpanRecorder replaces the global tracer provider until Close is called.
func NewSpanRecorder() *SpanRecorder {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	r := &SpanRecorder{exporter: exporter, tp: tp, prev: otel.GetTracerProvider()}
	otel.SetTracerProvider(tp)
	return r
}

// Spans returns the ended spans recorded so far.
func (r *SpanRecorder) Spans() tracetest.SpanStubs {
	return r.exporter.GetSpans()
}

// SpanNames returns the names of the recorded spans in end order.
func (r *SpanRecorder) SpanNames() []string {
	var names []string
	for _, s := range r.exporter.GetSpans() {
		names = append(names, s.Name)
	}
	return names
}

// Close shuts the provider down and restores the previous global provider.
func (r *SpanRecorder) Close(ctx context.Context) {
	r.tp.Shutdown(ctx)
	otel.SetTracerProvider(r.prev)
}
