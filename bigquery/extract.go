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
	"io"

	bq "google.golang.org/api/bigquery/v2"
)

// ExtractConfig holds the configuration for an extract job.
type ExtractConfig struct {
	// Src is the table from which data will be extracted.
	Src TableReference

	// Dst is the destination into which the data will be extracted.
	Dst *GCSReference

	// DisableHeader disables the printing of a header row in exported data.
	DisableHeader bool

	// The labels associated with this job.
	Labels map[string]string
}

// NewExtractConfig returns a configuration that exports src to dst.
func NewExtractConfig(src TableReference, dst *GCSReference) *ExtractConfig {
	return &ExtractConfig{Src: src, Dst: dst}
}

func (e *ExtractConfig) validate() error {
	if err := e.Src.validate(); err != nil {
		return err
	}
	if e.Dst == nil {
		return configErrorf("extract job has no destination")
	}
	return e.Dst.validate()
}

func (e *ExtractConfig) toBQ() (*bq.JobConfiguration, io.Reader) {
	var printHeader *bool
	if e.DisableHeader {
		f := false
		printHeader = &f
	}
	return &bq.JobConfiguration{
		Extract: &bq.JobConfigurationExtract{
			SourceTable:       e.Src.toBQ(),
			DestinationUris:   e.Dst.URIs,
			DestinationFormat: string(e.Dst.DestinationFormat),
			Compression:       string(e.Dst.Compression),
			FieldDelimiter:    e.Dst.FieldDelimiter,
			PrintHeader:       printHeader,
		},
		Labels: e.Labels,
	}, nil
}
