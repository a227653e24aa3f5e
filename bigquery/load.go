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

// LoadConfig holds the configuration for a load job.
type LoadConfig struct {
	// Src is the source from which data will be loaded.
	Src LoadSource

	// Dst is the table into which the data will be loaded.
	Dst TableReference

	// CreateDisposition specifies the circumstances under which the destination table will be created.
	// The default is CreateIfNeeded.
	CreateDisposition TableCreateDisposition

	// WriteDisposition specifies how existing data in the destination table is treated.
	// The default is WriteAppend.
	WriteDisposition TableWriteDisposition

	// The labels associated with this job.
	Labels map[string]string
}

// NewLoadConfig returns a configuration that loads src into dst.
func NewLoadConfig(src LoadSource, dst TableReference) *LoadConfig {
	return &LoadConfig{Src: src, Dst: dst}
}

func (l *LoadConfig) validate() error {
	if l.Src == nil {
		return configErrorf("load job has no source")
	}
	if err := l.Src.validate(); err != nil {
		return err
	}
	return l.Dst.validate()
}

func (l *LoadConfig) toBQ() (*bq.JobConfiguration, io.Reader) {
	lconf := &bq.JobConfigurationLoad{
		CreateDisposition: string(l.CreateDisposition),
		WriteDisposition:  string(l.WriteDisposition),
		DestinationTable:  l.Dst.toBQ(),
	}
	media := l.Src.populateLoadConfig(lconf)
	return &bq.JobConfiguration{
		Load:   lconf,
		Labels: l.Labels,
	}, media
}
