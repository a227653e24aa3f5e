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

// CopyConfig holds the configuration for a copy job.
type CopyConfig struct {
	// Srcs are the tables from which data will be copied.
	Srcs []TableReference

	// Dst is the table into which the data will be copied.
	Dst TableReference

	// CreateDisposition specifies the circumstances under which the destination table will be created.
	// The default is CreateIfNeeded.
	CreateDisposition TableCreateDisposition

	// WriteDisposition specifies how existing data in the destination table is treated.
	// The default is WriteEmpty.
	WriteDisposition TableWriteDisposition

	// The labels associated with this job.
	Labels map[string]string
}

// NewCopyConfig returns a configuration that copies srcs into dst.
func NewCopyConfig(dst TableReference, srcs ...TableReference) *CopyConfig {
	return &CopyConfig{Srcs: srcs, Dst: dst}
}

func (c *CopyConfig) validate() error {
	if len(c.Srcs) == 0 {
		return configErrorf("copy job has no source tables")
	}
	for _, s := range c.Srcs {
		if err := s.validate(); err != nil {
			return err
		}
	}
	return c.Dst.validate()
}

func (c *CopyConfig) toBQ() (*bq.JobConfiguration, io.Reader) {
	var ts []*bq.TableReference
	for _, t := range c.Srcs {
		ts = append(ts, t.toBQ())
	}
	return &bq.JobConfiguration{
		Copy: &bq.JobConfigurationTableCopy{
			CreateDisposition: string(c.CreateDisposition),
			WriteDisposition:  string(c.WriteDisposition),
			DestinationTable:  c.Dst.toBQ(),
			SourceTables:      ts,
		},
		Labels: c.Labels,
	}, nil
}
