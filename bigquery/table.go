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

	bq "google.golang.org/api/bigquery/v2"
)

// TableReference identifies a table. An empty ProjectID means the client's
// project.
type TableReference struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// FullyQualifiedName returns the ID of the table in projectID:datasetID.tableID format.
func (t TableReference) FullyQualifiedName() string {
	return fmt.Sprintf("%s:%s.%s", t.ProjectID, t.DatasetID, t.TableID)
}

func (t TableReference) String() string { return t.FullyQualifiedName() }

func (t TableReference) validate() error {
	if t.DatasetID == "" || t.TableID == "" {
		return configErrorf("table reference %q needs a dataset and a table ID", t.FullyQualifiedName())
	}
	return nil
}

// withProject fills in projectID when the reference has none.
func (t TableReference) withProject(projectID string) TableReference {
	if t.ProjectID == "" {
		t.ProjectID = projectID
	}
	return t
}

func (t TableReference) toBQ() *bq.TableReference {
	return &bq.TableReference{
		ProjectId: t.ProjectID,
		DatasetId: t.DatasetID,
		TableId:   t.TableID,
	}
}

func bqToTableReference(tr *bq.TableReference) TableReference {
	if tr == nil {
		return TableReference{}
	}
	return TableReference{ProjectID: tr.ProjectId, DatasetID: tr.DatasetId, TableID: tr.TableId}
}

// DatasetReference identifies a dataset.
type DatasetReference struct {
	ProjectID string
	DatasetID string
}

func (d *DatasetReference) toBQ() *bq.DatasetReference {
	if d == nil || d.DatasetID == "" {
		return nil
	}
	return &bq.DatasetReference{ProjectId: d.ProjectID, DatasetId: d.DatasetID}
}

// TableCreateDisposition specifies the circumstances under which destination table will be created.
// Default is CreateIfNeeded.
type TableCreateDisposition string

const (
	// CreateIfNeeded will create the table if it does not already exist.
	// Tables are created atomically on successful completion of a job.
	CreateIfNeeded TableCreateDisposition = "CREATE_IF_NEEDED"

	// CreateNever ensures the table must already exist and will not be
	// automatically created.
	CreateNever TableCreateDisposition = "CREATE_NEVER"
)

// TableWriteDisposition specifies how existing data in a destination table is treated.
// Default is WriteAppend.
type TableWriteDisposition string

const (
	// WriteAppend will append to any existing data in the destination table.
	// Data is appended atomically on successful completion of a job.
	WriteAppend TableWriteDisposition = "WRITE_APPEND"

	// WriteTruncate overrides the existing data in the destination table.
	// Data is overwritten atomically on successful completion of a job.
	WriteTruncate TableWriteDisposition = "WRITE_TRUNCATE"

	// WriteEmpty fails writes if the destination table already contains data.
	WriteEmpty TableWriteDisposition = "WRITE_EMPTY"
)
