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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bqjobs/bqjobs-go/internal/testutil"
	bq "google.golang.org/api/bigquery/v2"
)

var (
	srcTable = TableReference{ProjectID: "p", DatasetID: "d", TableID: "src"}
	dstTable = TableReference{ProjectID: "p", DatasetID: "d", TableID: "dst"}
)

func TestQueryConfigToBQ(t *testing.T) {
	f, tr := false, true
	for _, test := range []struct {
		desc string
		in   *QueryConfig
		want *bq.JobConfiguration
	}{
		{
			desc: "defaults",
			in:   NewQueryConfig("SELECT 1"),
			want: &bq.JobConfiguration{Query: &bq.JobConfigurationQuery{
				Query:        "SELECT 1",
				UseLegacySql: &f,
			}},
		},
		{
			desc: "everything",
			in: &QueryConfig{
				Q:                    "SELECT x FROM t",
				DefaultProjectID:     "p",
				DefaultDatasetID:     "d",
				Dst:                  &dstTable,
				CreateDisposition:    CreateNever,
				WriteDisposition:     WriteTruncate,
				DisableQueryCache:    true,
				UseLegacySQL:         true,
				Priority:             BatchPriority,
				MaxBytesBilled:       1000,
				DryRun:               true,
				CreateSession:        true,
				ConnectionProperties: []*ConnectionProperty{{Key: "session_id", Value: "s"}},
				Labels:               map[string]string{"a": "b"},
				JobTimeout:           2 * time.Second,
			},
			want: &bq.JobConfiguration{
				Query: &bq.JobConfigurationQuery{
					Query:              "SELECT x FROM t",
					DefaultDataset:     &bq.DatasetReference{ProjectId: "p", DatasetId: "d"},
					DestinationTable:   &bq.TableReference{ProjectId: "p", DatasetId: "d", TableId: "dst"},
					CreateDisposition:  "CREATE_NEVER",
					WriteDisposition:   "WRITE_TRUNCATE",
					UseQueryCache:      &f,
					UseLegacySql:       &tr,
					Priority:           "BATCH",
					MaximumBytesBilled: 1000,
					CreateSession:      true,
					ConnectionProperties: []*bq.ConnectionProperty{
						{Key: "session_id", Value: "s"},
					},
				},
				DryRun:       true,
				Labels:       map[string]string{"a": "b"},
				JobTimeoutMs: 2000,
			},
		},
	} {
		got, media := test.in.toBQ()
		if media != nil {
			t.Errorf("%s: unexpected media", test.desc)
		}
		if diff := testutil.Diff(got, test.want); diff != "" {
			t.Errorf("%s: -got, +want:\n%s", test.desc, diff)
		}
	}
}

func TestLoadConfigToBQ(t *testing.T) {
	gcs := NewGCSReference("gs://b/o*")
	gcs.SourceFormat = CSV
	gcs.SkipLeadingRows = 1
	gcs.Schema = Schema{{Name: "a", Type: StringFieldType}}
	lc := NewLoadConfig(gcs, dstTable)
	lc.WriteDisposition = WriteAppend
	got, media := lc.toBQ()
	if media != nil {
		t.Error("GCS load has media")
	}
	want := &bq.JobConfiguration{Load: &bq.JobConfigurationLoad{
		SourceUris:       []string{"gs://b/o*"},
		SourceFormat:     "CSV",
		SkipLeadingRows:  1,
		Schema:           &bq.TableSchema{Fields: []*bq.TableFieldSchema{{Name: "a", Type: "STRING"}}},
		WriteDisposition: "WRITE_APPEND",
		DestinationTable: &bq.TableReference{ProjectId: "p", DatasetId: "d", TableId: "dst"},
	}}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Errorf("-got, +want:\n%s", diff)
	}

	r := strings.NewReader("a,b\n")
	_, media = NewLoadConfig(NewReaderSource(r), dstTable).toBQ()
	if media != r {
		t.Error("reader source media was not returned")
	}
}

func TestExtractAndCopyConfigToBQ(t *testing.T) {
	gcs := NewGCSReference("gs://b/out-*.csv.gz")
	gcs.Compression = Gzip
	gcs.DestinationFormat = CSV
	ec := NewExtractConfig(srcTable, gcs)
	ec.DisableHeader = true
	got, _ := ec.toBQ()
	f := false
	want := &bq.JobConfiguration{Extract: &bq.JobConfigurationExtract{
		SourceTable:       &bq.TableReference{ProjectId: "p", DatasetId: "d", TableId: "src"},
		DestinationUris:   []string{"gs://b/out-*.csv.gz"},
		DestinationFormat: "CSV",
		Compression:       "GZIP",
		PrintHeader:       &f,
	}}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Errorf("extract: -got, +want:\n%s", diff)
	}

	cc := NewCopyConfig(dstTable, srcTable, srcTable)
	cc.CreateDisposition = CreateIfNeeded
	got, _ = cc.toBQ()
	want = &bq.JobConfiguration{Copy: &bq.JobConfigurationTableCopy{
		CreateDisposition: "CREATE_IF_NEEDED",
		DestinationTable:  &bq.TableReference{ProjectId: "p", DatasetId: "d", TableId: "dst"},
		SourceTables: []*bq.TableReference{
			{ProjectId: "p", DatasetId: "d", TableId: "src"},
			{ProjectId: "p", DatasetId: "d", TableId: "src"},
		},
	}}
	if diff := testutil.Diff(got, want); diff != "" {
		t.Errorf("copy: -got, +want:\n%s", diff)
	}
}

func TestConfigValidate(t *testing.T) {
	noTable := TableReference{ProjectID: "p", DatasetID: "d"}
	for _, test := range []struct {
		desc string
		conf JobConfiguration
		ok   bool
	}{
		{"query", NewQueryConfig("SELECT 1"), true},
		{"empty query", NewQueryConfig(""), false},
		{"default project without dataset", &QueryConfig{Q: "q", DefaultProjectID: "p"}, false},
		{"bad query destination", &QueryConfig{Q: "q", Dst: &noTable}, false},
		{"load", NewLoadConfig(NewGCSReference("gs://b/o"), dstTable), true},
		{"load without source", &LoadConfig{Dst: dstTable}, false},
		{"load without URIs", NewLoadConfig(NewGCSReference(), dstTable), false},
		{"load with nil reader", NewLoadConfig(NewReaderSource(nil), dstTable), false},
		{"load bad destination", NewLoadConfig(NewGCSReference("gs://b/o"), noTable), false},
		{"extract", NewExtractConfig(srcTable, NewGCSReference("gs://b/o")), true},
		{"extract without destination", NewExtractConfig(srcTable, nil), false},
		{"copy", NewCopyConfig(dstTable, srcTable), true},
		{"copy without sources", NewCopyConfig(dstTable), false},
		{"copy bad source", NewCopyConfig(dstTable, noTable), false},
	} {
		err := test.conf.validate()
		if test.ok {
			if err != nil {
				t.Errorf("%s: %v", test.desc, err)
			}
			continue
		}
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("%s: got %v, want *ConfigurationError", test.desc, err)
		}
	}
}
