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

// A LoadSource is where a load job reads its data from. This package
// defines GCSReference, for Cloud Storage objects, and ReaderSource, for
// data uploaded from an io.Reader.
type LoadSource interface {
	// populateLoadConfig fills in the source part of conf and returns the
	// media to upload, if any.
	populateLoadConfig(conf *bq.JobConfigurationLoad) io.Reader
	validate() error
}

// DataFormat describes the format of BigQuery table data.
type DataFormat string

// Constants describing the format of BigQuery table data.
const (
	CSV     DataFormat = "CSV"
	Avro    DataFormat = "AVRO"
	JSON    DataFormat = "NEWLINE_DELIMITED_JSON"
	Parquet DataFormat = "PARQUET"
	ORC     DataFormat = "ORC"
)

// Encoding specifies the character encoding of data to be loaded into BigQuery.
type Encoding string

const (
	// UTF_8 specifies the UTF-8 encoding type.
	UTF_8 Encoding = "UTF-8"
	// ISO_8859_1 specifies the ISO-8859-1 encoding type.
	ISO_8859_1 Encoding = "ISO-8859-1"
)

// FileConfig contains configuration options that pertain to files, typically
// text files that require interpretation to be used as a BigQuery table.
type FileConfig struct {
	// SourceFormat is the format of the data to be read.
	// The default is CSV.
	SourceFormat DataFormat

	// Indicates if we should automatically infer the options and
	// schema for CSV and JSON sources.
	AutoDetect bool

	// MaxBadRecords is the maximum number of bad records that will be ignored
	// when reading data.
	MaxBadRecords int64

	// IgnoreUnknownValues causes values not matching the schema to be
	// tolerated.
	IgnoreUnknownValues bool

	// Schema describes the data. It is required when reading CSV or JSON data,
	// unless the data is being loaded into a table that already exists.
	Schema Schema

	// FieldDelimiter is the separator for fields in a CSV file. The default is ",".
	FieldDelimiter string

	// The number of rows at the top of a CSV file that BigQuery will skip when reading data.
	SkipLeadingRows int64

	// Encoding is the character encoding of data to be read.
	Encoding Encoding

	// AllowQuotedNewlines sets whether quoted data sections containing
	// newlines are allowed when reading CSV data.
	AllowQuotedNewlines bool
}

func (fc *FileConfig) populateLoadConfig(conf *bq.JobConfigurationLoad) {
	conf.SourceFormat = string(fc.SourceFormat)
	conf.Autodetect = fc.AutoDetect
	conf.MaxBadRecords = fc.MaxBadRecords
	conf.IgnoreUnknownValues = fc.IgnoreUnknownValues
	conf.FieldDelimiter = fc.FieldDelimiter
	conf.SkipLeadingRows = fc.SkipLeadingRows
	conf.Encoding = string(fc.Encoding)
	conf.AllowQuotedNewlines = fc.AllowQuotedNewlines
	if fc.Schema != nil {
		conf.Schema = fc.Schema.toBQ()
	}
}

// A ReaderSource is a source for a load operation that gets
// data from an io.Reader. The data is sent as the job's media upload.
type ReaderSource struct {
	r io.Reader
	FileConfig
}

// NewReaderSource creates a ReaderSource from an io.Reader. You may
// optionally configure properties on the ReaderSource that describe the
// data being read, before passing it to NewLoadConfig.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (r *ReaderSource) populateLoadConfig(conf *bq.JobConfigurationLoad) io.Reader {
	r.FileConfig.populateLoadConfig(conf)
	return r.r
}

func (r *ReaderSource) validate() error {
	if r.r == nil {
		return configErrorf("reader source has no reader")
	}
	return nil
}

// GCSReference is a reference to one or more Google Cloud Storage objects,
// which together constitute an input to a load job or the output of an
// extract job.
type GCSReference struct {
	// URIs are gs://bucket/object paths. Each may contain one '*' wildcard
	// after the bucket name.
	URIs []string

	FileConfig

	// DestinationFormat is the format to use when writing exported files.
	// Allowed values are: CSV, Avro, JSON.  The default is CSV.
	DestinationFormat DataFormat

	// Compression specifies the type of compression to apply when writing data to Google Cloud Storage.
	// Default is None.
	Compression Compression
}

// NewGCSReference constructs a reference to one or more Google Cloud Storage objects.
func NewGCSReference(uri ...string) *GCSReference {
	return &GCSReference{URIs: uri}
}

// Compression is the type of compression to apply when writing data to Google Cloud Storage.
type Compression string

const (
	// None specifies no compression.
	None Compression = "NONE"
	// Gzip specifies gzip compression.
	Gzip Compression = "GZIP"
)

func (g *GCSReference) populateLoadConfig(conf *bq.JobConfigurationLoad) io.Reader {
	conf.SourceUris = g.URIs
	g.FileConfig.populateLoadConfig(conf)
	return nil
}

func (g *GCSReference) validate() error {
	if len(g.URIs) == 0 {
		return configErrorf("GCS reference has no URIs")
	}
	return nil
}
