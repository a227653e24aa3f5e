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

/*
Package bigquery submits BigQuery jobs, waits for them and reads their
results.

The following assumes a basic familiarity with BigQuery concepts.
See https://cloud.google.com/bigquery/docs.

# Creating a Client

To start working with this package, create a client:

	ctx := context.Background()
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		// TODO: Handle error.
	}

# Running jobs

A job is described by one of QueryConfig, LoadConfig, ExtractConfig or
CopyConfig. ExecuteJob starts it and, on a synchronous client (the default),
waits for it and reports a failed job as an error:

	q := bigquery.NewQueryConfig("SELECT 17")
	job, err := client.ExecuteJob(ctx, q, bigquery.JobIDConfig{})
	if err != nil {
		// TODO: Handle error.
	}

Each submitted job gets an ID from a JobIDGenerator. The default appends a
counter to a random ID. FingerprintJobIDGenerator derives the ID from the
configuration, so resubmitting the same job is rejected as a duplicate:

	job, err := client.StartJob(ctx, q, bigquery.JobIDConfig{
		Generator: bigquery.FingerprintJobIDGenerator{},
	})

StartJob returns without waiting. WaitJob polls a job until it reaches a
state, slowing down from once a second to once every thirty seconds. Transient
errors are logged and polling goes on:

	job, err = client.WaitJob(ctx, job.Reference, bigquery.Done, 10*time.Minute)
	var timeout *bigquery.WaitTimeoutError
	if errors.As(err, &timeout) {
		// The job is still running.
	}

# Reading rows

TableReader reads rows from a table, and JobReader from the results of a
finished query job. Both read page after page until enough rows are read:

	schema, rows, err := client.TableReader(bigquery.TableReference{
		DatasetID: "my_dataset",
		TableID:   "my_table",
	}).ReadSchemaAndRows(ctx, 0, 100)

RunQuery and RunQueryRPC combine the two. RunQueryRPC uses jobs.query, which
can return the rows of a short query without a job to poll:

	schema, rows, exec, err := client.RunQueryRPC(ctx, &bigquery.RPCQuery{
		Q:    "SELECT name FROM my_dataset.people",
		Wait: time.Minute,
	})

# Errors

Errors from the service are *ServiceError values, and a job that finished
with an error result is turned into one by CheckJobError. Classify sorts any
error into the classes that decide whether it is worth retrying.
*/
package bigquery // import "github.com/bqjobs/bqjobs-go/bigquery"
