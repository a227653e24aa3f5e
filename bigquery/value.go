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

// Value stores the contents of a single cell from a BigQuery result.
//
// Scalars are passed through as the service encodes them (usually a string,
// or nil for NULL). A RECORD cell is a []Value holding its fields in schema
// order, a REPEATED scalar is a []Value of its elements and a REPEATED RECORD
// is a []Value of []Value.
type Value interface{}

func convertRows(rows []*bq.TableRow, schema Schema) ([][]Value, error) {
	out := make([][]Value, 0, len(rows))
	for _, r := range rows {
		cells := make([]interface{}, len(r.F))
		for i, c := range r.F {
			if c != nil {
				cells[i] = c.V
			}
		}
		row, err := convertCells(cells, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// convertCells pairs cells with fields positionally. Extra cells or fields
// on either side are ignored.
func convertCells(cells []interface{}, schema Schema) ([]Value, error) {
	n := len(cells)
	if len(schema) < n {
		n = len(schema)
	}
	vals := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := convertValue(cells[i], schema[i])
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func convertValue(v interface{}, fs *FieldSchema) (Value, error) {
	if fs.Type == "" {
		return nil, &MalformedResponseError{Msg: fmt.Sprintf("missing type property for field %q", fs.Name)}
	}
	switch {
	case fs.isRecord() && fs.Repeated:
		items, err := repeatedItems(v, fs)
		if err != nil {
			return nil, err
		}
		recs := make([]Value, 0, len(items))
		for _, item := range items {
			rec, err := convertNested(item, fs)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		return recs, nil
	case fs.isRecord():
		return convertNested(v, fs)
	case fs.Repeated:
		items, err := repeatedItems(v, fs)
		if err != nil {
			return nil, err
		}
		vals := make([]Value, len(items))
		for i, item := range items {
			vals[i] = item
		}
		return vals, nil
	default:
		return v, nil
	}
}

// repeatedItems unpacks the [{"v": x}, ...] encoding of an array.
func repeatedItems(v interface{}, fs *FieldSchema) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, &MalformedResponseError{Msg: fmt.Sprintf("field %q: repeated value is %T, not a list", fs.Name, v)}
	}
	items := make([]interface{}, len(list))
	for i, e := range list {
		m, ok := e.(map[string]interface{})
		if !ok {
			return nil, &MalformedResponseError{Msg: fmt.Sprintf("field %q: array element is %T", fs.Name, e)}
		}
		items[i] = m["v"]
	}
	return items, nil
}

// convertNested unpacks the {"f": [{"v": x}, ...]} encoding of a record. A
// NULL record stays nil.
func convertNested(v interface{}, fs *FieldSchema) (Value, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, &MalformedResponseError{Msg: fmt.Sprintf("field %q: record value is %T", fs.Name, v)}
	}
	fields, _ := m["f"].([]interface{})
	cells := make([]interface{}, len(fields))
	for i, f := range fields {
		if fm, ok := f.(map[string]interface{}); ok {
			cells[i] = fm["v"]
		}
	}
	row, err := convertCells(cells, fs.Schema)
	if err != nil {
		return nil, err
	}
	return row, nil
}
