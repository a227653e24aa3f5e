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

// Package testutil contains helper functions for writing tests.
package testutil

import (
	"math"

	"github.com/google/go-cmp/cmp"
)

// NaN compares equal to NaN so that FLOAT64 rows can sit in test tables.
var defaultCmpOptions = []cmp.Option{
	cmp.Comparer(func(x, y float64) bool {
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	}),
}

// Equal tests two values for equality.
func Equal(x, y interface{}, opts ...cmp.Option) bool {
	return cmp.Equal(x, y, append(opts, defaultCmpOptions...)...)
}

// Diff reports the differences between two values.
// Diff(x, y) == "" iff Equal(x, y).
func Diff(x, y interface{}, opts ...cmp.Option) string {
	return cmp.Diff(x, y, append(opts, defaultCmpOptions...)...)
}
