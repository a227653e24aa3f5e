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

// Package internal holds the library version.
package internal

import (
	"runtime"
	"strings"
)

// Version is the current tagged release of the library.
const Version = "0.3.1"

// GoVersion returns the Go runtime version reported in request headers,
// without the "go" prefix. Development builds report "devel".
func GoVersion() string {
	v := runtime.Version()
	if !strings.HasPrefix(v, "go") {
		return "devel"
	}
	v = strings.TrimPrefix(v, "go")
	if i := strings.IndexAny(v, " +"); i >= 0 {
		v = v[:i]
	}
	return v
}
