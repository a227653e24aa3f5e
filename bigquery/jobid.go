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
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"math"
	"sort"
	"strconv"
	"sync/atomic"
	"time"
)

// A JobIDGenerator chooses the ID for a job before it is submitted.
// Generate returns "" to let the service assign the ID. Implementations must
// not perform I/O and must never fail.
type JobIDGenerator interface {
	Generate(conf JobConfiguration) string
}

// NoJobIDGenerator leaves ID assignment to the service.
type NoJobIDGenerator struct{}

// Generate always returns "".
func (NoJobIDGenerator) Generate(JobConfiguration) string { return "" }

// RandomJobIDGenerator produces IDs of the form bqjob_r<random>_<millis>,
// unique with overwhelming probability.
type RandomJobIDGenerator struct {
	// now and rand are replaced in tests.
	now  func() time.Time
	rand io.Reader
}

// Generate returns a fresh random ID.
func (g RandomJobIDGenerator) Generate(JobConfiguration) string {
	now, src := time.Now, io.Reader(rand.Reader)
	if g.now != nil {
		now = g.now
	}
	if g.rand != nil {
		src = g.rand
	}
	var b [8]byte
	// A failing entropy source leaves b zero; the timestamp still varies.
	io.ReadFull(src, b[:])
	r := binary.BigEndian.Uint64(b[:]) & math.MaxInt64
	return fmt.Sprintf("bqjob_r%08x_%016x", r, now().UnixMilli())
}

// FingerprintJobIDGenerator derives the ID from the job configuration, so
// that submitting the same configuration twice yields the same ID and the
// second submission is rejected as a duplicate.
type FingerprintJobIDGenerator struct{}

// Generate returns bqjob_c followed by the hex SHA-1 of the configuration.
func (FingerprintJobIDGenerator) Generate(conf JobConfiguration) string {
	return "bqjob_c" + fingerprint(conf)
}

func fingerprint(conf JobConfiguration) string {
	h := sha1.New()
	jc, _ := conf.toBQ()
	// The wire form is decoded back into generic maps so that keys can be
	// visited in sorted order whatever order they were set in.
	var generic interface{}
	if b, err := json.Marshal(jc); err == nil {
		json.Unmarshal(b, &generic)
	}
	hashValue(h, generic)
	return hex.EncodeToString(h.Sum(nil))
}

// hashValue writes v as a sequence of tagged, length-prefixed tokens, so that
// distinct values never produce the same byte stream.
func hashValue(h hash.Hash, v interface{}) {
	switch v := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(h, "m%d:", len(keys))
		for _, k := range keys {
			hashToken(h, 'k', k)
			hashValue(h, v[k])
		}
	case []interface{}:
		fmt.Fprintf(h, "l%d:", len(v))
		for _, e := range v {
			hashValue(h, e)
		}
	case string:
		hashToken(h, 's', v)
	case float64:
		hashToken(h, 'f', strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		hashToken(h, 'b', strconv.FormatBool(v))
	case nil:
		io.WriteString(h, "n")
	default:
		hashToken(h, 'v', fmt.Sprint(v))
	}
}

func hashToken(h hash.Hash, tag byte, s string) {
	fmt.Fprintf(h, "%c%d:%s", tag, len(s), s)
}

// IncrementingJobIDGenerator appends _1, _2, _3, ... to the IDs of Base,
// numbering the calls made on this generator. It is safe for concurrent use.
type IncrementingJobIDGenerator struct {
	Base JobIDGenerator
	n    atomic.Int64
}

// NewIncrementingJobIDGenerator returns a generator decorating base.
func NewIncrementingJobIDGenerator(base JobIDGenerator) *IncrementingJobIDGenerator {
	return &IncrementingJobIDGenerator{Base: base}
}

// Generate returns the next suffixed ID.
func (g *IncrementingJobIDGenerator) Generate(conf JobConfiguration) string {
	return fmt.Sprintf("%s_%d", g.Base.Generate(conf), g.n.Add(1))
}
