// Copyright (c) 2020 Lightstep, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lightstep

import (
	"encoding/binary"

	"go.opentelemetry.io/otel/trace"
)

// TraceIDToUint64 returns the low-order 64 bits of a 128-bit trace ID,
// read big-endian. The collector only stores 64-bit trace IDs, so the
// high-order half is dropped. The zero trace ID maps to 0.
func TraceIDToUint64(id trace.TraceID) uint64 {
	return binary.BigEndian.Uint64(id[8:])
}

// SpanIDToUint64 returns the span ID as a big-endian uint64.
func SpanIDToUint64(id trace.SpanID) uint64 {
	return binary.BigEndian.Uint64(id[:])
}
