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

import "errors"

// ExportResult is the outcome of one export call.
//
// There is deliberately no retryable failure: timeouts, rejected requests
// and collector errors all map to ExportFailedNotRetryable, and callers
// must not expect the exporter to tell them apart.
type ExportResult int

const (
	// ExportSuccess means the collector acknowledged the report without errors.
	ExportSuccess ExportResult = iota

	// ExportFailedNotRetryable means the report was not delivered.
	ExportFailedNotRetryable
)

func (r ExportResult) String() string {
	switch r {
	case ExportSuccess:
		return "success"
	case ExportFailedNotRetryable:
		return "failed_not_retryable"
	}
	return "unknown"
}

var (
	// ErrReportFailed is returned by ExportSpans when the report was not delivered.
	// The cause has already been logged through the exporter's Logger.
	ErrReportFailed = errors.New("lightstep: failed to export spans")

	// ErrExporterClosed is logged when spans are exported after Shutdown.
	ErrExporterClosed = errors.New("lightstep: exporter is shut down")
)
