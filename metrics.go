// Copyright (c) 2017 Uber Technologies, Inc.
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
	"github.com/uber/jaeger-lib/metrics"
)

// Metrics is a container of all stats emitted by the Exporter.
type Metrics struct {
	// Number of reports accepted by the collector
	ReportsSucceeded metrics.Counter `metric:"reports" tags:"result=ok" help:"Number of reports accepted by the collector"`

	// Number of reports that failed at any stage
	ReportsFailed metrics.Counter `metric:"reports" tags:"result=err" help:"Number of reports that could not be delivered"`

	// Number of spans in reports accepted by the collector
	SpansSucceeded metrics.Counter `metric:"spans" tags:"result=ok" help:"Number of spans delivered to the collector"`

	// Number of spans in failed reports
	SpansFailed metrics.Counter `metric:"spans" tags:"result=err" help:"Number of spans in failed reports"`

	// Number of error strings returned in collector responses
	CollectorErrors metrics.Counter `metric:"collector_errors" help:"Number of errors returned by the collector"`

	// Number of reports rejected by the exporter after shutdown
	ReportsAfterShutdown metrics.Counter `metric:"reports_after_shutdown" help:"Number of export calls made after shutdown"`

	// Number of collector responses with HTTP status code 200-299
	HTTPStatusCode2xx metrics.Counter `metric:"http_responses" tags:"status_code=2xx"`

	// Number of collector responses with HTTP status code 300-399
	HTTPStatusCode3xx metrics.Counter `metric:"http_responses" tags:"status_code=3xx"`

	// Number of collector responses with HTTP status code 400-499
	HTTPStatusCode4xx metrics.Counter `metric:"http_responses" tags:"status_code=4xx"`

	// Number of collector responses with HTTP status code 500-599
	HTTPStatusCode5xx metrics.Counter `metric:"http_responses" tags:"status_code=5xx"`

	// Time spent on the collector round trip
	ReportLatency metrics.Timer `metric:"report_latency" help:"Latency of report round trips"`
}

// NewMetrics creates a new Metrics struct and initializes it.
func NewMetrics(factory metrics.Factory, globalTags map[string]string) *Metrics {
	m := &Metrics{}
	metrics.MustInit(m, factory.Namespace(metrics.NSOptions{Name: "lightstep"}).Namespace(metrics.NSOptions{Name: "exporter"}), globalTags)
	return m
}

// NewNullMetrics creates a new Metrics struct that won't report any metrics.
func NewNullMetrics() *Metrics {
	return NewMetrics(metrics.NullFactory, nil)
}

func (m *Metrics) recordHTTPStatusCode(statusCode int) {
	if statusCode >= 200 && statusCode < 300 {
		m.HTTPStatusCode2xx.Inc(1)
	} else if statusCode >= 300 && statusCode < 400 {
		m.HTTPStatusCode3xx.Inc(1)
	} else if statusCode >= 400 && statusCode < 500 {
		m.HTTPStatusCode4xx.Inc(1)
	} else if statusCode >= 500 && statusCode < 600 {
		m.HTTPStatusCode5xx.Inc(1)
	}
}
