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
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/lightstep/lightstep-tracer-common/golang/gogo/collectorpb"
	"github.com/pkg/errors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/atomic"

	"github.com/lightstep/opentelemetry-exporter-go/transport"
	"github.com/lightstep/opentelemetry-exporter-go/utils"
)

var _ sdktrace.SpanExporter = (*Exporter)(nil)

// Exporter submits batches of finished spans to the Lightstep collector,
// one report per call. It holds no buffer and keeps no state between
// calls other than its Transport, so it is safe for concurrent use.
type Exporter struct {
	transport Transport

	serviceName     string
	serviceVersion  string
	accessToken     string
	hostname        string
	platformVersion string

	// attached to every span, computed once
	spanTags []*collectorpb.KeyValue

	logger       Logger
	metrics      Metrics
	randomNumber func() uint64
	timeNow      func() time.Time

	closed atomic.Bool
}

// NewExporter creates an Exporter that delivers reports through transport.
// An empty serviceName falls back to the name of the running executable.
func NewExporter(serviceName string, transport Transport, options ...ExporterOption) *Exporter {
	e := &Exporter{
		transport:       transport,
		serviceName:     serviceName,
		platformVersion: runtime.Version(),
	}
	for _, option := range options {
		option(e)
	}
	if e.serviceName == "" {
		e.serviceName = utils.ProcessName()
	}
	if e.hostname == "" {
		e.hostname = utils.Hostname()
	}
	if e.logger == nil {
		e.logger = NullLogger
	}
	if e.metrics.ReportsSucceeded == nil {
		e.metrics = *NewNullMetrics()
	}
	if e.randomNumber == nil {
		e.randomNumber = utils.NewRandomPool().Uint64
	}
	if e.timeNow == nil {
		e.timeNow = time.Now
	}

	e.spanTags = []*collectorpb.KeyValue{stringTag(HostnameTagKey, e.hostname)}
	if e.serviceVersion != "" {
		e.spanTags = append(e.spanTags, stringTag(ServiceVersionTagKey, e.serviceVersion))
	}
	return e
}

// ServiceName returns the service name reported as the component name.
func (e *Exporter) ServiceName() string {
	return e.serviceName
}

// Export converts spans and submits them to the collector as one report.
// Every failure is logged and reported as ExportFailedNotRetryable.
func (e *Exporter) Export(ctx context.Context, spans []sdktrace.ReadOnlySpan) ExportResult {
	if e.closed.Load() {
		e.metrics.ReportsAfterShutdown.Inc(1)
		e.logger.Error(fmt.Sprintf("Dropping %d spans: %v", len(spans), ErrExporterClosed))
		return ExportFailedNotRetryable
	}

	request := &collectorpb.ReportRequest{
		Auth:     &collectorpb.Auth{AccessToken: e.accessToken},
		Reporter: e.newReporter(),
		Spans:    ToWireSpans(spans, e.spanTags...),
	}
	if err := e.send(ctx, request); err != nil {
		e.metrics.ReportsFailed.Inc(1)
		e.metrics.SpansFailed.Inc(int64(len(spans)))
		e.logger.Error(fmt.Sprintf("Failed to post %d spans to collector: %v", len(spans), err))
		return ExportFailedNotRetryable
	}
	e.metrics.ReportsSucceeded.Inc(1)
	e.metrics.SpansSucceeded.Inc(int64(len(spans)))
	return ExportSuccess
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.Export(ctx, spans) != ExportSuccess {
		return ErrReportFailed
	}
	return nil
}

// Flush reports success: the Exporter buffers nothing.
func (e *Exporter) Flush() ExportResult {
	return ExportSuccess
}

// Shutdown implements sdktrace.SpanExporter. Reports already in flight
// may complete; later Export calls fail without touching the network.
// Calling Shutdown more than once is a no-op.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if !e.closed.CAS(false, true) {
		return nil
	}
	return e.transport.Close()
}

func (e *Exporter) newReporter() *collectorpb.Reporter {
	guid := e.randomNumber()
	tags := []*collectorpb.KeyValue{
		stringTag(ComponentNameTagKey, e.serviceName),
		intTag(GUIDTagKey, int64(guid)),
		stringTag(HostnameTagKey, e.hostname),
		stringTag(TracerPlatformTagKey, TracerPlatform),
		stringTag(TracerPlatformVersionTagKey, e.platformVersion),
	}
	if e.serviceVersion != "" {
		tags = append(tags, stringTag(ServiceVersionTagKey, e.serviceVersion))
	}
	return &collectorpb.Reporter{ReporterId: guid, Tags: tags}
}

func (e *Exporter) send(ctx context.Context, request *collectorpb.ReportRequest) error {
	body, err := request.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize report")
	}

	start := e.timeNow()
	responseBody, err := e.transport.Send(ctx, body, e.accessToken)
	e.metrics.ReportLatency.Record(e.timeNow().Sub(start))
	if err != nil {
		var statusErr *transport.StatusError
		if errors.As(err, &statusErr) {
			e.metrics.recordHTTPStatusCode(statusErr.StatusCode)
		}
		return err
	}
	e.metrics.HTTPStatusCode2xx.Inc(1)

	var response collectorpb.ReportResponse
	if err := response.Unmarshal(responseBody); err != nil {
		return errors.Wrap(err, "cannot parse collector response")
	}
	for _, warning := range response.Warnings {
		e.logger.Infof("Collector response contained warning: %s", warning)
	}
	for _, info := range response.Infos {
		e.logger.Infof("Collector response contained info: %s", info)
	}
	if len(response.Errors) > 0 {
		e.metrics.CollectorErrors.Inc(int64(len(response.Errors)))
		for _, msg := range response.Errors {
			e.logger.Error("Collector response contained error: " + msg)
		}
		return errors.Errorf("collector returned %d errors", len(response.Errors))
	}
	return nil
}
