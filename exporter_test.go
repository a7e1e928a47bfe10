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
	"net/http"
	"runtime"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/lightstep/lightstep-tracer-common/golang/gogo/collectorpb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uber/jaeger-lib/metrics/metricstest"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lightstep/opentelemetry-exporter-go/mocks"
	"github.com/lightstep/opentelemetry-exporter-go/testutils"
	"github.com/lightstep/opentelemetry-exporter-go/transport"
)

type recordingLogger struct {
	sync.Mutex
	errors []string
	infos  []string
}

func (l *recordingLogger) Error(msg string) {
	l.Lock()
	defer l.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Infof(msg string, args ...interface{}) {
	l.Lock()
	defer l.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Errors() []string {
	l.Lock()
	defer l.Unlock()
	return append([]string(nil), l.errors...)
}

func (l *recordingLogger) Infos() []string {
	l.Lock()
	defer l.Unlock()
	return append([]string(nil), l.infos...)
}

func tagValues(tags []*collectorpb.KeyValue) map[string]interface{} {
	values := make(map[string]interface{}, len(tags))
	for _, tag := range tags {
		switch v := tag.Value.(type) {
		case *collectorpb.KeyValue_StringValue:
			values[tag.Key] = v.StringValue
		case *collectorpb.KeyValue_IntValue:
			values[tag.Key] = v.IntValue
		case *collectorpb.KeyValue_BoolValue:
			values[tag.Key] = v.BoolValue
		case *collectorpb.KeyValue_DoubleValue:
			values[tag.Key] = v.DoubleValue
		default:
			values[tag.Key] = nil
		}
	}
	return values
}

type exporterSuite struct {
	suite.Suite
	collector *testutils.MockCollector
	factory   *metricstest.Factory
	logger    *recordingLogger
	exporter  *Exporter
}

func (s *exporterSuite) SetupTest() {
	s.collector = testutils.StartMockCollector()
	s.factory = metricstest.NewFactory(0)
	s.logger = &recordingLogger{}
	s.exporter = s.newExporter()
}

func (s *exporterSuite) TearDownTest() {
	s.NoError(s.exporter.Shutdown(context.Background()))
	s.collector.Close()
}

func (s *exporterSuite) newExporter(options ...ExporterOption) *Exporter {
	sender, err := transport.NewHTTPTransport(s.collector.URL())
	s.Require().NoError(err)
	return NewExporter("checkout", sender, append([]ExporterOption{
		ExporterOptions.Metrics(NewMetrics(s.factory, nil)),
		ExporterOptions.Logger(s.logger),
		ExporterOptions.AccessToken("secret"),
		ExporterOptions.Hostname("host-1"),
		ExporterOptions.RandomNumber(func() uint64 { return 42 }),
	}, options...)...)
}

func (s *exporterSuite) export(spans ...tracetest.SpanStub) ExportResult {
	return s.exporter.Export(context.Background(), tracetest.SpanStubs(spans).Snapshots())
}

func TestExporterSuite(t *testing.T) {
	suite.Run(t, new(exporterSuite))
}

func (s *exporterSuite) TestExportSuccess() {
	s.Equal(ExportSuccess, s.export(endpointSpan()))

	reports := s.collector.Reports()
	s.Require().Len(reports, 1)
	report := reports[0]
	s.Equal("secret", report.Auth.AccessToken)
	s.Equal([]string{"secret"}, s.collector.AccessTokens())
	s.Equal([]string{transport.ContentType}, s.collector.ContentTypes())

	s.EqualValues(42, report.Reporter.ReporterId)
	s.Equal(map[string]interface{}{
		ComponentNameTagKey:         "checkout",
		GUIDTagKey:                  int64(42),
		HostnameTagKey:              "host-1",
		TracerPlatformTagKey:        "go",
		TracerPlatformVersionTagKey: runtime.Version(),
	}, tagValues(report.Reporter.Tags))

	s.Require().Len(report.Spans, 1)
	span := report.Spans[0]
	s.Equal("GET /api/endpoint", span.OperationName)
	s.Len(span.Tags, 4, "3 span tags plus the hostname")
	s.Equal("host-1", tagValues(span.Tags)[HostnameTagKey])
	s.NotContains(tagValues(span.Tags), ServiceVersionTagKey)
	s.Len(span.Logs, 1)
	s.Len(span.References, 2)

	s.factory.AssertCounterMetrics(s.T(),
		metricstest.ExpectedMetric{Name: "lightstep.exporter.reports", Tags: map[string]string{"result": "ok"}, Value: 1},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.spans", Tags: map[string]string{"result": "ok"}, Value: 1},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.http_responses", Tags: map[string]string{"status_code": "2xx"}, Value: 1},
	)
	s.Empty(s.logger.Errors())
}

func (s *exporterSuite) TestServiceVersion() {
	s.exporter = s.newExporter(ExporterOptions.ServiceVersion("1.0"))
	s.Equal(ExportSuccess, s.export(endpointSpan()))

	reports := s.collector.Reports()
	s.Require().Len(reports, 1)
	s.Equal("1.0", tagValues(reports[0].Reporter.Tags)[ServiceVersionTagKey])
	s.Require().Len(reports[0].Spans, 1)
	s.Equal("1.0", tagValues(reports[0].Spans[0].Tags)[ServiceVersionTagKey])
}

func (s *exporterSuite) TestFreshReporterIDPerExport() {
	var next uint64
	s.exporter = s.newExporter(ExporterOptions.RandomNumber(func() uint64 {
		next++
		return next
	}))
	s.Equal(ExportSuccess, s.export())
	s.Equal(ExportSuccess, s.export())

	reports := s.collector.Reports()
	s.Require().Len(reports, 2)
	s.EqualValues(1, reports[0].Reporter.ReporterId)
	s.EqualValues(2, reports[1].Reporter.ReporterId)
}

func (s *exporterSuite) TestExportEmptyBatch() {
	s.Equal(ExportSuccess, s.export())
	reports := s.collector.Reports()
	s.Require().Len(reports, 1)
	s.Empty(reports[0].Spans)
}

func (s *exporterSuite) TestCollectorErrors() {
	s.collector.SetResponse(&collectorpb.ReportResponse{
		Errors:   []string{"invalid access token", "quota exceeded"},
		Warnings: []string{"clock skew"},
		Infos:    []string{"welcome"},
	})
	s.Equal(ExportFailedNotRetryable, s.export(endpointSpan(), endpointSpan()))

	errs := s.logger.Errors()
	s.Require().Len(errs, 3)
	s.Equal("Collector response contained error: invalid access token", errs[0])
	s.Equal("Collector response contained error: quota exceeded", errs[1])
	s.Contains(errs[2], "Failed to post 2 spans")
	s.Equal([]string{
		"Collector response contained warning: clock skew",
		"Collector response contained info: welcome",
	}, s.logger.Infos())

	s.factory.AssertCounterMetrics(s.T(),
		metricstest.ExpectedMetric{Name: "lightstep.exporter.reports", Tags: map[string]string{"result": "err"}, Value: 1},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.spans", Tags: map[string]string{"result": "err"}, Value: 2},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.collector_errors", Value: 2},
	)
}

func (s *exporterSuite) TestWarningsDoNotFail() {
	s.collector.SetResponse(&collectorpb.ReportResponse{Warnings: []string{"clock skew"}})
	s.Equal(ExportSuccess, s.export(endpointSpan()))
	s.Equal([]string{"Collector response contained warning: clock skew"}, s.logger.Infos())
}

func (s *exporterSuite) TestNon2xx() {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusServiceUnavailable} {
		s.collector.SetStatus(status)
		s.Equal(ExportFailedNotRetryable, s.export(endpointSpan()), "status %d", status)
	}
	s.factory.AssertCounterMetrics(s.T(),
		metricstest.ExpectedMetric{Name: "lightstep.exporter.http_responses", Tags: map[string]string{"status_code": "4xx"}, Value: 2},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.http_responses", Tags: map[string]string{"status_code": "5xx"}, Value: 1},
		metricstest.ExpectedMetric{Name: "lightstep.exporter.reports", Tags: map[string]string{"result": "err"}, Value: 3},
	)
}

func (s *exporterSuite) TestMalformedResponse() {
	s.collector.SetRawResponse([]byte{0xff})
	s.Equal(ExportFailedNotRetryable, s.export(endpointSpan()))
	errs := s.logger.Errors()
	s.Require().Len(errs, 1)
	s.Contains(errs[0], "cannot parse collector response")
}

func (s *exporterSuite) TestExportSpans() {
	s.NoError(s.exporter.ExportSpans(context.Background(), nil))

	s.collector.SetStatus(http.StatusInternalServerError)
	s.Equal(ErrReportFailed, s.exporter.ExportSpans(context.Background(), nil))
}

func (s *exporterSuite) TestFlush() {
	s.Equal(ExportSuccess, s.exporter.Flush())
	s.Zero(s.collector.RequestCount())
}

func (s *exporterSuite) TestExportAfterShutdown() {
	s.NoError(s.exporter.Shutdown(context.Background()))
	s.NoError(s.exporter.Shutdown(context.Background()))

	s.Equal(ExportFailedNotRetryable, s.export(endpointSpan()))
	s.Zero(s.collector.RequestCount())
	s.factory.AssertCounterMetrics(s.T(),
		metricstest.ExpectedMetric{Name: "lightstep.exporter.reports_after_shutdown", Value: 1},
	)
	errs := s.logger.Errors()
	s.Require().Len(errs, 1)
	s.Contains(errs[0], ErrExporterClosed.Error())
}

func (s *exporterSuite) TestConcurrentExports() {
	const workers, batch = 8, 5
	var wg sync.WaitGroup
	results := make(chan ExportResult, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stubs := make([]tracetest.SpanStub, batch)
			for j := range stubs {
				stubs[j] = tracetest.SpanStub{Name: fmt.Sprintf("worker-%d-span-%d", i, j)}
			}
			results <- s.export(stubs...)
		}(i)
	}
	wg.Wait()
	close(results)

	for result := range results {
		s.Equal(ExportSuccess, result)
	}
	reports := s.collector.Reports()
	s.Require().Len(reports, workers)
	for _, report := range reports {
		s.Require().Len(report.Spans, batch)
		for j, span := range report.Spans {
			s.Contains(span.OperationName, fmt.Sprintf("-span-%d", j), "order within a report is preserved")
		}
	}
}

func TestExportNetworkError(t *testing.T) {
	collector := testutils.StartMockCollector()
	url := collector.URL()
	collector.Close()

	sender, err := transport.NewHTTPTransport(url)
	require.NoError(t, err)
	logger := &recordingLogger{}
	exporter := NewExporter("checkout", sender, ExporterOptions.Logger(logger))

	assert.Equal(t, ExportFailedNotRetryable, exporter.Export(context.Background(), []sdktrace.ReadOnlySpan{endpointSpan().Snapshot()}))
	require.Len(t, logger.Errors(), 1)
	assert.Contains(t, logger.Errors()[0], "error sending report")
}

func TestExportWithMockTransport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockTransport(ctrl)
	exporter := NewExporter("", sender,
		ExporterOptions.AccessToken("secret"),
		ExporterOptions.RandomNumber(func() uint64 { return 7 }))
	assert.NotEmpty(t, exporter.ServiceName(), "defaults to the process name")

	gomock.InOrder(
		sender.EXPECT().Send(gomock.Any(), gomock.Any(), "secret").DoAndReturn(
			func(ctx context.Context, body []byte, token string) ([]byte, error) {
				var report collectorpb.ReportRequest
				require.NoError(t, report.Unmarshal(body))
				assert.EqualValues(t, 7, report.Reporter.ReporterId)
				assert.Len(t, report.Spans, 1)
				return nil, nil
			}),
		sender.EXPECT().Send(gomock.Any(), gomock.Any(), "secret").Return(nil, errors.New("connection reset")),
		sender.EXPECT().Close().Return(nil).Times(1),
	)

	spans := []sdktrace.ReadOnlySpan{endpointSpan().Snapshot()}
	assert.Equal(t, ExportSuccess, exporter.Export(context.Background(), spans), "empty body is an empty acknowledgement")
	assert.Equal(t, ExportFailedNotRetryable, exporter.Export(context.Background(), spans))
	assert.NoError(t, exporter.Shutdown(context.Background()))
	assert.NoError(t, exporter.Shutdown(context.Background()))
}

func TestExporterNilMetricsOption(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sender := mocks.NewMockTransport(ctrl)
	sender.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	exporter := NewExporter("checkout", sender, ExporterOptions.Metrics(nil))

	spans := []sdktrace.ReadOnlySpan{endpointSpan().Snapshot()}
	assert.NotPanics(t, func() {
		assert.Equal(t, ExportSuccess, exporter.Export(context.Background(), spans))
	})
}

func TestExportResultString(t *testing.T) {
	assert.Equal(t, "success", ExportSuccess.String())
	assert.Equal(t, "failed_not_retryable", ExportFailedNotRetryable.String())
	assert.Equal(t, "unknown", ExportResult(9).String())
}
