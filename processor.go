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

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type loggingSpanProcessor struct {
	logger Logger
}

// NewLoggingSpanProcessor creates a span processor that logs all finished
// spans to the provided logger, using the identifiers the collector sees.
func NewLoggingSpanProcessor(logger Logger) sdktrace.SpanProcessor {
	return &loggingSpanProcessor{logger: logger}
}

func (p *loggingSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

// OnEnd logs the finished span.
func (p *loggingSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	p.logger.Infof("Reporting span %016x:%016x %q (%s)",
		TraceIDToUint64(sc.TraceID()), SpanIDToUint64(sc.SpanID()), s.Name(), s.EndTime().Sub(s.StartTime()))
}

func (p *loggingSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *loggingSpanProcessor) ForceFlush(ctx context.Context) error { return nil }
