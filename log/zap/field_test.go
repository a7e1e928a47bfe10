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

package zap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

var (
	traceID, _  = trace.TraceIDFromHex("39431247078c75c1af46e0665b912ea9")
	spanID, _   = trace.SpanIDFromHex("0000000000def456")
	parentID, _ = trace.SpanIDFromHex("0000000000fed456")
	linkID, _   = trace.SpanIDFromHex("0000000000aef789")
)

func encode(t *testing.T, field zapcore.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	return enc.Fields
}

func TestTraceField(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := encode(t, Trace(ctx))
	require.Contains(t, fields, "trace")
	assert.Equal(t, map[string]interface{}{
		"trace":   "af46e0665b912ea9",
		"span":    "0000000000def456",
		"sampled": true,
	}, fields["trace"])
}

func TestTraceFieldWithoutSpan(t *testing.T) {
	assert.Empty(t, encode(t, Trace(context.Background())))
	assert.Empty(t, encode(t, Trace(nil)))
}

func TestSpanField(t *testing.T) {
	start := time.Unix(1588000000, 0)
	stub := tracetest.SpanStub{
		Name: "GET /api/endpoint",
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}),
		Parent: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  parentID,
		}),
		SpanKind:  trace.SpanKindServer,
		StartTime: start,
		EndTime:   start.Add(900 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "boom"},
		Events: []sdktrace.Event{
			{Name: "retry", Time: start, Attributes: []attribute.KeyValue{attribute.Int("attempt", 2)}},
		},
		Links: []sdktrace.Link{
			{SpanContext: trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: linkID})},
		},
	}

	fields := encode(t, Span(stub.Snapshot()))
	span, ok := fields["span"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "GET /api/endpoint", span["name"])
	assert.Equal(t, "0000000000fed456", span["parent"])
	assert.Equal(t, "server", span["kind"])
	assert.Equal(t, "Error", span["status"])
	assert.Equal(t, "boom", span["status_message"])
	assert.Equal(t, 900*time.Millisecond, span["duration"])

	events, ok := span["events"].([]interface{})
	require.True(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, "retry", events[0].(map[string]interface{})["name"])
	assert.Equal(t, "2", events[0].(map[string]interface{})["attempt"])

	links, ok := span["links"].([]interface{})
	require.True(t, ok)
	require.Len(t, links, 1)
	assert.Equal(t, "0000000000aef789", links[0].(map[string]interface{})["span"])
}

func TestSpanFieldNil(t *testing.T) {
	assert.Empty(t, encode(t, Span(nil)))
}
