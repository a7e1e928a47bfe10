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
	"time"

	"github.com/gogo/protobuf/types"
	"github.com/lightstep/lightstep-tracer-common/golang/gogo/collectorpb"
	"github.com/opentracing/opentracing-go/ext"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ToWireSpans converts spans into collector spans, preserving order.
// extraTags are appended to the tags of every span.
func ToWireSpans(spans []sdktrace.ReadOnlySpan, extraTags ...*collectorpb.KeyValue) []*collectorpb.Span {
	converted := make([]*collectorpb.Span, 0, len(spans))
	for _, span := range spans {
		converted = append(converted, ToWireSpan(span, extraTags...))
	}
	return converted
}

// ToWireSpan converts a single finished span into a collector span.
func ToWireSpan(span sdktrace.ReadOnlySpan, extraTags ...*collectorpb.KeyValue) *collectorpb.Span {
	sc := span.SpanContext()
	traceID := TraceIDToUint64(sc.TraceID())

	wire := &collectorpb.Span{
		OperationName: span.Name(),
		SpanContext: &collectorpb.SpanContext{
			TraceId: traceID,
			SpanId:  SpanIDToUint64(sc.SpanID()),
		},
		StartTimestamp: toTimestamp(span.StartTime()),
		DurationMicros: durationMicros(span.StartTime(), span.EndTime()),
		Tags:           ToKeyValues(span.Attributes()),
		Logs:           ToLogs(span.Events()),
		References:     ToReferences(span.Links()),
	}

	if parent := span.Parent(); parent.SpanID().IsValid() {
		wire.References = append(wire.References, &collectorpb.Reference{
			Relationship: collectorpb.Reference_CHILD_OF,
			SpanContext: &collectorpb.SpanContext{
				TraceId: traceID,
				SpanId:  SpanIDToUint64(parent.SpanID()),
			},
		})
	}

	if kind, ok := spanKindValue(span.SpanKind()); ok {
		wire.Tags = append(wire.Tags, stringTag(SpanKindKey, kind))
	}

	status := span.Status()
	if status.Description != "" {
		wire.Tags = append(wire.Tags, stringTag(SpanStatusMessageKey, status.Description))
	}
	wire.Tags = append(wire.Tags, intTag(SpanStatusCodeKey, int64(status.Code)))

	wire.Tags = append(wire.Tags, extraTags...)
	return wire
}

// ToReferences converts span links into FOLLOWS_FROM references.
func ToReferences(links []sdktrace.Link) []*collectorpb.Reference {
	references := make([]*collectorpb.Reference, 0, len(links)+1) // +1 for the parent
	for _, link := range links {
		references = append(references, ToReference(link))
	}
	return references
}

// ToReference converts one link. Links never describe a parent.
func ToReference(link sdktrace.Link) *collectorpb.Reference {
	return &collectorpb.Reference{
		Relationship: collectorpb.Reference_FOLLOWS_FROM,
		SpanContext: &collectorpb.SpanContext{
			TraceId: TraceIDToUint64(link.SpanContext.TraceID()),
			SpanId:  SpanIDToUint64(link.SpanContext.SpanID()),
		},
	}
}

// ToLogs converts span events into logs.
func ToLogs(events []sdktrace.Event) []*collectorpb.Log {
	logs := make([]*collectorpb.Log, 0, len(events))
	for _, event := range events {
		logs = append(logs, ToLog(event))
	}
	return logs
}

// ToLog converts an event into a log whose first field is the event name
// under LogMessageKey, followed by the event attributes.
func ToLog(event sdktrace.Event) *collectorpb.Log {
	fields := make([]*collectorpb.KeyValue, 0, 1+len(event.Attributes))
	fields = append(fields, stringTag(LogMessageKey, event.Name))
	for _, attr := range event.Attributes {
		fields = append(fields, ToKeyValue(attr))
	}
	return &collectorpb.Log{
		Timestamp: toTimestamp(event.Time),
		Fields:    fields,
	}
}

// ToKeyValues converts attributes into tags, preserving order.
func ToKeyValues(attrs []attribute.KeyValue) []*collectorpb.KeyValue {
	// room for kind, status message, status code and a couple of extra tags
	keyValues := make([]*collectorpb.KeyValue, 0, len(attrs)+5)
	for _, attr := range attrs {
		keyValues = append(keyValues, ToKeyValue(attr))
	}
	return keyValues
}

// ToKeyValue converts one attribute. Only string, int64, bool and float64
// values have a wire form; any other type yields a tag with just the key.
func ToKeyValue(attr attribute.KeyValue) *collectorpb.KeyValue {
	kv := &collectorpb.KeyValue{Key: string(attr.Key)}
	switch attr.Value.Type() {
	case attribute.STRING:
		kv.Value = &collectorpb.KeyValue_StringValue{StringValue: attr.Value.AsString()}
	case attribute.INT64:
		kv.Value = &collectorpb.KeyValue_IntValue{IntValue: attr.Value.AsInt64()}
	case attribute.BOOL:
		kv.Value = &collectorpb.KeyValue_BoolValue{BoolValue: attr.Value.AsBool()}
	case attribute.FLOAT64:
		kv.Value = &collectorpb.KeyValue_DoubleValue{DoubleValue: attr.Value.AsFloat64()}
	}
	return kv
}

func stringTag(key, value string) *collectorpb.KeyValue {
	return &collectorpb.KeyValue{Key: key, Value: &collectorpb.KeyValue_StringValue{StringValue: value}}
}

func intTag(key string, value int64) *collectorpb.KeyValue {
	return &collectorpb.KeyValue{Key: key, Value: &collectorpb.KeyValue_IntValue{IntValue: value}}
}

// SpanKindInternal is the span.kind value for internal spans, which have
// no OpenTracing equivalent.
const SpanKindInternal = "internal"

// spanKindValue maps a span kind onto the OpenTracing span.kind values
// the collector indexes. Unspecified and unknown kinds have no tag.
func spanKindValue(kind trace.SpanKind) (string, bool) {
	switch kind {
	case trace.SpanKindServer:
		return string(ext.SpanKindRPCServerEnum), true
	case trace.SpanKindClient:
		return string(ext.SpanKindRPCClientEnum), true
	case trace.SpanKindProducer:
		return string(ext.SpanKindProducerEnum), true
	case trace.SpanKindConsumer:
		return string(ext.SpanKindConsumerEnum), true
	case trace.SpanKindInternal:
		return SpanKindInternal, true
	}
	return "", false
}

func toTimestamp(t time.Time) *types.Timestamp {
	return &types.Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// durationMicros truncates sub-microsecond remainders. The wire field is
// unsigned, so an end before the start reports 0.
func durationMicros(start, end time.Time) uint64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return uint64(d / time.Microsecond)
}
