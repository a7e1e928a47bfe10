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
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	lightstep "github.com/lightstep/opentelemetry-exporter-go"
)

// Trace creates a field that extracts tracing information from a context and
// includes it under the "trace" key, using the identifiers the collector sees.
//
// The returned field is a no-op for contexts that don't carry a valid span.
func Trace(ctx context.Context) zapcore.Field {
	if ctx == nil {
		return zap.Skip()
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return zap.Skip()
	}
	return zap.Object("trace", spanContext{sc})
}

type spanContext struct {
	trace.SpanContext
}

func (s spanContext) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("trace", fmt.Sprintf("%016x", lightstep.TraceIDToUint64(s.TraceID())))
	enc.AddString("span", fmt.Sprintf("%016x", lightstep.SpanIDToUint64(s.SpanID())))
	enc.AddBool("sampled", s.IsSampled())
	return nil
}

// Span creates a field summarizing a finished span: name, identifiers,
// kind, status, duration, events and links.
func Span(span sdktrace.ReadOnlySpan) zapcore.Field {
	if span == nil {
		return zap.Skip()
	}
	return zap.Object("span", readOnlySpan{span})
}

type readOnlySpan struct {
	sdktrace.ReadOnlySpan
}

func (s readOnlySpan) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", s.Name())
	if err := enc.AddObject("context", spanContext{s.SpanContext()}); err != nil {
		return err
	}
	if s.Parent().SpanID().IsValid() {
		enc.AddString("parent", fmt.Sprintf("%016x", lightstep.SpanIDToUint64(s.Parent().SpanID())))
	}
	enc.AddString("kind", s.SpanKind().String())
	enc.AddString("status", s.Status().Code.String())
	if s.Status().Description != "" {
		enc.AddString("status_message", s.Status().Description)
	}
	enc.AddDuration("duration", s.EndTime().Sub(s.StartTime()))
	if err := enc.AddArray("events", events(s.Events())); err != nil {
		return err
	}
	return enc.AddArray("links", links(s.Links()))
}

type event sdktrace.Event

func (e event) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", e.Name)
	enc.AddTime("ts", e.Time)
	for _, kv := range e.Attributes {
		enc.AddString(string(kv.Key), kv.Value.Emit())
	}
	return nil
}

type events []sdktrace.Event

func (e events) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, ev := range e {
		if err := enc.AppendObject(event(ev)); err != nil {
			return err
		}
	}
	return nil
}

type links []sdktrace.Link

func (l links) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, link := range l {
		if err := enc.AppendObject(spanContext{link.SpanContext}); err != nil {
			return err
		}
	}
	return nil
}
