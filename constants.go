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
	"github.com/opentracing/opentracing-go/ext"

	"github.com/lightstep/opentelemetry-exporter-go/transport"
)

const (
	// LogMessageKey is the log field carrying the name of a span event.
	LogMessageKey = "message"

	// SpanStatusMessageKey is the tag holding a non-empty span status description.
	SpanStatusMessageKey = "span.status.message"

	// SpanStatusCodeKey is the tag holding the numeric span status code.
	// Every exported span carries it.
	SpanStatusCodeKey = "span.status.code"

	// ComponentNameTagKey reports the service name on the reporter.
	ComponentNameTagKey = "lightstep.component_name"

	// GUIDTagKey reports the random reporter identifier.
	GUIDTagKey = "lightstep.guid"

	// HostnameTagKey reports the host name of the process, on the reporter
	// and on every span.
	HostnameTagKey = "lightstep.hostname"

	// TracerPlatformTagKey reports the runtime platform name.
	TracerPlatformTagKey = "lightstep.tracer_platform"

	// TracerPlatformVersionTagKey reports the runtime platform version.
	TracerPlatformVersionTagKey = "lightstep.tracer_platform_version"

	// ServiceVersionTagKey reports the configured service version, on the
	// reporter and on every span. Omitted when no version is configured.
	ServiceVersionTagKey = "service.version"

	// TracerPlatform is the value of TracerPlatformTagKey.
	TracerPlatform = "go"

	// AccessTokenHeader is the HTTP header carrying the project access token.
	AccessTokenHeader = transport.AccessTokenHeader

	// ReportsPath is the collector endpoint accepting reports.
	ReportsPath = "/api/v2/reports"
)

// SpanKindKey is the tag holding the span kind, shared with the OpenTracing
// semantic conventions.
var SpanKindKey = string(ext.SpanKind)
