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

import "time"

// ExporterOption is a function that sets some option on the Exporter
type ExporterOption func(exporter *Exporter)

// ExporterOptions is a factory for all available ExporterOption's
var ExporterOptions exporterOptions

type exporterOptions struct{}

// Metrics creates an ExporterOption that initializes Metrics on the exporter,
// which is used to emit statistics. A nil m keeps the null metrics.
func (exporterOptions) Metrics(m *Metrics) ExporterOption {
	return func(exporter *Exporter) {
		if m != nil {
			exporter.metrics = *m
		}
	}
}

// Logger creates an ExporterOption that gives the exporter a Logger.
func (exporterOptions) Logger(logger Logger) ExporterOption {
	return func(exporter *Exporter) {
		exporter.logger = logger
	}
}

// AccessToken sets the project access token sent with every report.
func (exporterOptions) AccessToken(token string) ExporterOption {
	return func(exporter *Exporter) {
		exporter.accessToken = token
	}
}

// ServiceVersion sets the version reported on the reporter and on every
// span. An empty version omits the tag.
func (exporterOptions) ServiceVersion(version string) ExporterOption {
	return func(exporter *Exporter) {
		exporter.serviceVersion = version
	}
}

// Hostname overrides the host name reported on the reporter and on every
// span. If not set, the factory method will obtain the kernel host name.
func (exporterOptions) Hostname(hostname string) ExporterOption {
	return func(exporter *Exporter) {
		exporter.hostname = hostname
	}
}

// RandomNumber creates an ExporterOption that gives the exporter
// a thread-safe random number generator function for generating reporter IDs.
func (exporterOptions) RandomNumber(randomNumber func() uint64) ExporterOption {
	return func(exporter *Exporter) {
		exporter.randomNumber = randomNumber
	}
}

// TimeNow creates an ExporterOption that gives the exporter a function
// used to measure report latency.
func (exporterOptions) TimeNow(timeNow func() time.Time) ExporterOption {
	return func(exporter *Exporter) {
		exporter.timeNow = timeNow
	}
}
