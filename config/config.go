// Copyright (c) 2016 Uber Technologies, Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package config

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gopkg.in/yaml.v3"

	lightstep "github.com/lightstep/opentelemetry-exporter-go"
	"github.com/lightstep/opentelemetry-exporter-go/transport"
	"github.com/lightstep/opentelemetry-exporter-go/utils"
)

const (
	// DefaultCollectorHost is the public Lightstep collector.
	DefaultCollectorHost = "collector-grpc.lightstep.com"

	// DefaultCollectorProtocol is used when no protocol is configured.
	DefaultCollectorProtocol = "https"

	// DefaultDeadline bounds every report round trip when no deadline is configured.
	DefaultDeadline = 30 * time.Second

	envServiceName       = "LIGHTSTEP_SERVICE_NAME"
	envComponentName     = "LIGHTSTEP_COMPONENT_NAME"
	envServiceVersion    = "LIGHTSTEP_SERVICE_VERSION"
	envAccessToken       = "LIGHTSTEP_ACCESS_TOKEN"
	envCollectorHost     = "LIGHTSTEP_COLLECTOR_HOST"
	envCollectorPort     = "LIGHTSTEP_COLLECTOR_PORT"
	envCollectorProtocol = "LIGHTSTEP_COLLECTOR_PROTOCOL"
	envDeadlineMillis    = "LIGHTSTEP_DEADLINE_MILLIS"
	envConfigFile        = "LIGHTSTEP_CONFIG_FILE"
)

var errNonPositivePort = errors.New("collector port must be positive")

// Configuration configures and creates a Lightstep exporter. All fields are
// optional; zero values select the defaults.
type Configuration struct {
	Disabled bool `yaml:"disabled"`

	// ServiceName is reported as the component name of every report.
	// Defaults to the name of the running executable.
	ServiceName string `yaml:"serviceName"`

	// ComponentName is the deprecated spelling of ServiceName, used only
	// when ServiceName is empty.
	ComponentName string `yaml:"componentName"`

	// ServiceVersion, when set, is attached to the reporter and to every span.
	ServiceVersion string `yaml:"serviceVersion"`

	AccessToken string `yaml:"accessToken"`

	CollectorHost     string `yaml:"collectorHost"`
	CollectorPort     int    `yaml:"collectorPort"`
	CollectorProtocol string `yaml:"collectorProtocol"`

	// DeadlineMillis bounds every report round trip. Zero selects DefaultDeadline.
	DeadlineMillis int `yaml:"deadlineMillis"`

	// LogSpans, when true, logs every finished span through the Logger
	// client option, in parallel with exporting it.
	LogSpans bool `yaml:"logSpans"`
}

// FromEnv reads the configuration from LIGHTSTEP_* environment variables.
func FromEnv() (*Configuration, error) {
	c := &Configuration{
		ServiceName:       os.Getenv(envServiceName),
		ComponentName:     os.Getenv(envComponentName),
		ServiceVersion:    os.Getenv(envServiceVersion),
		AccessToken:       os.Getenv(envAccessToken),
		CollectorHost:     os.Getenv(envCollectorHost),
		CollectorProtocol: os.Getenv(envCollectorProtocol),
	}
	if e := os.Getenv(envCollectorPort); e != "" {
		port, err := utils.ParsePort(e)
		if err == nil && port == 0 {
			err = errNonPositivePort
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse env var %s=%s", envCollectorPort, e)
		}
		c.CollectorPort = port
	}
	if e := os.Getenv(envDeadlineMillis); e != "" {
		millis, err := strconv.Atoi(e)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse env var %s=%s", envDeadlineMillis, e)
		}
		c.DeadlineMillis = millis
	}
	return c, nil
}

// FromFile reads the configuration from a YAML file.
func FromFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %s", path)
	}
	c := &Configuration{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config file %s", path)
	}
	// an absent port selects the protocol default, an explicit one must be positive
	var explicit struct {
		CollectorPort *int `yaml:"collectorPort"`
	}
	if err := yaml.Unmarshal(data, &explicit); err == nil && explicit.CollectorPort != nil && *explicit.CollectorPort <= 0 {
		return nil, errors.Wrapf(errNonPositivePort, "invalid collectorPort %d in config file %s", *explicit.CollectorPort, path)
	}
	return c, nil
}

// Load reads the environment and then the config file at path, or at
// LIGHTSTEP_CONFIG_FILE when path is empty. Values set in the file take
// precedence over the environment.
func Load(path string) (*Configuration, error) {
	c, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path == "" {
		return c, nil
	}
	file, err := FromFile(path)
	if err != nil {
		return nil, err
	}
	c.merge(file)
	return c, nil
}

func (c *Configuration) merge(other *Configuration) {
	mergeString := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	mergeString(&c.ServiceName, other.ServiceName)
	mergeString(&c.ComponentName, other.ComponentName)
	mergeString(&c.ServiceVersion, other.ServiceVersion)
	mergeString(&c.AccessToken, other.AccessToken)
	mergeString(&c.CollectorHost, other.CollectorHost)
	mergeString(&c.CollectorProtocol, other.CollectorProtocol)
	if other.CollectorPort != 0 {
		c.CollectorPort = other.CollectorPort
	}
	if other.DeadlineMillis != 0 {
		c.DeadlineMillis = other.DeadlineMillis
	}
	c.Disabled = c.Disabled || other.Disabled
	c.LogSpans = c.LogSpans || other.LogSpans
}

// ServiceNameOrDefault resolves the reported service name: ServiceName,
// then ComponentName, then the name of the running executable.
func (c Configuration) ServiceNameOrDefault() string {
	if c.ServiceName != "" {
		return c.ServiceName
	}
	if c.ComponentName != "" {
		return c.ComponentName
	}
	return utils.ProcessName()
}

// CollectorURL validates the collector settings and returns the reports
// endpoint, filling in defaults for empty values.
func (c Configuration) CollectorURL() (string, error) {
	protocol := c.CollectorProtocol
	if protocol == "" {
		protocol = DefaultCollectorProtocol
	}
	if protocol != "http" && protocol != "https" {
		return "", errors.Errorf("invalid collector protocol %q, expecting http or https", protocol)
	}

	host := DefaultCollectorHost
	if c.CollectorHost != "" {
		host = strings.TrimSpace(c.CollectorHost)
		if host == "" {
			return "", errors.New("collector host must not be blank")
		}
	}

	port := c.CollectorPort
	switch {
	case port < 0 || port > 65535:
		return "", errors.Errorf("invalid collector port %d", port)
	case port == 0 && protocol == "https":
		port = 443
	case port == 0:
		port = 80
	}

	return fmt.Sprintf("%s://%s%s", protocol, net.JoinHostPort(host, strconv.Itoa(port)), lightstep.ReportsPath), nil
}

// Deadline returns the report round trip bound.
func (c Configuration) Deadline() (time.Duration, error) {
	if c.DeadlineMillis < 0 {
		return 0, errors.Errorf("invalid deadline %dms, expecting a non-negative value", c.DeadlineMillis)
	}
	if c.DeadlineMillis == 0 {
		return DefaultDeadline, nil
	}
	return time.Duration(c.DeadlineMillis) * time.Millisecond, nil
}

// NewExporter validates the configuration and creates an Exporter posting
// to the configured collector.
func (c Configuration) NewExporter(options ...ClientOption) (*lightstep.Exporter, error) {
	return c.newExporter(applyOptions(options...))
}

func (c Configuration) newExporter(opts ClientOptions) (*lightstep.Exporter, error) {
	url, err := c.CollectorURL()
	if err != nil {
		return nil, err
	}
	deadline, err := c.Deadline()
	if err != nil {
		return nil, err
	}

	httpOptions := []transport.HTTPOption{transport.HTTPTimeout(deadline)}
	if opts.lookupSet {
		httpOptions = append(httpOptions, transport.HTTPLookup(opts.lookup))
	}
	sender, err := transport.NewHTTPTransport(url, httpOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create collector transport")
	}

	return lightstep.NewExporter(
		c.ServiceNameOrDefault(),
		sender,
		lightstep.ExporterOptions.AccessToken(c.AccessToken),
		lightstep.ExporterOptions.ServiceVersion(c.ServiceVersion),
		lightstep.ExporterOptions.Logger(opts.logger),
		lightstep.ExporterOptions.Metrics(opts.metrics),
	), nil
}

// New creates a TracerProvider that batches finished spans and exports
// them to Lightstep. Shutting the provider down flushes the batch and
// shuts the exporter down.
func (c Configuration) New(options ...ClientOption) (*sdktrace.TracerProvider, error) {
	if c.Disabled {
		return sdktrace.NewTracerProvider(), nil
	}
	opts := applyOptions(options...)
	exporter, err := c.newExporter(opts)
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", exporter.ServiceName())}
	if c.ServiceVersion != "" {
		attrs = append(attrs, attribute.String(lightstep.ServiceVersionTagKey, c.ServiceVersion))
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, errors.Wrap(err, "cannot build resource")
	}

	providerOptions := []sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	}
	if c.LogSpans && opts.logger != lightstep.NullLogger {
		opts.logger.Infof("Initializing span logging")
		providerOptions = append(providerOptions, sdktrace.WithSpanProcessor(lightstep.NewLoggingSpanProcessor(opts.logger)))
	}
	return sdktrace.NewTracerProvider(providerOptions...), nil
}

// InitGlobalTracer creates a new TracerProvider and registers it as the
// global OpenTelemetry provider. It returns a closer that flushes pending
// spans and shuts the exporter down.
func (c Configuration) InitGlobalTracer(options ...ClientOption) (io.Closer, error) {
	provider, err := c.New(options...)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(provider)
	return &providerCloser{provider: provider}, nil
}

type providerCloser struct {
	provider *sdktrace.TracerProvider
}

func (p *providerCloser) Close() error {
	return p.provider.Shutdown(context.Background())
}
