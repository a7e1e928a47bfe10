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

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	// AccessTokenHeader is the HTTP header carrying the project access token.
	AccessTokenHeader = "Lightstep-Access-Token"

	// ContentType is the media type of an encoded report.
	ContentType = "application/octet-stream"

	dialTimeout = 30 * time.Second
)

// ErrNilLookup is returned when HTTPLookup is given a nil function.
var ErrNilLookup = errors.New("lookup function must not be nil")

// LookupFunc resolves a host name to a list of addresses, with the same
// contract as net.Resolver.LookupHost.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// StatusError is returned by HTTPTransport.Send when the collector answers
// with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector responded with HTTP %s", e.Status)
}

// HTTPTransport posts reports to the collector over HTTP or HTTPS.
type HTTPTransport struct {
	url    string
	client *http.Client

	timeout      time.Duration
	roundTripper http.RoundTripper
	lookup       LookupFunc
	lookupSet    bool
}

// HTTPOption sets a parameter for the HTTPTransport
type HTTPOption func(t *HTTPTransport)

// HTTPTimeout bounds every request, including reading the response body.
// Zero means no timeout.
func HTTPTimeout(duration time.Duration) HTTPOption {
	return func(t *HTTPTransport) { t.timeout = duration }
}

// HTTPRoundTripper replaces the default http.RoundTripper.
func HTTPRoundTripper(transport http.RoundTripper) HTTPOption {
	return func(t *HTTPTransport) { t.roundTripper = transport }
}

// HTTPLookup makes the transport resolve the collector host through fn
// instead of the system resolver. It cannot be combined with HTTPRoundTripper.
func HTTPLookup(fn LookupFunc) HTTPOption {
	return func(t *HTTPTransport) {
		t.lookup = fn
		t.lookupSet = true
	}
}

// NewHTTPTransport returns a new HTTP transport that posts to collectorURL,
// e.g. https://collector-grpc.lightstep.com:443/api/v2/reports.
func NewHTTPTransport(collectorURL string, options ...HTTPOption) (*HTTPTransport, error) {
	parsed, err := url.Parse(collectorURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid collector URL %q", collectorURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Errorf("unsupported collector protocol %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.Errorf("collector URL %q has no host", collectorURL)
	}

	t := &HTTPTransport{url: collectorURL}
	for _, option := range options {
		option(t)
	}

	roundTripper := t.roundTripper
	if t.lookupSet {
		if t.lookup == nil {
			return nil, ErrNilLookup
		}
		if roundTripper != nil {
			return nil, errors.New("custom lookup cannot be used with a custom round tripper")
		}
		httpTransport := http.DefaultTransport.(*http.Transport).Clone()
		httpTransport.DialContext = dialWithLookup(t.lookup)
		roundTripper = httpTransport
	}
	if roundTripper == nil {
		roundTripper = http.DefaultTransport
	}
	if t.timeout < 0 {
		return nil, errors.Errorf("negative timeout %v", t.timeout)
	}
	t.client = &http.Client{
		Timeout:   t.timeout,
		Transport: roundTripper,
	}
	return t, nil
}

// URL returns the collector endpoint this transport posts to.
func (t *HTTPTransport) URL() string {
	return t.url
}

// Send posts one encoded report and returns the response body.
func (t *HTTPTransport) Send(ctx context.Context, report []byte, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(report))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create report request")
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set(AccessTokenHeader, accessToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error sending report")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot read collector response")
	}
	return body, nil
}

// Close releases idle connections. In-flight requests are not interrupted.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func dialWithLookup(lookup LookupFunc) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: dialTimeout, KeepAlive: dialTimeout}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		addrs, err := lookup(ctx, host)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve %s", host)
		}
		lastErr := errors.Errorf("no addresses found for %s", host)
		for _, a := range addrs {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(a, port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}
