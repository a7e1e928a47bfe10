package testutils

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/lightstep/lightstep-tracer-common/golang/gogo/collectorpb"
	"go.uber.org/atomic"
)

const (
	reportsPath       = "/api/v2/reports"
	accessTokenHeader = "Lightstep-Access-Token"
)

// StartMockCollector runs a mock representation of the Lightstep collector.
// It accepts encoded reports over HTTP and keeps them for inspection.
// This function returns a started server.
func StartMockCollector() *MockCollector {
	collector := &MockCollector{status: http.StatusOK}
	collector.server = httptest.NewServer(collector)
	return collector
}

// MockCollector is a mock representation of the Lightstep collector.
type MockCollector struct {
	server   *httptest.Server
	requests atomic.Int64

	mutex        sync.Mutex
	reports      []*collectorpb.ReportRequest
	accessTokens []string
	contentTypes []string
	status       int
	response     []byte
}

// Close stops the serving of traffic
func (c *MockCollector) Close() {
	c.server.Close()
}

// URL returns the reports endpoint of the collector.
func (c *MockCollector) URL() string {
	return c.server.URL + reportsPath
}

// HostPort returns the host and port the collector listens on.
func (c *MockCollector) HostPort() (string, int) {
	u, _ := url.Parse(c.server.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	p, _ := strconv.Atoi(port)
	return host, p
}

// SetStatus makes the collector answer every later report with status.
func (c *MockCollector) SetStatus(status int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.status = status
}

// SetResponse makes the collector answer every later report with response.
func (c *MockCollector) SetResponse(response *collectorpb.ReportResponse) {
	body, err := response.Marshal()
	if err != nil {
		panic(err)
	}
	c.SetRawResponse(body)
}

// SetRawResponse makes the collector answer every later report with body,
// which need not be a valid ReportResponse.
func (c *MockCollector) SetRawResponse(body []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.response = body
}

// RequestCount returns the number of requests received, decodable or not.
func (c *MockCollector) RequestCount() int64 {
	return c.requests.Load()
}

// Reports returns the decoded reports received so far.
func (c *MockCollector) Reports() []*collectorpb.ReportRequest {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	reports := make([]*collectorpb.ReportRequest, len(c.reports))
	copy(reports, c.reports)
	return reports
}

// Spans returns the spans of all reports received so far, in arrival order.
func (c *MockCollector) Spans() []*collectorpb.Span {
	var spans []*collectorpb.Span
	for _, report := range c.Reports() {
		spans = append(spans, report.Spans...)
	}
	return spans
}

// AccessTokens returns the access token header of every decoded report.
func (c *MockCollector) AccessTokens() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.accessTokens...)
}

// ContentTypes returns the content type header of every decoded report.
func (c *MockCollector) ContentTypes() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.contentTypes...)
}

// Reset discards accumulated reports.
func (c *MockCollector) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.reports = nil
	c.accessTokens = nil
	c.contentTypes = nil
}

func (c *MockCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.requests.Inc()
	if r.URL.Path != reportsPath {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "reports must be POSTed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	report := &collectorpb.ReportRequest{}
	if err := report.Unmarshal(body); err != nil {
		http.Error(w, "cannot decode report: "+err.Error(), http.StatusBadRequest)
		return
	}

	c.mutex.Lock()
	c.reports = append(c.reports, report)
	c.accessTokens = append(c.accessTokens, r.Header.Get(accessTokenHeader))
	c.contentTypes = append(c.contentTypes, r.Header.Get("Content-Type"))
	status, response := c.status, c.response
	c.mutex.Unlock()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(status)
	w.Write(response)
}
