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
	"io"
)

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks github.com/lightstep/opentelemetry-exporter-go Transport

// Transport abstracts the method of delivering serialized reports to the
// collector. Implementations must be safe for concurrent use, since the
// Exporter may be called from several goroutines at once.
type Transport interface {
	// Send delivers one serialized ReportRequest and returns the raw
	// collector response body. A non-nil error means the report was not
	// acknowledged, whatever the cause.
	Send(ctx context.Context, report []byte, accessToken string) ([]byte, error)

	io.Closer
}
