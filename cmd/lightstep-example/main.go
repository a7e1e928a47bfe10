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

// Command lightstep-example emits one client span to the Lightstep
// collector configured through LIGHTSTEP_* variables or a config file,
// and exposes the exporter metrics over HTTP while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lightstep/opentelemetry-exporter-go/config"
	lszap "github.com/lightstep/opentelemetry-exporter-go/log/zap"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file, overrides LIGHTSTEP_CONFIG_FILE")
	metricsAddr := flag.String("metrics-addr", ":9464", "address serving /metrics, empty to disable")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("cannot load configuration", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer server.Close()
	}

	provider, err := cfg.New(
		config.Logger(lszap.NewLogger(logger)),
		config.Metrics(jprom.New(jprom.WithRegisterer(registry))),
	)
	if err != nil {
		logger.Fatal("cannot create tracer provider", zap.Error(err))
	}

	ctx, span := provider.Tracer("lightstep-example").Start(context.Background(), "example-operation",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("example.attribute", "value")))
	span.AddEvent("request sent", trace.WithAttributes(attribute.Int("attempt", 1)))
	time.Sleep(10 * time.Millisecond)
	span.AddEvent("response received")
	span.End()
	logger.Info("emitted span", lszap.Trace(ctx))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()
	if err := provider.Shutdown(shutdownCtx); err != nil {
		logger.Error("cannot shut down tracer provider", zap.Error(err))
		os.Exit(1)
	}
}
