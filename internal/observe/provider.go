package observe

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitProvider installs a global MeterProvider backed by the Prometheus
// exporter. The returned shutdown function flushes and closes it.
func InitProvider(_ context.Context) (shutdown func(context.Context) error, err error) {
	promExp, err := promexporter.New()
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExp))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Handler serves the Prometheus scrape endpoint for the default registry the
// exporter registers with.
func Handler() http.Handler {
	return promhttp.Handler()
}
