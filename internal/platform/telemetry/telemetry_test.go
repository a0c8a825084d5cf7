package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/telemetry"
)

const service = "provisioner-test"

// shutdown stops a provider at test end. A missing collector makes OTLP
// shutdown fail, so only the stdout exporter is held to a clean shutdown.
func shutdown(t *testing.T, exporter string, stop func(context.Context) error) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err := stop(ctx)
		if exporter == telemetry.ExporterStdout {
			assert.NoError(t, err)
		}
	})
}

// Init functions install global providers, so these tests stay serial.

func TestInitTracer(t *testing.T) {
	for _, tt := range []struct{ exporter, endpoint string }{
		{telemetry.ExporterStdout, ""},
		{telemetry.ExporterOTLP, "http://localhost:4318"},
		{telemetry.ExporterOTLP, "https://collector.ci:4318"},
	} {
		t.Run(tt.exporter+tt.endpoint, func(t *testing.T) {
			tp, err := telemetry.InitTracer(t.Context(), service, tt.exporter, tt.endpoint)
			require.NoError(t, err)
			require.NotNil(t, tp)
			shutdown(t, tt.exporter, tp.Shutdown)

			assert.Same(t, tp, otel.GetTracerProvider())
			assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"},
				otel.GetTextMapPropagator().Fields())
		})
	}
}

func TestInitMeter(t *testing.T) {
	for _, tt := range []struct{ exporter, endpoint string }{
		{telemetry.ExporterStdout, ""},
		{telemetry.ExporterOTLP, "http://localhost:4318"},
	} {
		t.Run(tt.exporter, func(t *testing.T) {
			mp, err := telemetry.InitMeter(t.Context(), service, tt.exporter, tt.endpoint)
			require.NoError(t, err)
			require.NotNil(t, mp)
			shutdown(t, tt.exporter, mp.Shutdown)

			assert.Same(t, mp, otel.GetMeterProvider())
		})
	}
}

func TestInit_RejectsBadExporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exporter string
		endpoint string
		want     string
	}{
		{"unknown exporter", "jaeger", "", `unsupported exporter "jaeger"`},
		{"otlp without endpoint", telemetry.ExporterOTLP, "", "requires an endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := telemetry.InitTracer(t.Context(), service, tt.exporter, tt.endpoint)
			require.ErrorContains(t, err, tt.want)

			_, err = telemetry.InitMeter(t.Context(), service, tt.exporter, tt.endpoint)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewMetrics_RecordsProvisioningInstruments(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), service)
	require.NoError(t, err)

	ctx := t.Context()
	attrs := metric.WithAttributes(telemetry.AttrKind.String("User"), telemetry.AttrScope.String("function"))
	metrics.ObjectsCreated.Add(ctx, 2, attrs)
	metrics.CreateRetries.Add(ctx, 1, attrs)
	metrics.CreateDuration.Record(ctx, 0.25, attrs)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, service, rm.ScopeMetrics[0].Scope.Name)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "provision.objects.created")
	require.Contains(t, byName, "provision.create.retries")
	require.Contains(t, byName, "provision.create.duration")

	created, ok := byName["provision.objects.created"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(2), created.DataPoints[0].Value)
	kind, _ := created.DataPoints[0].Attributes.Value(telemetry.AttrKind)
	assert.Equal(t, "User", kind.AsString())
}

func TestNewMetrics_NoopProvider(t *testing.T) {
	t.Parallel()

	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider(), service)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		metrics.ClientRequestTotal.Add(t.Context(), 1)
		metrics.ClientRequestDuration.Record(t.Context(), 0.1)
	})
}
