package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		endpoint    string
		sampleRatio float64
	}{
		{name: "valid configuration", serviceName: "coursedeck", endpoint: "localhost:4318", sampleRatio: 1.0},
		{name: "empty service name", serviceName: "", endpoint: "localhost:4318", sampleRatio: 1.0},
		{name: "ratio sampling", serviceName: "coursedeck", endpoint: "localhost:4318", sampleRatio: 0.25},
		{name: "zero ratio keeps full sampling", serviceName: "coursedeck", endpoint: "localhost:4318", sampleRatio: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tp, err := InitTracer(ctx, tt.serviceName, tt.endpoint, tt.sampleRatio)
			if err != nil {
				t.Fatalf("InitTracer() returned error: %v", err)
			}
			if tp == nil {
				t.Fatal("Expected tracer provider, got nil")
			}

			// The exporter never connects in tests; Shutdown must still
			// return once its flush deadline passes.
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()
			_ = Shutdown(shutdownCtx, tp)
		})
	}
}

func TestShutdownNil(t *testing.T) {
	t.Parallel()

	if err := Shutdown(context.Background(), nil); err != nil {
		t.Errorf("Expected nil shutdown to be a no-op, got %v", err)
	}
}
