package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ctfarena/backend/pkg/tracing"
)

func TestSetupInstallsGlobalProvider(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background())
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "global tracer provider should be the SDK provider")
	assert.NotNil(t, otel.GetTextMapPropagator())

	require.NoError(t, shutdown(context.Background()))
}
