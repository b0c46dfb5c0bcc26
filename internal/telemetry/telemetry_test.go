package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/schoollibrary/circulation/internal/telemetry"
)

func Test_Setup_KeepsGlobalProvider_WhenEndpointIsEmpty(t *testing.T) {
	// arrange
	before := otel.GetTracerProvider()

	// act
	shutdown, err := telemetry.Setup(context.Background(), "", "test")

	// assert
	require.NoError(t, err)
	assert.Same(t, before, otel.GetTracerProvider())
	assert.NoError(t, shutdown(context.Background()))
}
