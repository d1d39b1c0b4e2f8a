package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyEndpointDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "groundcheck", "test", false)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_EndpointConfigured(t *testing.T) {
	// The OTLP/HTTP exporter does not dial at construction, so Init
	// succeeds without a collector listening.
	shutdown, err := Init(context.Background(), "localhost:4318", "groundcheck", "test", true)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	// Flushing against the absent collector may fail; only the attempt
	// must not hang.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestNewVerifyMetrics(t *testing.T) {
	m, err := NewVerifyMetrics()
	require.NoError(t, err)
	assert.NotNil(t, m.Verifications)
	assert.NotNil(t, m.Hallucinations)
	assert.NotNil(t, m.Disclosures)

	// Counters on the default (no-op) provider accept adds without error.
	m.Verifications.Add(context.Background(), 1)
}
