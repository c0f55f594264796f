package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/telemetry"
	"go.trai.ch/qeb/internal/adapters/telemetry/progrock"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestProvider_Recorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := telemetry.NewProvider(mocks.NewMockLogger(ctrl))

	assert.IsType(t, &telemetry.NoOpRecorder{}, provider.Recorder(false))
	assert.IsType(t, &progrock.Recorder{}, provider.Recorder(true))
}

func TestNoOpRecorder(t *testing.T) {
	rec := telemetry.NewNoOpRecorder()

	ctx, vertex := rec.Record(context.Background(), "bundle")
	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, got)

	n, err := vertex.Stdout().Write([]byte("output"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	vertex.Log(domain.LogLevelInfo, "ignored")
	vertex.Cached()
	vertex.Complete(nil)

	assert.NoError(t, rec.Close())
}
