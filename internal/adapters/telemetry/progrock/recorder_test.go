package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/qeb/internal/adapters/telemetry/progrock"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRecorder_MirrorsToLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		logger.EXPECT().Info("[bundle] compiling entry"),
		logger.EXPECT().Info("[bundle] 42% building"),
		logger.EXPECT().Warn("[bundle] deprecated option"),
		logger.EXPECT().Info("[bundle] done"),
	)

	recorder := progrock.New(logger)
	ctx, vertex := recorder.Record(context.Background(), "bundle")

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, got)

	_, err := vertex.Stdout().Write([]byte("compiling entry\n42% "))
	require.NoError(t, err)
	_, err = vertex.Stdout().Write([]byte("building\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("deprecated option\r\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelInfo, "done")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
}

func TestVertex_LogLevels(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	logger.EXPECT().Warn("[cache] stale record")
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.Equal(t, "[cache] write failed", err.Error())
	})
	logger.EXPECT().Info("[cache] cached")

	recorder := progrock.New(logger)
	_, vertex := recorder.Record(context.Background(), "cache")
	vertex.Log(domain.LogLevelWarn, "stale record")
	vertex.Log(domain.LogLevelError, "write failed")
	vertex.Cached()
	vertex.Complete(errors.New("ignored by logger"))

	assert.NoError(t, recorder.Close())
}
