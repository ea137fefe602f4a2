package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secure-file-share/internal/model"
	"secure-file-share/internal/repository"
	"secure-file-share/internal/stats"
)

func TestLiveStats(t *testing.T) {
	files := repository.NewMemoryFileRepository()
	tracker := stats.NewActivityTracker(time.Minute)
	svc := NewStatsService(files, tracker)
	ctx := context.Background()

	data, err := svc.Live(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, data.TotalFiles)
	assert.Equal(t, 0, data.ActiveUsers)

	require.NoError(t, files.Create(ctx, model.File{ID: "f1"}))
	require.NoError(t, files.Create(ctx, model.File{ID: "f2"}))
	tracker.Touch("user-a")
	tracker.Touch("user-b")
	tracker.Touch("user-a")

	data, err = svc.Live(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, data.TotalFiles)
	assert.Equal(t, 2, data.ActiveUsers)
}
