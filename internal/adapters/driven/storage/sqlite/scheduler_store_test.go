package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := newTestStore(t)
	sched := store.SchedulerStore()
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDDocumentPoll,
		Name:     "Document Poll",
		Interval: time.Hour,
		NextRun:  time.Now().UTC().Truncate(time.Second).Add(time.Hour),
		Enabled:  true,
	}
	require.NoError(t, sched.SaveTask(ctx, task))

	got, err := sched.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, time.Hour, got.Interval)
	assert.True(t, got.Enabled)
	assert.True(t, got.LastRun.IsZero())
}

func TestSchedulerStore_GetTask_Missing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.SchedulerStore().GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSchedulerStore_TaskHistoryAndPrune(t *testing.T) {
	store := newTestStore(t)
	sched := store.SchedulerStore()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, sched.RecordResult(ctx, &domain.TaskResult{
			TaskID:         domain.TaskIDDocumentPoll,
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			EndedAt:        base.Add(time.Duration(i)*time.Minute + time.Second),
			Success:        i%2 == 0,
			Error:          fmt.Sprintf("err %d", i),
			ItemsProcessed: i,
		}))
	}

	results, err := sched.GetTaskHistory(ctx, domain.TaskIDDocumentPoll, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 4, results[0].ItemsProcessed, "most recent first")

	require.NoError(t, sched.PruneHistory(ctx, 2))

	results, err = sched.GetTaskHistory(ctx, domain.TaskIDDocumentPoll, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 4, results[0].ItemsProcessed)
	assert.Equal(t, 3, results[1].ItemsProcessed)
}

func TestSchedulerStore_DeleteTask(t *testing.T) {
	store := newTestStore(t)
	sched := store.SchedulerStore()
	ctx := context.Background()

	require.NoError(t, sched.SaveTask(ctx, &domain.ScheduledTask{
		ID: "temp", Name: "Temp", Interval: time.Minute, Enabled: true,
	}))
	require.NoError(t, sched.DeleteTask(ctx, "temp"))

	got, err := sched.GetTask(ctx, "temp")
	require.NoError(t, err)
	assert.Nil(t, got)
}
